package clmm_test

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/swapio-clmm-go/clmm"
	"github.com/krazyTry/swapio-clmm-go/clmm/clmmtest"
)

func newAdapter(t *testing.T, market *clmmtest.Market, ctx clmm.AmmContext, opts ...clmm.Option) *clmm.Adapter {
	t.Helper()
	a, err := clmm.FromKeyedAccount(market.PoolAccount(), ctx, opts...)
	require.NoError(t, err)
	return a
}

func TestAdapterContract(t *testing.T) {
	var amm clmm.Amm = newAdapter(t, singleRangeMarket(), clmm.AmmContext{})

	assert.Equal(t, "SwapIoClmm", amm.Label())
	assert.Equal(t, clmmtest.ProgramID, amm.ProgramID())
	assert.Equal(t, clmmtest.PoolKey, amm.Key())
	assert.True(t, amm.SupportsExactOut())
	assert.False(t, amm.HasDynamicAccounts())
	assert.False(t, amm.RequiresUpdateForReserveMints())
	assert.True(t, amm.IsActive())
	assert.Equal(t, []solanago.PublicKey{clmmtest.Mint0, clmmtest.Mint1}, amm.ReserveMints())
}

func TestAdapterQuoteLifecycle(t *testing.T) {
	market := singleRangeMarket()
	var amm clmm.Amm = newAdapter(t, market, clmm.AmmContext{})

	_, err := amm.Quote(exactIn(1_000_000))
	assert.ErrorIs(t, err, clmm.ErrNotReady)

	accounts := clmm.AccountMap{}
	all := market.Accounts()
	for _, address := range amm.AccountsToUpdate() {
		if acc, ok := all[address]; ok {
			accounts[address] = acc
		}
	}
	require.NoError(t, amm.Update(accounts))

	q, err := amm.Quote(exactIn(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(997_499), q.OutAmount)
}

func TestAdapterEpochFromClock(t *testing.T) {
	market := singleRangeMarket()
	market.Mints[0].TransferFee = clmmtest.FlatTransferFee(0, 0)
	market.Mints[0].TransferFee.NewerTransferFee.Epoch = 10
	market.Mints[0].TransferFee.NewerTransferFee.BasisPoints = 100
	market.Mints[0].TransferFee.NewerTransferFee.MaximumFee = 10_000

	for _, tt := range []struct {
		epoch uint64
		out   uint64
	}{
		{9, 997_499},
		{10, 987_524},
	} {
		a := newAdapter(t, market, clmm.AmmContext{ClockRef: &clmm.ClockRef{Epoch: tt.epoch}})
		require.NoError(t, a.Update(market.Accounts()))
		q, err := a.Quote(exactIn(1_000_000))
		require.NoError(t, err)
		assert.Equal(t, tt.out, q.OutAmount, "epoch %d", tt.epoch)
	}

	// An explicit option wins over the clock.
	a := newAdapter(t, market, clmm.AmmContext{ClockRef: &clmm.ClockRef{Epoch: 10}}, clmm.WithEpoch(0))
	require.NoError(t, a.Update(market.Accounts()))
	q, err := a.Quote(exactIn(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(997_499), q.OutAmount)
}

func TestAdapterClone(t *testing.T) {
	market := singleRangeMarket()
	a := newAdapter(t, market, clmm.AmmContext{})
	require.NoError(t, a.Update(market.Accounts()))

	c := a.Clone()
	require.IsType(t, &clmm.Adapter{}, c)
	assert.NotSame(t, a.PoolManager, c.(*clmm.Adapter).PoolManager)

	q, err := c.Quote(exactIn(1_000_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(997_499), q.OutAmount)
}

func TestAdapterRejectsUndecodablePool(t *testing.T) {
	_, err := clmm.FromKeyedAccount(clmm.KeyedAccount{Key: clmmtest.PoolKey}, clmm.AmmContext{})
	assert.ErrorIs(t, err, clmm.ErrDecode)
}

func TestSwapAndAccountMetas(t *testing.T) {
	market := singleRangeMarket()
	a := newAdapter(t, market, clmm.AmmContext{})
	extension := a.TickArrayBitmapExtension()

	source, destination := clmmtest.Key("user-source"), clmmtest.Key("user-destination")
	params := clmm.SwapParams{
		SwapMode:                clmm.SwapModeExactIn,
		InAmount:                1_000_000,
		SourceMint:              clmmtest.Mint0,
		DestinationMint:         clmmtest.Mint1,
		SourceTokenAccount:      source,
		DestinationTokenAccount: destination,
		TokenTransferAuthority:  clmmtest.Key("user"),
	}

	out, err := a.SwapAndAccountMetas(params)
	require.NoError(t, err)
	assert.Equal(t, clmm.SwapKindSwapIOClmm, out.Swap)
	assert.Equal(t, "SwapIoClmm", out.Swap.String())

	want := solanago.AccountMetaSlice{
		solanago.NewAccountMeta(clmmtest.ConfigKey, false, false),
		solanago.NewAccountMeta(clmmtest.PoolKey, true, false),
		solanago.NewAccountMeta(source, true, false),
		solanago.NewAccountMeta(destination, true, false),
		solanago.NewAccountMeta(market.Pool.TokenVault0, true, false),
		solanago.NewAccountMeta(market.Pool.TokenVault1, true, false),
		solanago.NewAccountMeta(market.Pool.ObservationKey, true, false),
		solanago.NewAccountMeta(solanago.TokenProgramID, false, false),
		solanago.NewAccountMeta(solanago.Token2022ProgramID, false, false),
		solanago.NewAccountMeta(clmm.MemoProgramID, false, false),
		solanago.NewAccountMeta(clmmtest.Mint0, false, false),
		solanago.NewAccountMeta(clmmtest.Mint1, false, false),
		solanago.NewAccountMeta(extension, true, false),
		solanago.NewAccountMeta(tickArrayAddress(t, -600), true, false),
	}
	assert.Equal(t, want, out.AccountMetas)

	params.SourceMint, params.DestinationMint = clmmtest.Mint1, clmmtest.Mint0
	out, err = a.SwapAndAccountMetas(params)
	require.NoError(t, err)
	require.Len(t, out.AccountMetas, 14)
	assert.Equal(t, market.Pool.TokenVault1, out.AccountMetas[4].PublicKey)
	assert.Equal(t, market.Pool.TokenVault0, out.AccountMetas[5].PublicKey)
	assert.Equal(t, clmmtest.Mint1, out.AccountMetas[10].PublicKey)
	assert.Equal(t, tickArrayAddress(t, 600), out.AccountMetas[13].PublicKey)

	params.DestinationMint = clmmtest.Mint1
	_, err = a.SwapAndAccountMetas(params)
	assert.ErrorIs(t, err, clmm.ErrInvalidRequest)
}

func TestSwapAndAccountMetasWithoutTickArrays(t *testing.T) {
	a := newAdapter(t, clmmtest.NewMarket(10, 0, 2500), clmm.AmmContext{})
	_, err := a.SwapAndAccountMetas(clmm.SwapParams{SourceMint: clmmtest.Mint0, DestinationMint: clmmtest.Mint1})
	assert.ErrorIs(t, err, clmm.ErrInsufficientLiquidity)
}
