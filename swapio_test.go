package swapio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/swapio-clmm-go/clmm"
	"github.com/krazyTry/swapio-clmm-go/clmm/clmmtest"
)

func TestQuoteAcrossTicks(t *testing.T) {
	market := clmmtest.NewMarket(10, 0, 2500)
	market.AddPosition(-200, 200, 1_000_000_000)
	market.AddPosition(-1200, 1200, 1_000_000_000)

	amm, err := FromKeyedAccount(market.PoolAccount(), clmm.AmmContext{})
	require.NoError(t, err)
	require.NoError(t, amm.Update(market.Accounts()))

	tests := []struct {
		name    string
		params  clmm.QuoteParams
		in, out uint64
		fee     uint64
	}{
		{
			"zero for one exact in",
			clmm.QuoteParams{Amount: 30_000_000, InputMint: clmmtest.Mint0, OutputMint: clmmtest.Mint1},
			30_000_000, 29_437_676, 75_001,
		},
		{
			"one for zero exact in",
			clmm.QuoteParams{Amount: 30_000_000, InputMint: clmmtest.Mint1, OutputMint: clmmtest.Mint0},
			30_000_000, 29_437_676, 75_001,
		},
		{
			"zero for one exact out",
			clmm.QuoteParams{Amount: 20_000_000, InputMint: clmmtest.Mint0, OutputMint: clmmtest.Mint1, SwapMode: clmm.SwapModeExactOut},
			20_252_660, 20_000_000, 50_633,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := amm.Quote(tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.in, q.InAmount)
			assert.Equal(t, tt.out, q.OutAmount)
			assert.Equal(t, tt.fee, q.FeeAmount)
		})
	}

	_, err = amm.Quote(clmm.QuoteParams{Amount: 200_000_000, InputMint: clmmtest.Mint0, OutputMint: clmmtest.Mint1})
	assert.ErrorIs(t, err, clmm.ErrInsufficientLiquidity)
}

func TestNewPoolManagerAlias(t *testing.T) {
	market := clmmtest.NewMarket(10, 0, 2500)
	m, err := NewPoolManager(clmmtest.PoolKey, clmmtest.ProgramID, market.Pool)
	require.NoError(t, err)
	assert.Equal(t, clmmtest.PoolKey, m.Key())

	m, err = NewPoolManagerFromAccount(market.PoolAccount())
	require.NoError(t, err)
	assert.True(t, m.IsActive())
}
