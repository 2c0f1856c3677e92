package swapioclmm

import (
	"testing"

	ag_binary "github.com/gagliardetto/binary"
	ag_solanago "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodedSizes(t *testing.T) {
	data, err := Encode(AmmConfig{})
	require.NoError(t, err)
	assert.Len(t, data, AmmConfigSize)

	data, err = Encode(PoolState{})
	require.NoError(t, err)
	assert.Len(t, data, PoolStateSize)

	data, err = Encode(TickArrayState{})
	require.NoError(t, err)
	assert.Len(t, data, TickArrayStateSize)

	data, err = Encode(TickArrayBitmapExtension{})
	require.NoError(t, err)
	assert.Len(t, data, TickArrayBitmapExtensionSize)
}

func TestPoolStateLayout(t *testing.T) {
	mint := ag_solanago.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	pool := PoolState{
		TokenMint0:   mint,
		TickSpacing:  60,
		TickCurrent:  -12345,
		SqrtPriceX64: ag_binary.Uint128{Lo: 7, Hi: 1},
		Liquidity:    ag_binary.Uint128{Lo: 99},
	}
	pool.TickArrayBitmap[3] = 0xff
	pool.RewardInfos[2].TokenMint = mint

	data, err := Encode(pool)
	require.NoError(t, err)
	assert.Equal(t, PoolStateDiscriminator[:], data[:8])

	got, err := DecodePoolState(data)
	require.NoError(t, err)
	assert.Equal(t, mint, got.TokenMint0)
	assert.Equal(t, uint16(60), got.TickSpacing)
	assert.Equal(t, int32(-12345), got.TickCurrent)
	assert.Equal(t, uint64(7), got.SqrtPriceX64.Lo)
	assert.Equal(t, uint64(1), got.SqrtPriceX64.Hi)
	assert.Equal(t, uint64(99), got.Liquidity.Lo)
	assert.Equal(t, uint64(0xff), got.TickArrayBitmap[3])
	assert.Equal(t, mint, got.RewardInfos[2].TokenMint)
}

func TestTickArrayLayout(t *testing.T) {
	arr := TickArrayState{StartTickIndex: -600, InitializedTickCount: 1}
	arr.Ticks[59].Tick = -10
	arr.Ticks[59].LiquidityNet = ag_binary.Int128{Lo: ^uint64(0), Hi: ^uint64(0)}
	arr.Ticks[59].LiquidityGross = ag_binary.Uint128{Lo: 1}

	data, err := Encode(arr)
	require.NoError(t, err)
	got, err := DecodeTickArrayState(data)
	require.NoError(t, err)
	assert.Equal(t, int32(-600), got.StartTickIndex)
	assert.Equal(t, int32(-10), got.Ticks[59].Tick)
	assert.Equal(t, ^uint64(0), got.Ticks[59].LiquidityNet.Hi)
	assert.True(t, got.Ticks[59].IsInitialized())
	assert.False(t, got.Ticks[0].IsInitialized())
}

func TestDecodeRejectsForeignAccounts(t *testing.T) {
	data, err := Encode(AmmConfig{TradeFeeRate: 2500})
	require.NoError(t, err)

	cfg, err := DecodeAmmConfig(data)
	require.NoError(t, err)
	assert.Equal(t, uint32(2500), cfg.TradeFeeRate)

	_, err = DecodePoolState(append(data, make([]byte, PoolStateSize)...))
	assert.ErrorContains(t, err, "discriminator")

	_, err = DecodeAmmConfig(data[:AmmConfigSize-1])
	assert.ErrorContains(t, err, "too short")
}
