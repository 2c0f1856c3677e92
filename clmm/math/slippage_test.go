package math

import (
	"testing"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlippageBounds(t *testing.T) {
	minOut, err := GetMinAmountWithSlippage(997_499, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(992_511), minOut)

	maxIn, err := GetMaxAmountWithSlippage(501_255, 50)
	require.NoError(t, err)
	assert.Equal(t, uint64(503_762), maxIn)

	minOut, err = GetMinAmountWithSlippage(12345, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), minOut)

	_, err = GetMinAmountWithSlippage(1, BasisPointMax+1)
	assert.ErrorIs(t, err, shared.ErrInvalidRequest)

	_, err = GetMaxAmountWithSlippage(U64Max.Uint64(), 1)
	assert.ErrorIs(t, err, shared.ErrArithmeticOverflow)
}

func TestPriceHelpers(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.0025").Equal(FeeRateToDecimal(2500)))
	assert.Equal(t, int32(-6), FeeRateToDecimal(2500).Exponent())

	assert.True(t, decimal.NewFromInt(1).Equal(GetPriceFromSqrtPrice(OneQ64, 6, 6)))
	assert.True(t, decimal.NewFromInt(1000).Equal(GetPriceFromSqrtPrice(OneQ64, 9, 6)))
}
