package math

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var q128 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 128), 0)

// GetPriceFromSqrtPrice returns the token1-per-token0 price in UI units.
func GetPriceFromSqrtPrice(sqrtPriceX64 *big.Int, decimals0, decimals1 uint8) decimal.Decimal {
	decSqrt := decimal.NewFromBigInt(sqrtPriceX64, 0)
	return decSqrt.Mul(decSqrt).
		Mul(decimal.New(1, int32(decimals0)-int32(decimals1))).
		Div(q128)
}

// FeeRateToDecimal expresses a rate-per-million as a fraction with 6 digits.
func FeeRateToDecimal(rate uint32) decimal.Decimal {
	return decimal.New(int64(rate), -6)
}
