package math

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
)

var errMaxTokenOverflow = fmt.Errorf("%w: token amount exceeds u64", shared.ErrArithmeticOverflow)

func mulDivFloor(a, b, denominator *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Quo(out, denominator)
}

func mulDivCeil(a, b, denominator *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	out.Add(out, denominator)
	out.Sub(out, big.NewInt(1))
	return out.Quo(out, denominator)
}

func divCeil(a, b *big.Int) *big.Int {
	out := new(big.Int).Add(a, b)
	out.Sub(out, big.NewInt(1))
	return out.Quo(out, b)
}

func toU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(U64Max) > 0 {
		return 0, errMaxTokenOverflow
	}
	return v.Uint64(), nil
}

func sortPrices(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// GetDeltaAmount0Unsigned computes L * (sqrtB - sqrtA) / (sqrtA * sqrtB) in token0 units.
func GetDeltaAmount0Unsigned(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) (uint64, error) {
	sqrtA, sqrtB = sortPrices(sqrtA, sqrtB)
	if sqrtA.Sign() == 0 {
		return 0, fmt.Errorf("%w: zero sqrt price", shared.ErrInvalidRequest)
	}
	numerator1 := new(big.Int).Lsh(liquidity, ScaleOffset)
	numerator2 := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return toU64(divCeil(mulDivCeil(numerator1, numerator2, sqrtB), sqrtA))
	}
	return toU64(new(big.Int).Quo(mulDivFloor(numerator1, numerator2, sqrtB), sqrtA))
}

// GetDeltaAmount1Unsigned computes L * (sqrtB - sqrtA) in token1 units.
func GetDeltaAmount1Unsigned(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) (uint64, error) {
	sqrtA, sqrtB = sortPrices(sqrtA, sqrtB)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return toU64(mulDivCeil(liquidity, diff, OneQ64))
	}
	return toU64(mulDivFloor(liquidity, diff, OneQ64))
}

func checkSqrtPrice(v *big.Int) (*big.Int, error) {
	if v.Sign() <= 0 || v.Cmp(U128Max) > 0 {
		return nil, fmt.Errorf("%w: sqrt price out of u128 range", shared.ErrArithmeticOverflow)
	}
	return v, nil
}

func getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity *big.Int, amount uint64, add bool) (*big.Int, error) {
	if amount == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	numerator1 := new(big.Int).Lsh(liquidity, ScaleOffset)
	product := new(big.Int).Mul(new(big.Int).SetUint64(amount), sqrtPrice)
	if add {
		denominator := new(big.Int).Add(numerator1, product)
		return checkSqrtPrice(mulDivCeil(numerator1, sqrtPrice, denominator))
	}
	if numerator1.Cmp(product) <= 0 {
		return nil, fmt.Errorf("%w: output exceeds token0 reserve in range", shared.ErrInsufficientLiquidity)
	}
	denominator := new(big.Int).Sub(numerator1, product)
	return checkSqrtPrice(mulDivCeil(numerator1, sqrtPrice, denominator))
}

func getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity *big.Int, amount uint64, add bool) (*big.Int, error) {
	shifted := new(big.Int).Lsh(new(big.Int).SetUint64(amount), ScaleOffset)
	if add {
		quotient := new(big.Int).Quo(shifted, liquidity)
		return checkSqrtPrice(quotient.Add(quotient, sqrtPrice))
	}
	quotient := divCeil(shifted, liquidity)
	if sqrtPrice.Cmp(quotient) <= 0 {
		return nil, fmt.Errorf("%w: output exceeds token1 reserve in range", shared.ErrInsufficientLiquidity)
	}
	return new(big.Int).Sub(sqrtPrice, quotient), nil
}

// GetNextSqrtPriceFromInput returns the price after adding amountIn to the pool.
func GetNextSqrtPriceFromInput(sqrtPrice, liquidity *big.Int, amountIn uint64, zeroForOne bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 || liquidity.Sign() <= 0 {
		return nil, errors.New("sqrt price and liquidity must be greater than 0")
	}
	if zeroForOne {
		return getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity, amountIn, true)
	}
	return getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity, amountIn, true)
}

// GetNextSqrtPriceFromOutput returns the price after removing amountOut from the pool.
func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity *big.Int, amountOut uint64, zeroForOne bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 || liquidity.Sign() <= 0 {
		return nil, errors.New("sqrt price and liquidity must be greater than 0")
	}
	if zeroForOne {
		return getNextSqrtPriceFromAmount1RoundingDown(sqrtPrice, liquidity, amountOut, false)
	}
	return getNextSqrtPriceFromAmount0RoundingUp(sqrtPrice, liquidity, amountOut, false)
}

// AddDelta applies a signed liquidity change, failing outside [0, 2^128).
func AddDelta(liquidity, delta *big.Int) (*big.Int, error) {
	out := new(big.Int).Add(liquidity, delta)
	if out.Sign() < 0 {
		return nil, fmt.Errorf("%w: liquidity", shared.ErrArithmeticUnderflow)
	}
	if out.Cmp(U128Max) > 0 {
		return nil, fmt.Errorf("%w: liquidity", shared.ErrArithmeticOverflow)
	}
	return out, nil
}
