package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	"github.com/shopspring/decimal"
)

const BasisPointMax = 10_000

var u64MaxDecimal = decimal.NewFromBigInt(U64Max, 0)

// GetMinAmountWithSlippage scales amount down by slippageBps, rounding down.
func GetMinAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps == 0 {
		return amount, nil
	}
	if slippageBps > BasisPointMax {
		return 0, fmt.Errorf("%w: slippage %d bps", shared.ErrInvalidRequest, slippageBps)
	}
	factor := decimal.NewFromInt(BasisPointMax - int64(slippageBps))
	out := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).Mul(factor).Div(decimal.NewFromInt(BasisPointMax)).Floor()
	return out.BigInt().Uint64(), nil
}

// GetMaxAmountWithSlippage scales amount up by slippageBps, rounding up.
func GetMaxAmountWithSlippage(amount uint64, slippageBps uint16) (uint64, error) {
	if slippageBps == 0 {
		return amount, nil
	}
	factor := decimal.NewFromInt(BasisPointMax + int64(slippageBps))
	out := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).Mul(factor).Div(decimal.NewFromInt(BasisPointMax)).Ceil()
	if out.GreaterThan(u64MaxDecimal) {
		return 0, fmt.Errorf("%w: %d with %d bps slippage", shared.ErrArithmeticOverflow, amount, slippageBps)
	}
	return out.BigInt().Uint64(), nil
}
