package math

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
)

type SwapStep struct {
	SqrtPriceNextX64 *big.Int
	AmountIn         uint64
	AmountOut        uint64
	FeeAmount        uint64
}

// calculateAmountInRange returns the amount needed to move the price from
// current to target. ok is false when that amount does not fit in u64.
func calculateAmountInRange(current, target, liquidity *big.Int, zeroForOne, exactIn bool) (uint64, bool, error) {
	var (
		amount uint64
		err    error
	)
	switch {
	case exactIn && zeroForOne:
		amount, err = GetDeltaAmount0Unsigned(target, current, liquidity, true)
	case exactIn:
		amount, err = GetDeltaAmount1Unsigned(current, target, liquidity, true)
	case zeroForOne:
		amount, err = GetDeltaAmount1Unsigned(target, current, liquidity, false)
	default:
		amount, err = GetDeltaAmount0Unsigned(current, target, liquidity, false)
	}
	if errors.Is(err, errMaxTokenOverflow) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

// ComputeSwapStep moves the price from current toward target inside a single
// liquidity range, consuming at most amountRemaining. feeRate is per million.
func ComputeSwapStep(current, target, liquidity *big.Int, amountRemaining uint64, feeRate uint32, exactIn, zeroForOne bool) (*SwapStep, error) {
	step := &SwapStep{}
	inRange, inRangeOK, err := calculateAmountInRange(current, target, liquidity, zeroForOne, exactIn)
	if err != nil {
		return nil, err
	}

	if exactIn {
		lessFee := new(uint256.Int).Mul(uint256.NewInt(amountRemaining), uint256.NewInt(uint64(FeeRateDenominator-feeRate)))
		lessFee.Div(lessFee, uint256.NewInt(FeeRateDenominator))
		amountRemainingLessFee := lessFee.Uint64()

		if inRangeOK {
			step.AmountIn = inRange
		}
		if inRangeOK && amountRemainingLessFee >= step.AmountIn {
			step.SqrtPriceNextX64 = new(big.Int).Set(target)
		} else if step.SqrtPriceNextX64, err = GetNextSqrtPriceFromInput(current, liquidity, amountRemainingLessFee, zeroForOne); err != nil {
			return nil, err
		}
	} else {
		if inRangeOK {
			step.AmountOut = inRange
		}
		if inRangeOK && amountRemaining >= step.AmountOut {
			step.SqrtPriceNextX64 = new(big.Int).Set(target)
		} else if step.SqrtPriceNextX64, err = GetNextSqrtPriceFromOutput(current, liquidity, amountRemaining, zeroForOne); err != nil {
			return nil, err
		}
	}

	reached := target.Cmp(step.SqrtPriceNextX64) == 0
	if zeroForOne {
		if !(reached && exactIn) {
			if step.AmountIn, err = GetDeltaAmount0Unsigned(step.SqrtPriceNextX64, current, liquidity, true); err != nil {
				return nil, err
			}
		}
		if !(reached && !exactIn) {
			if step.AmountOut, err = GetDeltaAmount1Unsigned(step.SqrtPriceNextX64, current, liquidity, false); err != nil {
				return nil, err
			}
		}
	} else {
		if !(reached && exactIn) {
			if step.AmountIn, err = GetDeltaAmount1Unsigned(current, step.SqrtPriceNextX64, liquidity, true); err != nil {
				return nil, err
			}
		}
		if !(reached && !exactIn) {
			if step.AmountOut, err = GetDeltaAmount0Unsigned(current, step.SqrtPriceNextX64, liquidity, false); err != nil {
				return nil, err
			}
		}
	}

	if !exactIn && step.AmountOut > amountRemaining {
		step.AmountOut = amountRemaining
	}

	if exactIn && !reached {
		if step.AmountIn > amountRemaining {
			return nil, fmt.Errorf("%w: step input exceeds remaining amount", shared.ErrArithmeticUnderflow)
		}
		step.FeeAmount = amountRemaining - step.AmountIn
	} else {
		fee := mulDivCeil(new(big.Int).SetUint64(step.AmountIn), big.NewInt(int64(feeRate)), big.NewInt(int64(FeeRateDenominator-feeRate)))
		if step.FeeAmount, err = toU64(fee); err != nil {
			return nil, err
		}
	}
	return step, nil
}
