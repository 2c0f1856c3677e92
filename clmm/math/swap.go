package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
	"github.com/krazyTry/swapio-clmm-go/u128"
)

// SwapResult is the outcome of walking the curve across a tick array window.
type SwapResult struct {
	AmountCalculated uint64
	FeeAmount        uint64
	SqrtPriceX64     *big.Int
	Tick             int32
	Liquidity        *big.Int
	TickArrays       []int32
}

// Curve implements tick crossing for a CLMM pool over a caller-provided
// window of tick arrays ordered in the swap direction.
type Curve struct{}

func (Curve) CrossTicks(
	amount uint64,
	zeroForOne, exactIn bool,
	config *swapioclmm.AmmConfig,
	pool *swapioclmm.PoolState,
	ext *swapioclmm.TickArrayBitmapExtension,
	window []*swapioclmm.TickArrayState,
) (uint64, uint64, error) {
	result, err := SwapCompute(amount, zeroForOne, exactIn, config, pool, ext, window)
	if err != nil {
		return 0, 0, err
	}
	return result.AmountCalculated, result.FeeAmount, nil
}

func insufficientLiquidity(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInsufficientLiquidity, fmt.Sprintf(format, args...))
}

func checkedAdd(a, b uint64) (uint64, error) {
	if a > U64Max.Uint64()-b {
		return 0, fmt.Errorf("%w: %d + %d", shared.ErrArithmeticOverflow, a, b)
	}
	return a + b, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d", shared.ErrArithmeticUnderflow, a, b)
	}
	return a - b, nil
}

// SwapCompute runs the swap loop. amount is the input for exact-in and the
// output for exact-out; AmountCalculated is the other side, fee included for
// exact-out.
func SwapCompute(
	amount uint64,
	zeroForOne, exactIn bool,
	config *swapioclmm.AmmConfig,
	pool *swapioclmm.PoolState,
	ext *swapioclmm.TickArrayBitmapExtension,
	window []*swapioclmm.TickArrayState,
) (*SwapResult, error) {
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must not be 0", shared.ErrInvalidRequest)
	}
	if config.TradeFeeRate >= FeeRateDenominator {
		return nil, fmt.Errorf("%w: trade fee rate %d", shared.ErrInvalidRequest, config.TradeFeeRate)
	}

	sqrtPriceLimit := new(big.Int).Sub(MaxSqrtPriceX64, big.NewInt(1))
	if zeroForOne {
		sqrtPriceLimit = new(big.Int).Add(MinSqrtPriceX64, big.NewInt(1))
	}

	state := &SwapResult{
		SqrtPriceX64: u128.ToBig(pool.SqrtPriceX64),
		Tick:         pool.TickCurrent,
		Liquidity:    u128.ToBig(pool.Liquidity),
	}
	if zeroForOne && state.SqrtPriceX64.Cmp(sqrtPriceLimit) <= 0 ||
		!zeroForOne && state.SqrtPriceX64.Cmp(sqrtPriceLimit) >= 0 {
		return nil, insufficientLiquidity("price already at the limit")
	}

	locator := NewBitmapLocator(pool, ext)
	matchCurrent, firstStart, found, err := locator.First(pool.TickCurrent, zeroForOne)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, insufficientLiquidity("no initialized tick array in direction")
	}
	if len(window) == 0 {
		return nil, insufficientLiquidity("empty tick array window")
	}
	idx := 0
	current := window[idx]
	if current.StartTickIndex != firstStart {
		return nil, insufficientLiquidity("tick array %d does not match expected start %d", current.StartTickIndex, firstStart)
	}
	state.TickArrays = append(state.TickArrays, current.StartTickIndex)

	remaining := amount
	maxSteps := (len(window) + 1) * TickArraySize
	for steps := 0; remaining != 0 &&
		state.SqrtPriceX64.Cmp(sqrtPriceLimit) != 0 &&
		state.Tick < MaxTick && state.Tick > MinTick; steps++ {
		if steps > maxSteps {
			return nil, insufficientLiquidity("step limit reached")
		}
		sqrtPriceStart := state.SqrtPriceX64

		next := NextInitializedTick(current, state.Tick, pool.TickSpacing, zeroForOne)
		if next == nil && !matchCurrent {
			matchCurrent = true
			next = FirstInitializedTick(current, zeroForOne)
		}
		if next == nil {
			found, nextStart := locator.Next(current.StartTickIndex, zeroForOne)
			if !found {
				return nil, insufficientLiquidity("tick arrays exhausted beyond %d", current.StartTickIndex)
			}
			idx++
			if idx >= len(window) {
				return nil, insufficientLiquidity("tick array window exhausted at %d", nextStart)
			}
			current = window[idx]
			if current.StartTickIndex != nextStart {
				return nil, insufficientLiquidity("tick array %d does not match expected start %d", current.StartTickIndex, nextStart)
			}
			state.TickArrays = append(state.TickArrays, current.StartTickIndex)
			if next = FirstInitializedTick(current, zeroForOne); next == nil {
				return nil, insufficientLiquidity("tick array %d holds no initialized tick", current.StartTickIndex)
			}
		}

		tickNext := next.Tick
		if tickNext < MinTick {
			tickNext = MinTick
		} else if tickNext > MaxTick {
			tickNext = MaxTick
		}
		sqrtPriceNext, err := GetSqrtPriceAtTick(tickNext)
		if err != nil {
			return nil, err
		}
		target := sqrtPriceNext
		if zeroForOne && sqrtPriceNext.Cmp(sqrtPriceLimit) < 0 || !zeroForOne && sqrtPriceNext.Cmp(sqrtPriceLimit) > 0 {
			target = sqrtPriceLimit
		}

		step, err := ComputeSwapStep(state.SqrtPriceX64, target, state.Liquidity, remaining, config.TradeFeeRate, exactIn, zeroForOne)
		if err != nil {
			return nil, err
		}
		state.SqrtPriceX64 = step.SqrtPriceNextX64

		if exactIn {
			spent, err := checkedAdd(step.AmountIn, step.FeeAmount)
			if err != nil {
				return nil, err
			}
			if remaining, err = checkedSub(remaining, spent); err != nil {
				return nil, err
			}
			if state.AmountCalculated, err = checkedAdd(state.AmountCalculated, step.AmountOut); err != nil {
				return nil, err
			}
		} else {
			if remaining, err = checkedSub(remaining, step.AmountOut); err != nil {
				return nil, err
			}
			spent, err := checkedAdd(step.AmountIn, step.FeeAmount)
			if err != nil {
				return nil, err
			}
			if state.AmountCalculated, err = checkedAdd(state.AmountCalculated, spent); err != nil {
				return nil, err
			}
		}
		if state.FeeAmount, err = checkedAdd(state.FeeAmount, step.FeeAmount); err != nil {
			return nil, err
		}

		if state.SqrtPriceX64.Cmp(sqrtPriceNext) == 0 {
			liquidityNet := u128.Int128ToBig(next.LiquidityNet)
			if zeroForOne {
				liquidityNet.Neg(liquidityNet)
			}
			if state.Liquidity, err = AddDelta(state.Liquidity, liquidityNet); err != nil {
				return nil, err
			}
			state.Tick = tickNext
			if zeroForOne {
				state.Tick = tickNext - 1
			}
		} else if state.SqrtPriceX64.Cmp(sqrtPriceStart) != 0 {
			if state.Tick, err = GetTickAtSqrtPrice(state.SqrtPriceX64); err != nil {
				return nil, err
			}
		}
	}

	if remaining != 0 {
		return nil, insufficientLiquidity("%d of %d left unfilled", remaining, amount)
	}
	return state, nil
}
