package clmm

import (
	"errors"
	"fmt"

	"github.com/krazyTry/swapio-clmm-go/clmm/math"
	"github.com/krazyTry/swapio-clmm-go/solana/token2022"
)

// QuoteEngine turns quote params into a Quote against a pool manager's state.
type QuoteEngine struct {
	Curve       CurveMath
	SlippageBps uint16
	// Epoch selects the transfer fee in effect on Token-2022 mints.
	Epoch uint64
}

// CalculateQuote validates params and prices the swap. Exact-in amounts are
// reduced by the input mint's transfer fee before crossing ticks; exact-out
// amounts are grossed up by it afterwards.
func (e *QuoteEngine) CalculateQuote(params QuoteParams, m *PoolManager) (*Quote, error) {
	if m.accounts == nil {
		return nil, fmt.Errorf("%w: pool %s has not been updated", ErrNotReady, m.key)
	}
	zeroForOne, err := swapDirection(m.pool, params)
	if err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: amount must not be 0", ErrInvalidRequest)
	}

	window := m.accounts.upper
	if zeroForOne {
		window = m.accounts.lower
	}
	inputFee := m.accounts.transferFeeConfig(zeroForOne)
	feePct := math.FeeRateToDecimal(m.accounts.config.TradeFeeRate)

	switch params.SwapMode {
	case SwapModeExactIn:
		transferFee, err := token2022.TransferFeeAt(inputFee, e.Epoch, params.Amount)
		if err != nil {
			return nil, err
		}
		amountIn, err := subAmount(params.Amount, transferFee)
		if err != nil {
			return nil, err
		}
		if amountIn == 0 {
			return nil, fmt.Errorf("%w: amount %d consumed by transfer fee", ErrInvalidRequest, params.Amount)
		}
		out, fee, err := e.Curve.CrossTicks(amountIn, zeroForOne, true, m.accounts.config, m.pool, m.accounts.extension, window)
		if err != nil {
			return nil, curveError(err)
		}
		minOut, err := math.GetMinAmountWithSlippage(out, e.SlippageBps)
		if err != nil {
			return nil, err
		}
		return &Quote{
			InAmount:  params.Amount,
			OutAmount: minOut,
			FeeAmount: fee,
			FeeMint:   params.InputMint,
			FeePct:    feePct,
		}, nil

	case SwapModeExactOut:
		in, fee, err := e.Curve.CrossTicks(params.Amount, zeroForOne, false, m.accounts.config, m.pool, m.accounts.extension, window)
		if err != nil {
			return nil, curveError(err)
		}
		maxIn, err := math.GetMaxAmountWithSlippage(in, e.SlippageBps)
		if err != nil {
			return nil, err
		}
		transferFee, err := token2022.InverseTransferFeeAt(inputFee, e.Epoch, maxIn)
		if err != nil {
			return nil, err
		}
		if maxIn, err = addAmount(maxIn, transferFee); err != nil {
			return nil, err
		}
		return &Quote{
			InAmount:  maxIn,
			OutAmount: params.Amount,
			FeeAmount: fee,
			FeeMint:   params.InputMint,
			FeePct:    feePct,
		}, nil
	}
	return nil, fmt.Errorf("%w: swap mode %d", ErrInvalidRequest, params.SwapMode)
}

// swapDirection is true when the input is token0.
func swapDirection(pool *PoolState, params QuoteParams) (bool, error) {
	switch {
	case params.InputMint.Equals(pool.TokenMint0) && params.OutputMint.Equals(pool.TokenMint1):
		return true, nil
	case params.InputMint.Equals(pool.TokenMint1) && params.OutputMint.Equals(pool.TokenMint0):
		return false, nil
	}
	return false, fmt.Errorf("%w: pair %s -> %s is not served by pool", ErrInvalidRequest, params.InputMint, params.OutputMint)
}

// curveError reports failures of the curve walk as insufficient liquidity
// unless they already carry a more specific cause.
func curveError(err error) error {
	for _, kind := range []error{
		ErrInsufficientLiquidity,
		ErrArithmeticOverflow,
		ErrArithmeticUnderflow,
		ErrInvalidRequest,
		ErrUnrepresentableRange,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrInsufficientLiquidity, err)
}

func subAmount(a, b uint64) (uint64, error) {
	if b > a {
		return 0, fmt.Errorf("%w: %d - %d", ErrArithmeticUnderflow, a, b)
	}
	return a - b, nil
}

func addAmount(a, b uint64) (uint64, error) {
	if a+b < a {
		return 0, fmt.Errorf("%w: %d + %d", ErrArithmeticOverflow, a, b)
	}
	return a + b, nil
}
