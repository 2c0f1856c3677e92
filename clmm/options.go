package clmm

import (
	"go.uber.org/zap"

	"github.com/krazyTry/swapio-clmm-go/clmm/math"
)

type Option func(*PoolManager)

// WithNeighborhoodSize bounds the initialized tick arrays fetched per
// direction. The count includes the first array of each direction, so n=2
// lists the current (or nearest initialized) array and one more.
func WithNeighborhoodSize(n int) Option {
	return func(m *PoolManager) {
		if n > 0 {
			m.neighborhoodSize = n
		}
	}
}

// WithSlippageBps sets the tolerance applied to quoted amounts. Values above
// 10000 bps are clamped to 10000.
func WithSlippageBps(bps uint16) Option {
	return func(m *PoolManager) {
		m.slippageBps = min(bps, math.BasisPointMax)
	}
}

// WithEpoch sets the epoch used to select mint transfer fees.
func WithEpoch(epoch uint64) Option {
	return func(m *PoolManager) {
		m.epoch = epoch
	}
}

func WithCurveMath(c CurveMath) Option {
	return func(m *PoolManager) {
		if c != nil {
			m.curve = c
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *PoolManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}
