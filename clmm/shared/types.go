package shared

// Enums shared by clmm and clmm/math.
type SwapMode uint8

const (
	SwapModeExactIn  SwapMode = 0
	SwapModeExactOut SwapMode = 1
)

func (m SwapMode) String() string {
	switch m {
	case SwapModeExactIn:
		return "ExactIn"
	case SwapModeExactOut:
		return "ExactOut"
	default:
		return "Unknown"
	}
}

// PoolStatus is the lifecycle state of a PoolManager.
type PoolStatus uint8

const (
	PoolStatusUninitialized PoolStatus = 0
	PoolStatusReady         PoolStatus = 1
)
