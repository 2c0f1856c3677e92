package math

import (
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

// TickCount is the tick span covered by one tick array.
func TickCount(tickSpacing uint16) int32 {
	return int32(tickSpacing) * TickArraySize
}

// GetArrayStartIndex returns the start index of the tick array holding tickIndex,
// rounding toward negative infinity.
func GetArrayStartIndex(tickIndex int32, tickSpacing uint16) int32 {
	ticksInArray := TickCount(tickSpacing)
	start := tickIndex / ticksInArray
	if tickIndex < 0 && tickIndex%ticksInArray != 0 {
		start--
	}
	return start * ticksInArray
}

func IsOutOfBoundary(tick int32) bool {
	return tick < MinTick || tick > MaxTick
}

func CheckIsValidStartIndex(tickIndex int32, tickSpacing uint16) bool {
	if IsOutOfBoundary(tickIndex) {
		if tickIndex > MaxTick {
			return false
		}
		return tickIndex == GetArrayStartIndex(MinTick, tickSpacing)
	}
	return tickIndex%TickCount(tickSpacing) == 0
}

// NextInitializedTick searches arr for the next initialized tick from
// currentTick in the swap direction. The tick at currentTick itself is a
// candidate only when moving toward lower prices.
func NextInitializedTick(arr *swapioclmm.TickArrayState, currentTick int32, tickSpacing uint16, zeroForOne bool) *swapioclmm.TickState {
	if GetArrayStartIndex(currentTick, tickSpacing) != arr.StartTickIndex {
		return nil
	}
	offset := (currentTick - arr.StartTickIndex) / int32(tickSpacing)
	if zeroForOne {
		for ; offset >= 0; offset-- {
			if arr.Ticks[offset].IsInitialized() {
				return &arr.Ticks[offset]
			}
		}
		return nil
	}
	for offset++; offset < TickArraySize; offset++ {
		if arr.Ticks[offset].IsInitialized() {
			return &arr.Ticks[offset]
		}
	}
	return nil
}

// FirstInitializedTick returns the first initialized tick met when entering
// arr in the swap direction.
func FirstInitializedTick(arr *swapioclmm.TickArrayState, zeroForOne bool) *swapioclmm.TickState {
	if zeroForOne {
		for i := TickArraySize - 1; i >= 0; i-- {
			if arr.Ticks[i].IsInitialized() {
				return &arr.Ticks[i]
			}
		}
		return nil
	}
	for i := 0; i < TickArraySize; i++ {
		if arr.Ticks[i].IsInitialized() {
			return &arr.Ticks[i]
		}
	}
	return nil
}
