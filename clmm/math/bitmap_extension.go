package math

import (
	"fmt"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

type extensionSegment = [swapioclmm.ExtensionTickArrayBitmapWords]uint64

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

// GetBitmapTickBoundary returns the [min, max) tick range covered by the
// 512-bit segment holding tickArrayStartIndex.
func GetBitmapTickBoundary(tickArrayStartIndex int32, tickSpacing uint16) (int32, int32) {
	ticksInOneBitmap := MaxTickInTickArrayBitmap(tickSpacing)
	m := abs32(tickArrayStartIndex) / ticksInOneBitmap
	if tickArrayStartIndex < 0 && abs32(tickArrayStartIndex)%ticksInOneBitmap != 0 {
		m++
	}
	minValue := ticksInOneBitmap * m
	if tickArrayStartIndex < 0 {
		return -minValue, -minValue + ticksInOneBitmap
	}
	return minValue, minValue + ticksInOneBitmap
}

// TickArrayOffsetInBitmap is the bit of tickArrayStartIndex inside its segment.
func TickArrayOffsetInBitmap(tickArrayStartIndex int32, tickSpacing uint16) int32 {
	m := abs32(tickArrayStartIndex) % MaxTickInTickArrayBitmap(tickSpacing)
	offset := m / TickCount(tickSpacing)
	if tickArrayStartIndex < 0 && m != 0 {
		offset = TickArrayBitmapSize - offset
	}
	return offset
}

func checkExtensionBoundary(tickIndex int32, tickSpacing uint16) error {
	positiveBoundary := MaxTickInTickArrayBitmap(tickSpacing)
	if tickIndex >= -positiveBoundary && tickIndex < positiveBoundary {
		return fmt.Errorf("%w: start index %d is inside the embedded bitmap", shared.ErrInvalidRequest, tickIndex)
	}
	return nil
}

func getBitmapOffset(tickIndex int32, tickSpacing uint16) (int, error) {
	if !CheckIsValidStartIndex(tickIndex, tickSpacing) {
		return 0, fmt.Errorf("%w: invalid tick array start index %d", shared.ErrInvalidRequest, tickIndex)
	}
	if err := checkExtensionBoundary(tickIndex, tickSpacing); err != nil {
		return 0, err
	}
	ticksInOneBitmap := MaxTickInTickArrayBitmap(tickSpacing)
	offset := abs32(tickIndex)/ticksInOneBitmap - 1
	if tickIndex < 0 && abs32(tickIndex)%ticksInOneBitmap == 0 {
		offset--
	}
	if offset < 0 || offset >= ExtensionTickArrayBitmapSize {
		return 0, fmt.Errorf("%w: start index %d", shared.ErrUnrepresentableRange, tickIndex)
	}
	return int(offset), nil
}

func getExtensionSegment(ext *swapioclmm.TickArrayBitmapExtension, tickIndex int32, tickSpacing uint16) (*extensionSegment, error) {
	offset, err := getBitmapOffset(tickIndex, tickSpacing)
	if err != nil {
		return nil, err
	}
	if tickIndex < 0 {
		return &ext.NegativeTickArrayBitmap[offset], nil
	}
	return &ext.PositiveTickArrayBitmap[offset], nil
}

// ExtensionTickArrayIsInitialized reports whether the extension flags the
// tick array starting at tickArrayStartIndex.
func ExtensionTickArrayIsInitialized(ext *swapioclmm.TickArrayBitmapExtension, tickArrayStartIndex int32, tickSpacing uint16) (bool, error) {
	segment, err := getExtensionSegment(ext, tickArrayStartIndex, tickSpacing)
	if err != nil {
		return false, err
	}
	bit := TickArrayOffsetInBitmap(tickArrayStartIndex, tickSpacing)
	return segment[bit/64]&(1<<uint(bit%64)) != 0, nil
}

// SetExtensionTickArrayBit flags a tick array outside the embedded range.
func SetExtensionTickArrayBit(ext *swapioclmm.TickArrayBitmapExtension, tickArrayStartIndex int32, tickSpacing uint16) error {
	segment, err := getExtensionSegment(ext, tickArrayStartIndex, tickSpacing)
	if err != nil {
		return err
	}
	bit := TickArrayOffsetInBitmap(tickArrayStartIndex, tickSpacing)
	segment[bit/64] |= 1 << uint(bit%64)
	return nil
}

// NextInitializedTickArrayFromOneBitmap searches the single extension segment
// that holds the array after lastStart. If nothing is set it returns the
// segment boundary so the caller can move on to the neighbouring segment.
func NextInitializedTickArrayFromOneBitmap(ext *swapioclmm.TickArrayBitmapExtension, lastStart int32, tickSpacing uint16, zeroForOne bool) (bool, int32, error) {
	multiplier := TickCount(tickSpacing)
	next := lastStart + multiplier
	if zeroForOne {
		next = lastStart - multiplier
	}
	minStart := GetArrayStartIndex(MinTick, tickSpacing)
	maxStart := GetArrayStartIndex(MaxTick, tickSpacing)
	if next < minStart || next > maxStart {
		return false, next, nil
	}

	segment, err := getExtensionSegment(ext, next, tickSpacing)
	if err != nil {
		return false, next, err
	}
	found, start := NextInitializedTickArrayInBitmap(*segment, next, tickSpacing, zeroForOne)
	return found, start, nil
}

func NextInitializedTickArrayInBitmap(segment extensionSegment, next int32, tickSpacing uint16, zeroForOne bool) (bool, int32) {
	minBoundary, maxBoundary := GetBitmapTickBoundary(next, tickSpacing)
	offset := int(TickArrayOffsetInBitmap(next, tickSpacing))
	count := TickCount(tickSpacing)
	if zeroForOne {
		bit := highestSetBitAtOrBelow(segment[:], offset)
		if bit < 0 {
			return false, minBoundary
		}
		return true, next - int32(offset-bit)*count
	}
	bit := lowestSetBitAtOrAbove(segment[:], offset)
	if bit < 0 {
		return false, maxBoundary - count
	}
	return true, next + int32(bit-offset)*count
}
