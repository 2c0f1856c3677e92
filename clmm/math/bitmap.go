package math

import (
	"fmt"
	"math/bits"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

// BitmapLocator finds initialized tick arrays from a pool's embedded bitmap and,
// when set, its bitmap extension.
type BitmapLocator struct {
	Bitmap      [swapioclmm.TickArrayBitmapWords]uint64
	Extension   *swapioclmm.TickArrayBitmapExtension
	TickSpacing uint16
}

func NewBitmapLocator(pool *swapioclmm.PoolState, ext *swapioclmm.TickArrayBitmapExtension) *BitmapLocator {
	return &BitmapLocator{
		Bitmap:      pool.TickArrayBitmap,
		Extension:   ext,
		TickSpacing: pool.TickSpacing,
	}
}

// IsOverflow reports whether the tick array holding tick lies outside the
// embedded bitmap.
func (l *BitmapLocator) IsOverflow(tick int32) bool {
	return IsOverflowDefaultTickArrayBitmap(l.TickSpacing, tick)
}

// CurrentInitialized reports whether the tick array containing tick is flagged,
// together with its start index.
func (l *BitmapLocator) CurrentInitialized(tick int32) (bool, int32, error) {
	start := GetArrayStartIndex(tick, l.TickSpacing)
	if !l.IsOverflow(tick) {
		return CheckCurrentTickArrayIsInitialized(l.Bitmap, tick, l.TickSpacing)
	}
	if l.Extension == nil {
		return false, start, fmt.Errorf("%w: tick %d without bitmap extension", shared.ErrUnrepresentableRange, tick)
	}
	ok, err := ExtensionTickArrayIsInitialized(l.Extension, start, l.TickSpacing)
	return ok, start, err
}

// Next returns the next initialized tick array start index strictly beyond
// lastStart in the given direction. found is false once the representable
// range is exhausted.
func (l *BitmapLocator) Next(lastStart int32, zeroForOne bool) (found bool, start int32) {
	return NextInitializedTickArrayStartIndex(l.Bitmap, l.Extension, lastStart, l.TickSpacing, zeroForOne)
}

// First returns the tick array a swap from tick starts in: the current array
// when initialized, else the next initialized one in the direction.
func (l *BitmapLocator) First(tick int32, zeroForOne bool) (isCurrent bool, start int32, found bool, err error) {
	ok, current, err := l.CurrentInitialized(tick)
	if err != nil {
		return false, 0, false, err
	}
	if ok {
		return true, current, true, nil
	}
	found, start = l.Next(current, zeroForOne)
	return false, start, found, nil
}

func MaxTickInTickArrayBitmap(tickSpacing uint16) int32 {
	return TickCount(tickSpacing) * TickArrayBitmapSize
}

// TickArrayStartIndexRange is the half-open start index range [min, max) the
// embedded bitmap represents. For tick spacing 1 it is [-30720, 30720).
func TickArrayStartIndexRange(tickSpacing uint16) (int32, int32) {
	maxBoundary := MaxTickInTickArrayBitmap(tickSpacing)
	minBoundary := -maxBoundary
	if maxBoundary > MaxTick {
		maxBoundary = GetArrayStartIndex(MaxTick, tickSpacing) + TickCount(tickSpacing)
	}
	if minBoundary < MinTick {
		minBoundary = GetArrayStartIndex(MinTick, tickSpacing)
	}
	return minBoundary, maxBoundary
}

func IsOverflowDefaultTickArrayBitmap(tickSpacing uint16, tickIndexes ...int32) bool {
	minBoundary, maxBoundary := TickArrayStartIndexRange(tickSpacing)
	for _, tick := range tickIndexes {
		start := GetArrayStartIndex(tick, tickSpacing)
		if start >= maxBoundary || start < minBoundary {
			return true
		}
	}
	return false
}

// compressedBit maps a tick to its bit position in the embedded bitmap.
func compressedBit(tick int32, tickSpacing uint16) int {
	multiplier := TickCount(tickSpacing)
	compressed := tick/multiplier + TickArrayBitmapSize
	if tick < 0 && tick%multiplier != 0 {
		compressed--
	}
	return int(compressed)
}

func CheckCurrentTickArrayIsInitialized(bitmap [swapioclmm.TickArrayBitmapWords]uint64, tickCurrent int32, tickSpacing uint16) (bool, int32, error) {
	if IsOutOfBoundary(tickCurrent) {
		return false, 0, fmt.Errorf("%w: tick %d", shared.ErrUnrepresentableRange, tickCurrent)
	}
	pos := compressedBit(tickCurrent, tickSpacing)
	start := int32(pos-TickArrayBitmapSize) * TickCount(tickSpacing)
	if pos < 0 || pos >= 2*TickArrayBitmapSize {
		return false, start, fmt.Errorf("%w: tick %d", shared.ErrUnrepresentableRange, tickCurrent)
	}
	return bitmap[pos/64]&(1<<uint(pos%64)) != 0, start, nil
}

// NextInitializedTickArrayStartIndexInBitmap scans the embedded bitmap only.
// When nothing is found it returns the boundary start index reached so the
// search can continue in the extension.
func NextInitializedTickArrayStartIndexInBitmap(bitmap [swapioclmm.TickArrayBitmapWords]uint64, lastStart int32, tickSpacing uint16, zeroForOne bool) (bool, int32) {
	tickBoundary := MaxTickInTickArrayBitmap(tickSpacing)
	next := lastStart + TickCount(tickSpacing)
	if zeroForOne {
		next = lastStart - TickCount(tickSpacing)
	}
	if next < -tickBoundary || next >= tickBoundary {
		return false, lastStart
	}

	multiplier := TickCount(tickSpacing)
	pos := compressedBit(next, tickSpacing)
	if zeroForOne {
		bit := highestSetBitAtOrBelow(bitmap[:], pos)
		if bit < 0 {
			return false, -tickBoundary
		}
		return true, int32(bit-TickArrayBitmapSize) * multiplier
	}
	bit := lowestSetBitAtOrAbove(bitmap[:], pos)
	if bit < 0 {
		return false, tickBoundary - TickCount(tickSpacing)
	}
	return true, int32(bit-TickArrayBitmapSize) * multiplier
}

// NextInitializedTickArrayStartIndex searches the embedded bitmap and then the
// extension segments until an initialized tick array is found or the tick
// range is exhausted. A nil extension ends the search at the embedded range.
func NextInitializedTickArrayStartIndex(
	bitmap [swapioclmm.TickArrayBitmapWords]uint64,
	ext *swapioclmm.TickArrayBitmapExtension,
	lastStart int32,
	tickSpacing uint16,
	zeroForOne bool,
) (bool, int32) {
	lastStart = GetArrayStartIndex(lastStart, tickSpacing)
	for {
		found, start := NextInitializedTickArrayStartIndexInBitmap(bitmap, lastStart, tickSpacing, zeroForOne)
		if found {
			return true, start
		}
		lastStart = start

		if ext == nil {
			return false, lastStart
		}

		found, start, err := NextInitializedTickArrayFromOneBitmap(ext, lastStart, tickSpacing, zeroForOne)
		if err != nil {
			return false, lastStart
		}
		if found {
			return true, start
		}
		if start == lastStart {
			return false, lastStart
		}
		lastStart = start

		if lastStart < MinTick || lastStart > MaxTick {
			return false, lastStart
		}
	}
}

// highestSetBitAtOrBelow returns the index of the highest set bit <= pos, or -1.
func highestSetBitAtOrBelow(words []uint64, pos int) int {
	if pos < 0 {
		return -1
	}
	if limit := len(words)*64 - 1; pos > limit {
		pos = limit
	}
	w := pos / 64
	for i := w; i >= 0; i-- {
		v := words[i]
		if i == w {
			v &= ^uint64(0) >> uint(63-pos%64)
		}
		if v != 0 {
			return i*64 + 63 - bits.LeadingZeros64(v)
		}
	}
	return -1
}

// lowestSetBitAtOrAbove returns the index of the lowest set bit >= pos, or -1.
func lowestSetBitAtOrAbove(words []uint64, pos int) int {
	if pos >= len(words)*64 {
		return -1
	}
	if pos < 0 {
		pos = 0
	}
	w := pos / 64
	for i := w; i < len(words); i++ {
		v := words[i]
		if i == w {
			v &= ^uint64(0) << uint(pos%64)
		}
		if v != 0 {
			return i*64 + bits.TrailingZeros64(v)
		}
	}
	return -1
}

// SetTickArrayBit flags the tick array starting at start in the embedded bitmap.
func SetTickArrayBit(bitmap *[swapioclmm.TickArrayBitmapWords]uint64, start int32, tickSpacing uint16) error {
	pos := compressedBit(start, tickSpacing)
	if pos < 0 || pos >= 2*TickArrayBitmapSize {
		return fmt.Errorf("%w: start index %d", shared.ErrUnrepresentableRange, start)
	}
	bitmap[pos/64] |= 1 << uint(pos%64)
	return nil
}
