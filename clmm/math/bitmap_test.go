package math

import (
	"testing"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flaggedLocator(t *testing.T, tickSpacing uint16, starts ...int32) *BitmapLocator {
	t.Helper()
	l := &BitmapLocator{TickSpacing: tickSpacing}
	for _, start := range starts {
		if IsOverflowDefaultTickArrayBitmap(tickSpacing, start) {
			if l.Extension == nil {
				l.Extension = &swapioclmm.TickArrayBitmapExtension{}
			}
			require.NoError(t, SetExtensionTickArrayBit(l.Extension, start, tickSpacing))
			continue
		}
		require.NoError(t, SetTickArrayBit(&l.Bitmap, start, tickSpacing))
	}
	return l
}

func TestEmbeddedBitmapRange(t *testing.T) {
	assert.Equal(t, int32(307200), MaxTickInTickArrayBitmap(10))
	lo, hi := TickArrayStartIndexRange(1)
	assert.Equal(t, int32(-30720), lo)
	assert.Equal(t, int32(30720), hi)

	assert.False(t, IsOverflowDefaultTickArrayBitmap(1, 30659))
	assert.True(t, IsOverflowDefaultTickArrayBitmap(1, 30720))
	assert.False(t, IsOverflowDefaultTickArrayBitmap(1, -30720))
	assert.True(t, IsOverflowDefaultTickArrayBitmap(1, -30721))
}

func TestCheckCurrentTickArrayIsInitialized(t *testing.T) {
	l := flaggedLocator(t, 10, -600, 1200)

	ok, start, err := l.CurrentInitialized(-1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(-600), start)

	ok, start, err = l.CurrentInitialized(0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int32(0), start)

	ok, _, err = l.CurrentInitialized(1799)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNextInitializedInEmbeddedBitmap(t *testing.T) {
	l := flaggedLocator(t, 1, 11880, 12480, 12960)

	found, start := l.Next(12000, false)
	assert.True(t, found)
	assert.Equal(t, int32(12480), start)

	found, start = l.Next(12480, false)
	assert.True(t, found)
	assert.Equal(t, int32(12960), start)

	found, _ = l.Next(12960, false)
	assert.False(t, found)

	found, start = l.Next(12000, true)
	assert.True(t, found)
	assert.Equal(t, int32(11880), start)

	found, _ = l.Next(11880, true)
	assert.False(t, found)
}

func TestNextSkipsTheStartingArray(t *testing.T) {
	l := flaggedLocator(t, 10, 0, 600)

	found, start := l.Next(0, false)
	assert.True(t, found)
	assert.Equal(t, int32(600), start)

	found, _ = l.Next(0, true)
	assert.False(t, found)
}

func TestFirstPrefersTheCurrentArray(t *testing.T) {
	l := flaggedLocator(t, 10, -600, 0, 600)

	isCurrent, start, found, err := l.First(10, true)
	require.NoError(t, err)
	assert.True(t, isCurrent)
	assert.True(t, found)
	assert.Equal(t, int32(0), start)

	l = flaggedLocator(t, 10, -600, 600)
	isCurrent, start, found, err = l.First(10, true)
	require.NoError(t, err)
	assert.False(t, isCurrent)
	assert.True(t, found)
	assert.Equal(t, int32(-600), start)

	isCurrent, start, found, err = l.First(10, false)
	require.NoError(t, err)
	assert.False(t, isCurrent)
	assert.True(t, found)
	assert.Equal(t, int32(600), start)
}

func TestNextContinuesIntoExtension(t *testing.T) {
	l := flaggedLocator(t, 1, 0, 31200, -31200)
	require.NotNil(t, l.Extension)

	found, start := l.Next(0, false)
	assert.True(t, found)
	assert.Equal(t, int32(31200), start)

	found, start = l.Next(0, true)
	assert.True(t, found)
	assert.Equal(t, int32(-31200), start)

	ok, err := ExtensionTickArrayIsInitialized(l.Extension, 31200, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = ExtensionTickArrayIsInitialized(l.Extension, 31260, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextCrossesIntoNegativeExtension(t *testing.T) {
	l := flaggedLocator(t, 1, -30720, -40020)
	require.NotNil(t, l.Extension)

	isCurrent, start, found, err := l.First(-30700, true)
	require.NoError(t, err)
	assert.True(t, isCurrent)
	assert.True(t, found)
	assert.Equal(t, int32(-30720), start)

	found, start = l.Next(start, true)
	assert.True(t, found)
	assert.Equal(t, int32(-40020), start)

	found, _ = l.Next(start, true)
	assert.False(t, found)

	ok, err := ExtensionTickArrayIsInitialized(l.Extension, -40020, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNextStopsWithoutExtension(t *testing.T) {
	l := flaggedLocator(t, 1, 0)
	found, _ := l.Next(0, false)
	assert.False(t, found)
	found, _ = l.Next(0, true)
	assert.False(t, found)
}

func TestCurrentInitializedBeyondEmbeddedBitmap(t *testing.T) {
	l := flaggedLocator(t, 1, 0)
	_, _, err := l.CurrentInitialized(40000)
	assert.ErrorIs(t, err, shared.ErrUnrepresentableRange)

	l = flaggedLocator(t, 1, 39960)
	ok, start, err := l.CurrentInitialized(40000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(39960), start)
}

func TestExtensionOffsets(t *testing.T) {
	lo, hi := GetBitmapTickBoundary(31200, 1)
	assert.Equal(t, int32(30720), lo)
	assert.Equal(t, int32(61440), hi)

	lo, hi = GetBitmapTickBoundary(-31200, 1)
	assert.Equal(t, int32(-61440), lo)
	assert.Equal(t, int32(-30720), hi)

	assert.Equal(t, int32(8), TickArrayOffsetInBitmap(31200, 1))
	assert.Equal(t, int32(504), TickArrayOffsetInBitmap(-31200, 1))
	assert.Equal(t, int32(0), TickArrayOffsetInBitmap(-61440, 1))

	ext := &swapioclmm.TickArrayBitmapExtension{}
	assert.ErrorIs(t, SetExtensionTickArrayBit(ext, 600, 1), shared.ErrInvalidRequest)
}

func TestBitScans(t *testing.T) {
	words := []uint64{0, 1 << 5, 0}
	assert.Equal(t, 69, highestSetBitAtOrBelow(words, 100))
	assert.Equal(t, 69, highestSetBitAtOrBelow(words, 69))
	assert.Equal(t, -1, highestSetBitAtOrBelow(words, 68))
	assert.Equal(t, 69, lowestSetBitAtOrAbove(words, 0))
	assert.Equal(t, 69, lowestSetBitAtOrAbove(words, 69))
	assert.Equal(t, -1, lowestSetBitAtOrAbove(words, 70))
	assert.Equal(t, -1, lowestSetBitAtOrAbove(words, 192))
}
