package clmm

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/swapio-clmm-go/clmm/math"
)

// Neighborhood is the bounded working set of initialized tick arrays around
// the current price. Lists are ordered outward from the current price.
type Neighborhood struct {
	// Lower is walked by zero-for-one swaps, as the price falls.
	Lower []TickArrayRef
	// Upper is walked by one-for-zero swaps, as the price rises.
	Upper []TickArrayRef
}

// Window returns the tick arrays a swap in the given direction walks through.
func (n *Neighborhood) Window(zeroForOne bool) []TickArrayRef {
	if zeroForOne {
		return n.Lower
	}
	return n.Upper
}

// Addresses returns every tick array address once, lower list first.
func (n *Neighborhood) Addresses() []solanago.PublicKey {
	seen := make(map[solanago.PublicKey]struct{}, len(n.Lower)+len(n.Upper))
	out := make([]solanago.PublicKey, 0, len(n.Lower)+len(n.Upper))
	for _, list := range [][]TickArrayRef{n.Lower, n.Upper} {
		for _, ref := range list {
			if _, ok := seen[ref.Address]; ok {
				continue
			}
			seen[ref.Address] = struct{}{}
			out = append(out, ref.Address)
		}
	}
	return out
}

func (n *Neighborhood) Clone() *Neighborhood {
	return &Neighborhood{
		Lower: append([]TickArrayRef(nil), n.Lower...),
		Upper: append([]TickArrayRef(nil), n.Upper...),
	}
}

// ResolveNeighborhood collects up to size initialized tick arrays in each
// direction from tickCurrent. The array holding tickCurrent heads both lists
// when it is initialized. A tick outside the embedded bitmap yields an empty
// neighborhood and ErrUnrepresentableRange.
func ResolveNeighborhood(
	locator *math.BitmapLocator,
	tickCurrent int32,
	size int,
	derive func(startIndex int32) (solanago.PublicKey, error),
) (*Neighborhood, error) {
	if locator.IsOverflow(tickCurrent) {
		return &Neighborhood{}, fmt.Errorf("%w: tick %d", ErrUnrepresentableRange, tickCurrent)
	}
	lower, err := resolveDirection(locator, tickCurrent, size, true, derive)
	if err != nil {
		return nil, err
	}
	upper, err := resolveDirection(locator, tickCurrent, size, false, derive)
	if err != nil {
		return nil, err
	}
	return &Neighborhood{Lower: lower, Upper: upper}, nil
}

func resolveDirection(
	locator *math.BitmapLocator,
	tickCurrent int32,
	size int,
	zeroForOne bool,
	derive func(startIndex int32) (solanago.PublicKey, error),
) ([]TickArrayRef, error) {
	if size <= 0 {
		return nil, nil
	}
	_, start, found, err := locator.First(tickCurrent, zeroForOne)
	if err != nil {
		return nil, err
	}
	refs := make([]TickArrayRef, 0, size)
	for found && len(refs) < size {
		address, err := derive(start)
		if err != nil {
			return nil, fmt.Errorf("derive tick array %d: %w", start, err)
		}
		refs = append(refs, TickArrayRef{StartIndex: start, Address: address})
		found, start = locator.Next(start, zeroForOne)
	}
	return refs, nil
}
