package clmm

import (
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/swapio-clmm-go/clmm/math"
)

const (
	// Label names the pool family to the routing host.
	Label = "SwapIoClmm"

	// NeighborhoodSize is the default number of tick arrays fetched per direction.
	NeighborhoodSize = 5

	TickArraySize      = math.TickArraySize
	FeeRateDenominator = math.FeeRateDenominator

	MinTick = math.MinTick
	MaxTick = math.MaxTick
)

// MemoProgramID is the SPL memo program passed to swap-v2.
var MemoProgramID = solanago.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
