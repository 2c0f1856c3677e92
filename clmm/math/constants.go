package math

import (
	"math/big"

	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

const (
	MinTick int32 = -443636
	MaxTick int32 = 443636

	// TickArraySize is the number of ticks held by one tick array account.
	TickArraySize = swapioclmm.TickArraySize

	// TickArrayBitmapSize is the number of tick arrays flagged by one 512-bit
	// bitmap segment; the pool's embedded bitmap holds two of them.
	TickArrayBitmapSize = 512

	ExtensionTickArrayBitmapSize = swapioclmm.ExtensionTickArrayBitmapSize

	FeeRateDenominator = 1_000_000

	ScaleOffset = 64
)

var (
	MinSqrtPriceX64 = bigIntFromString("4295048016")
	MaxSqrtPriceX64 = bigIntFromString("79226673521066979257578248091")

	OneQ64  = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	U64Max  = bigIntFromString("18446744073709551615")
	U128Max = bigIntFromString("340282366920938463463374607431768211455")

	logB2X32               = bigIntFromString("59543866431248")
	logBPErrMarginLowerX64 = bigIntFromString("184467440737095516")
	logBPErrMarginUpperX64 = bigIntFromString("15793534762490258745")
)

func bigIntFromString(v string) *big.Int {
	out, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic("invalid big integer literal")
	}
	return out
}
