package math

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
)

const bitPrecision = 16

// sqrt(1.0001)^-(2^i) in Q64.64 for i >= 1.
var tickRatios = []struct {
	mask  int32
	ratio *big.Int
}{
	{0x2, bigIntFromString("18444899583751176192")},
	{0x4, bigIntFromString("18443055278223355904")},
	{0x8, bigIntFromString("18439367220385607680")},
	{0x10, bigIntFromString("18431993317065453568")},
	{0x20, bigIntFromString("18417254355718170624")},
	{0x40, bigIntFromString("18387811781193609216")},
	{0x80, bigIntFromString("18329067761203558400")},
	{0x100, bigIntFromString("18212142134806163456")},
	{0x200, bigIntFromString("17980523815641700352")},
	{0x400, bigIntFromString("17526086738831433728")},
	{0x800, bigIntFromString("16651378430235570176")},
	{0x1000, bigIntFromString("15030750278694412288")},
	{0x2000, bigIntFromString("12247334978884435968")},
	{0x4000, bigIntFromString("8131365268886854656")},
	{0x8000, bigIntFromString("3584323654725218816")},
	{0x10000, bigIntFromString("696457651848324352")},
	{0x20000, bigIntFromString("26294789957507116")},
	{0x40000, bigIntFromString("37481735321082")},
}

var oddTickRatio = bigIntFromString("18445821805675395072")

// GetSqrtPriceAtTick returns sqrt(1.0001^tick) as a Q64.64 value.
func GetSqrtPriceAtTick(tick int32) (*big.Int, error) {
	if IsOutOfBoundary(tick) {
		return nil, fmt.Errorf("%w: tick %d out of range", shared.ErrInvalidRequest, tick)
	}
	tickAbs := abs32(tick)

	ratio := new(big.Int).Set(OneQ64)
	if tickAbs&0x1 != 0 {
		ratio.Set(oddTickRatio)
	}
	for _, r := range tickRatios {
		if tickAbs&r.mask != 0 {
			ratio.Mul(ratio, r.ratio)
			ratio.Rsh(ratio, ScaleOffset)
		}
	}
	if tick > 0 {
		ratio.Quo(U128Max, ratio)
	}
	return ratio, nil
}

// GetTickAtSqrtPrice returns the greatest tick whose sqrt price is <= sqrtPriceX64.
func GetTickAtSqrtPrice(sqrtPriceX64 *big.Int) (int32, error) {
	if sqrtPriceX64.Cmp(MinSqrtPriceX64) < 0 || sqrtPriceX64.Cmp(MaxSqrtPriceX64) >= 0 {
		return 0, fmt.Errorf("%w: sqrt price %s out of range", shared.ErrInvalidRequest, sqrtPriceX64)
	}

	msb := sqrtPriceX64.BitLen() - 1
	log2pIntegerX32 := new(big.Int).Lsh(big.NewInt(int64(msb-64)), 32)

	r := new(big.Int)
	if msb >= 64 {
		r.Rsh(sqrtPriceX64, uint(msb-63))
	} else {
		r.Lsh(sqrtPriceX64, uint(63-msb))
	}

	log2pFractionX64 := new(big.Int)
	bit := new(big.Int).Lsh(big.NewInt(1), 63)
	for precision := 0; bit.Sign() > 0 && precision < bitPrecision; precision++ {
		r.Mul(r, r)
		moreThanTwo := r.Bit(127)
		r.Rsh(r, uint(63+moreThanTwo))
		if moreThanTwo == 1 {
			log2pFractionX64.Add(log2pFractionX64, bit)
		}
		bit.Rsh(bit, 1)
	}

	log2pX32 := log2pIntegerX32.Add(log2pIntegerX32, log2pFractionX64.Rsh(log2pFractionX64, 32))
	logSqrt10001X64 := new(big.Int).Mul(log2pX32, logB2X32)

	// big.Int Rsh floors negative values like an arithmetic shift.
	tickLow := new(big.Int).Sub(logSqrt10001X64, logBPErrMarginLowerX64)
	tickLow.Rsh(tickLow, 64)
	tickHigh := new(big.Int).Add(logSqrt10001X64, logBPErrMarginUpperX64)
	tickHigh.Rsh(tickHigh, 64)

	low, high := int32(tickLow.Int64()), int32(tickHigh.Int64())
	if low == high {
		return low, nil
	}
	highPrice, err := GetSqrtPriceAtTick(high)
	if err != nil {
		return low, nil
	}
	if highPrice.Cmp(sqrtPriceX64) <= 0 {
		return high, nil
	}
	return low, nil
}
