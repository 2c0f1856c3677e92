package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

var (
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	two127 = new(big.Int).Lsh(big.NewInt(1), 127)
	max128 = new(big.Int).Sub(two128, big.NewInt(1))
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	}
	v, err := FromBig(i)
	if err != nil {
		return err
	}
	u.Lo, u.Hi = v.Lo, v.Hi
	return nil
}

func GenUint128FromString(num string) binary.Uint128 {
	u128 := binary.NewUint128LittleEndian()
	if _, err := fmt.Sscan(num, (*Uint128)(u128)); err != nil {
		panic(err)
	}
	return *u128
}

// ToBig returns the unsigned value of v.
func ToBig(v binary.Uint128) *big.Int {
	out := new(big.Int).SetUint64(v.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(big.Int).SetUint64(v.Lo))
}

// FromBig converts a non-negative integer below 2^128.
func FromBig(i *big.Int) (binary.Uint128, error) {
	if i.Sign() < 0 {
		return binary.Uint128{}, errors.New("value cannot be negative")
	}
	if i.Cmp(max128) > 0 {
		return binary.Uint128{}, errors.New("value overflows Uint128")
	}
	out := binary.NewUint128LittleEndian()
	out.Lo = i.Uint64()
	out.Hi = new(big.Int).Rsh(i, 64).Uint64()
	return *out, nil
}

// Int128ToBig interprets v as two's complement.
func Int128ToBig(v binary.Int128) *big.Int {
	out := ToBig(binary.Uint128(v))
	if out.Cmp(two127) >= 0 {
		out.Sub(out, two128)
	}
	return out
}

// Int128FromBig converts an integer in [-2^127, 2^127).
func Int128FromBig(i *big.Int) (binary.Int128, error) {
	if i.Cmp(two127) >= 0 || i.Cmp(new(big.Int).Neg(two127)) < 0 {
		return binary.Int128{}, errors.New("value overflows Int128")
	}
	v := new(big.Int).Set(i)
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	out, err := FromBig(v)
	if err != nil {
		return binary.Int128{}, err
	}
	return binary.Int128(out), nil
}
