package token2022

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
)

const (
	// MintBaseSize is the length of the SPL mint layout shared by both token programs.
	MintBaseSize = 82
	// AccountTypeOffset follows the base layout padded to the token account size.
	AccountTypeOffset = 165
	TLVStart          = AccountTypeOffset + 1

	AccountTypeMint = 1

	ExtensionTypeTransferFeeConfig = 1
	TransferFeeConfigLength        = 108

	MaxFeeBasisPoints = 10_000
)

// TransferFee represents the transfer fee configuration for a specific epoch
type TransferFee struct {
	Epoch       uint64 // Epoch when this fee configuration is active
	MaximumFee  uint64 // Maximum fee amount in token units
	BasisPoints uint16 // Fee rate in basis points (1/10000)
}

// TransferFeeConfig represents the complete transfer fee configuration for a token
type TransferFeeConfig struct {
	TransferFeeConfigAuthority *solana.PublicKey
	WithdrawWithheldAuthority  *solana.PublicKey
	WithheldAmount             uint64
	OlderTransferFee           TransferFee
	NewerTransferFee           TransferFee
}

// parseOptionalNonZeroPubkey treats the all-zero key as absent.
func parseOptionalNonZeroPubkey(data []byte) *solana.PublicKey {
	key := solana.PublicKeyFromBytes(data[:32])
	if key.IsZero() {
		return nil
	}
	return &key
}

func parseTransferFee(data []byte) TransferFee {
	return TransferFee{
		Epoch:       binary.LittleEndian.Uint64(data[:8]),
		MaximumFee:  binary.LittleEndian.Uint64(data[8:16]),
		BasisPoints: binary.LittleEndian.Uint16(data[16:18]),
	}
}

func parseTransferFeeConfigExtension(value []byte) *TransferFeeConfig {
	return &TransferFeeConfig{
		TransferFeeConfigAuthority: parseOptionalNonZeroPubkey(value[0:32]),
		WithdrawWithheldAuthority:  parseOptionalNonZeroPubkey(value[32:64]),
		WithheldAmount:             binary.LittleEndian.Uint64(value[64:72]),
		OlderTransferFee:           parseTransferFee(value[72:90]),
		NewerTransferFee:           parseTransferFee(value[90:108]),
	}
}

// ParseTransferFeeConfig walks the TLV extensions of a Token-2022 mint account.
// It returns nil when the mint carries no transfer fee extension.
func ParseTransferFeeConfig(data []byte) (*TransferFeeConfig, error) {
	if len(data) <= AccountTypeOffset {
		return nil, nil
	}
	if data[AccountTypeOffset] != AccountTypeMint {
		return nil, fmt.Errorf("%w: account type %d is not a mint", shared.ErrDecode, data[AccountTypeOffset])
	}
	buf := data[TLVStart:]
	for len(buf) >= 4 {
		extType := binary.LittleEndian.Uint16(buf[0:2])
		length := int(binary.LittleEndian.Uint16(buf[2:4]))
		if extType == 0 {
			// Uninitialized space after the last extension.
			break
		}
		if len(buf) < 4+length {
			return nil, fmt.Errorf("%w: extension %d truncated", shared.ErrDecode, extType)
		}
		if extType == ExtensionTypeTransferFeeConfig {
			if length != TransferFeeConfigLength {
				return nil, fmt.Errorf("%w: transfer fee config length %d", shared.ErrDecode, length)
			}
			return parseTransferFeeConfigExtension(buf[4 : 4+length]), nil
		}
		buf = buf[4+length:]
	}
	return nil, nil
}

// GetEpochFee selects the fee in effect at currentEpoch.
func GetEpochFee(cfg *TransferFeeConfig, currentEpoch uint64) TransferFee {
	if cfg == nil {
		return TransferFee{Epoch: 0, MaximumFee: 0, BasisPoints: 0} // SPL Token returns 0 fee
	}
	if currentEpoch >= cfg.NewerTransferFee.Epoch {
		return cfg.NewerTransferFee
	}
	return cfg.OlderTransferFee
}

var oneInBasisPoints = uint256.NewInt(MaxFeeBasisPoints)

func ceilDiv(numerator, denominator *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int).DivMod(numerator, denominator, new(uint256.Int))
	if !r.IsZero() {
		q.AddUint64(q, 1)
	}
	return q
}

// CalculateFee charges ceil(amount * bps / 10000), capped at the maximum fee.
func CalculateFee(tf TransferFee, amount uint64) (uint64, error) {
	if tf.BasisPoints == 0 || amount == 0 {
		return 0, nil
	}
	if tf.BasisPoints > MaxFeeBasisPoints {
		return 0, fmt.Errorf("%w: transfer fee %d bps", shared.ErrDecode, tf.BasisPoints)
	}
	numerator, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(amount), uint256.NewInt(uint64(tf.BasisPoints)))
	if overflow {
		return 0, fmt.Errorf("%w: transfer fee of %d", shared.ErrArithmeticOverflow, amount)
	}
	fee := ceilDiv(numerator, oneInBasisPoints)
	if !fee.IsUint64() || fee.Uint64() > tf.MaximumFee {
		return tf.MaximumFee, nil
	}
	return fee.Uint64(), nil
}

// CalculatePreFeeAmount returns the gross amount that nets postFeeAmount once
// the transfer fee is withheld.
func CalculatePreFeeAmount(tf TransferFee, postFeeAmount uint64) (uint64, error) {
	switch {
	case tf.BasisPoints == 0:
		return postFeeAmount, nil
	case postFeeAmount == 0:
		return 0, nil
	case tf.BasisPoints == MaxFeeBasisPoints:
		return checkedAdd(postFeeAmount, tf.MaximumFee)
	case tf.BasisPoints > MaxFeeBasisPoints:
		return 0, fmt.Errorf("%w: transfer fee %d bps", shared.ErrDecode, tf.BasisPoints)
	}
	numerator, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(postFeeAmount), oneInBasisPoints)
	if overflow {
		return 0, fmt.Errorf("%w: pre-fee amount of %d", shared.ErrArithmeticOverflow, postFeeAmount)
	}
	denominator := uint256.NewInt(uint64(MaxFeeBasisPoints - tf.BasisPoints))
	rawPreFee := ceilDiv(numerator, denominator)
	withheld := new(uint256.Int).Sub(rawPreFee, uint256.NewInt(postFeeAmount))
	if withheld.Cmp(uint256.NewInt(tf.MaximumFee)) >= 0 {
		return checkedAdd(postFeeAmount, tf.MaximumFee)
	}
	if !rawPreFee.IsUint64() {
		return 0, fmt.Errorf("%w: pre-fee amount of %d", shared.ErrArithmeticOverflow, postFeeAmount)
	}
	return rawPreFee.Uint64(), nil
}

// CalculateInverseFee is the fee withheld from the pre-fee amount of postFeeAmount.
func CalculateInverseFee(tf TransferFee, postFeeAmount uint64) (uint64, error) {
	preFeeAmount, err := CalculatePreFeeAmount(tf, postFeeAmount)
	if err != nil {
		return 0, err
	}
	return CalculateFee(tf, preFeeAmount)
}

// TransferFeeAt is the fee charged on moving amount at epoch. A nil config
// charges nothing.
func TransferFeeAt(cfg *TransferFeeConfig, epoch uint64, amount uint64) (uint64, error) {
	return CalculateFee(GetEpochFee(cfg, epoch), amount)
}

// InverseTransferFeeAt is the fee to add to netAmount so that netAmount
// arrives after the transfer at epoch.
func InverseTransferFeeAt(cfg *TransferFeeConfig, epoch uint64, netAmount uint64) (uint64, error) {
	return CalculateInverseFee(GetEpochFee(cfg, epoch), netAmount)
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, fmt.Errorf("%w: %d + %d", shared.ErrArithmeticOverflow, a, b)
	}
	return sum, nil
}
