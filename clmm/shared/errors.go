package shared

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrNotReady              = errors.New("pool not ready")
	ErrMissingAccount        = errors.New("missing account")
	ErrDecode                = errors.New("decode error")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow   = errors.New("arithmetic underflow")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrUnrepresentableRange  = errors.New("tick outside representable bitmap range")
)

// MissingAccountError names the account absent from an update.
type MissingAccountError struct {
	Address solana.PublicKey
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingAccount, e.Address)
}

func (e *MissingAccountError) Unwrap() error {
	return ErrMissingAccount
}
