package clmm

import (
	solanago "github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

// On-chain accounts.
type (
	AmmConfig                = swapioclmm.AmmConfig
	PoolState                = swapioclmm.PoolState
	TickArrayState           = swapioclmm.TickArrayState
	TickState                = swapioclmm.TickState
	TickArrayBitmapExtension = swapioclmm.TickArrayBitmapExtension
)

type SwapMode = shared.SwapMode

const (
	SwapModeExactIn  = shared.SwapModeExactIn
	SwapModeExactOut = shared.SwapModeExactOut
)

type PoolStatus = shared.PoolStatus

const (
	PoolStatusUninitialized = shared.PoolStatusUninitialized
	PoolStatusReady         = shared.PoolStatusReady
)

// Errors.
var (
	ErrInvalidRequest        = shared.ErrInvalidRequest
	ErrNotReady              = shared.ErrNotReady
	ErrMissingAccount        = shared.ErrMissingAccount
	ErrDecode                = shared.ErrDecode
	ErrArithmeticOverflow    = shared.ErrArithmeticOverflow
	ErrArithmeticUnderflow   = shared.ErrArithmeticUnderflow
	ErrInsufficientLiquidity = shared.ErrInsufficientLiquidity
	ErrUnrepresentableRange  = shared.ErrUnrepresentableRange
)

type MissingAccountError = shared.MissingAccountError

// Account is a fetched on-chain account.
type Account struct {
	Owner solanago.PublicKey
	Data  []byte
}

// AccountMap holds fetched accounts keyed by address.
type AccountMap map[solanago.PublicKey]Account

type KeyedAccount struct {
	Key     solanago.PublicKey
	Account Account
}

// AmmContext carries host state read when an adapter is built.
type AmmContext struct {
	ClockRef *ClockRef
}

// ClockRef is the host's view of the cluster clock.
type ClockRef struct {
	Epoch         uint64
	Slot          uint64
	UnixTimestamp int64
}

type QuoteParams struct {
	Amount     uint64
	InputMint  solanago.PublicKey
	OutputMint solanago.PublicKey
	SwapMode   SwapMode
}

type Quote struct {
	InAmount           uint64
	OutAmount          uint64
	FeeAmount          uint64
	FeeMint            solanago.PublicKey
	FeePct             decimal.Decimal
	NotEnoughLiquidity bool
	MinInAmount        *uint64
	MaxOutAmount       *uint64
}

type SwapParams struct {
	SwapMode                SwapMode
	InAmount                uint64
	OutAmount               uint64
	SourceMint              solanago.PublicKey
	DestinationMint         solanago.PublicKey
	SourceTokenAccount      solanago.PublicKey
	DestinationTokenAccount solanago.PublicKey
	TokenTransferAuthority  solanago.PublicKey
}

type SwapKind uint8

const (
	SwapKindSwapIOClmm SwapKind = iota + 1
)

func (k SwapKind) String() string {
	if k == SwapKindSwapIOClmm {
		return "SwapIoClmm"
	}
	return "Unknown"
}

type SwapAndAccountMetas struct {
	Swap         SwapKind
	AccountMetas solanago.AccountMetaSlice
}

// TickArrayRef identifies a tick array by start index and address.
type TickArrayRef struct {
	StartIndex int32
	Address    solanago.PublicKey
}
