package clmm

import (
	solanago "github.com/gagliardetto/solana-go"
)

// Amm is the contract a routing host drives: it asks for the accounts to
// fetch, feeds them back through Update, then quotes and builds swaps.
type Amm interface {
	Label() string
	ProgramID() solanago.PublicKey
	Key() solanago.PublicKey
	ReserveMints() []solanago.PublicKey
	AccountsToUpdate() []solanago.PublicKey
	Update(accounts AccountMap) error
	Quote(params QuoteParams) (*Quote, error)
	SwapAndAccountMetas(params SwapParams) (*SwapAndAccountMetas, error)
	Clone() Amm
	SupportsExactOut() bool
	HasDynamicAccounts() bool
	RequiresUpdateForReserveMints() bool
	IsActive() bool
}

// Adapter exposes a PoolManager as an Amm.
type Adapter struct {
	*PoolManager
}

var _ Amm = (*Adapter)(nil)

// FromKeyedAccount decodes a pool account and builds its adapter. The epoch
// used for transfer fees is taken from the context clock when one is given.
func FromKeyedAccount(keyed KeyedAccount, ctx AmmContext, opts ...Option) (*Adapter, error) {
	if ctx.ClockRef != nil {
		opts = append([]Option{WithEpoch(ctx.ClockRef.Epoch)}, opts...)
	}
	m, err := NewPoolManagerFromAccount(keyed, opts...)
	if err != nil {
		return nil, err
	}
	return &Adapter{PoolManager: m}, nil
}

func (a *Adapter) Label() string { return Label }

func (a *Adapter) SwapAndAccountMetas(params SwapParams) (*SwapAndAccountMetas, error) {
	return a.SwapAccountMetas(params)
}

func (a *Adapter) Clone() Amm {
	return &Adapter{PoolManager: a.PoolManager.Clone()}
}

func (a *Adapter) SupportsExactOut() bool              { return true }
func (a *Adapter) HasDynamicAccounts() bool            { return false }
func (a *Adapter) RequiresUpdateForReserveMints() bool { return false }
