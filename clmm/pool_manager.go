package clmm

import (
	"errors"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/krazyTry/swapio-clmm-go/clmm/math"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
	"github.com/krazyTry/swapio-clmm-go/solana"
	"github.com/krazyTry/swapio-clmm-go/solana/token2022"
	"github.com/krazyTry/swapio-clmm-go/u128"
)

// CurveMath crosses ticks over a window of tick arrays ordered in the swap
// direction and returns the counter amount and the AMM fee.
type CurveMath interface {
	CrossTicks(
		amount uint64,
		zeroForOne, exactIn bool,
		config *AmmConfig,
		pool *PoolState,
		ext *TickArrayBitmapExtension,
		window []*TickArrayState,
	) (uint64, uint64, error)
}

// poolAccounts is the state absorbed by one successful update. It is replaced
// as a whole and never mutated afterwards.
type poolAccounts struct {
	config    *AmmConfig
	mint0     *solana.Token
	mint1     *solana.Token
	extension *TickArrayBitmapExtension
	lower     []*TickArrayState
	upper     []*TickArrayState
}

// PoolManager holds a pool snapshot, the tick array neighborhood derived from
// it and the auxiliary accounts fetched for that neighborhood. It is not safe
// for concurrent update and quote; use Clone to hand copies to other goroutines.
type PoolManager struct {
	key          solanago.PublicKey
	programID    solanago.PublicKey
	pool         *PoolState
	extensionKey solanago.PublicKey
	neighborhood *Neighborhood
	// inactive is set when the neighborhood could not be resolved.
	inactive error

	accounts *poolAccounts

	neighborhoodSize int
	slippageBps      uint16
	epoch            uint64
	curve            CurveMath
	logger           *zap.Logger
}

// NewPoolManager seeds a manager from a decoded pool. The pool's current tick
// lying outside the embedded bitmap is not an error here; the manager is
// built inactive and every quote fails with ErrUnrepresentableRange.
func NewPoolManager(key, programID solanago.PublicKey, pool *PoolState, opts ...Option) (*PoolManager, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: nil pool", ErrInvalidRequest)
	}
	if pool.TickSpacing == 0 {
		return nil, fmt.Errorf("%w: pool %s has zero tick spacing", ErrDecode, key)
	}
	m := &PoolManager{
		key:              key,
		programID:        programID,
		pool:             pool,
		neighborhoodSize: NeighborhoodSize,
		curve:            math.Curve{},
		logger:           zap.NewNop(),
	}
	for _, fn := range opts {
		fn(m)
	}

	var err error
	if m.extensionKey, err = DeriveTickArrayBitmapExtensionAddress(programID, key); err != nil {
		return nil, fmt.Errorf("derive bitmap extension: %w", err)
	}

	derive := func(startIndex int32) (solanago.PublicKey, error) {
		return DeriveTickArrayAddress(programID, key, startIndex)
	}
	neighborhood, err := ResolveNeighborhood(math.NewBitmapLocator(pool, nil), pool.TickCurrent, m.neighborhoodSize, derive)
	switch {
	case errors.Is(err, ErrUnrepresentableRange):
		m.inactive = err
		m.logger.Warn("pool tick outside embedded bitmap",
			zap.String("pool", key.String()),
			zap.Int32("tick_current", pool.TickCurrent),
		)
	case err != nil:
		return nil, err
	}
	m.neighborhood = neighborhood
	m.logger.Debug("neighborhood resolved",
		zap.String("pool", key.String()),
		zap.Int32s("lower", startIndexes(neighborhood.Lower)),
		zap.Int32s("upper", startIndexes(neighborhood.Upper)),
		zap.Int("size", m.neighborhoodSize),
	)
	return m, nil
}

// NewPoolManagerFromAccount decodes a pool account and seeds a manager from it.
func NewPoolManagerFromAccount(keyed KeyedAccount, opts ...Option) (*PoolManager, error) {
	pool, err := swapioclmm.DecodePoolState(keyed.Account.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: pool %s: %v", ErrDecode, keyed.Key, err)
	}
	return NewPoolManager(keyed.Key, keyed.Account.Owner, pool, opts...)
}

func startIndexes(refs []TickArrayRef) []int32 {
	out := make([]int32, len(refs))
	for i, ref := range refs {
		out[i] = ref.StartIndex
	}
	return out
}

// Key is the pool address.
func (m *PoolManager) Key() solanago.PublicKey { return m.key }

// ProgramID is the owner of the pool account.
func (m *PoolManager) ProgramID() solanago.PublicKey { return m.programID }

// Pool is the decoded pool snapshot the manager was built from.
func (m *PoolManager) Pool() *PoolState { return m.pool }

// Neighborhood is the tick arrays resolved around the pool's current tick.
func (m *PoolManager) Neighborhood() *Neighborhood { return m.neighborhood }

// TickArrayBitmapExtension is the address of the pool's bitmap extension.
func (m *PoolManager) TickArrayBitmapExtension() solanago.PublicKey { return m.extensionKey }

func (m *PoolManager) Status() PoolStatus {
	if m.accounts == nil {
		return PoolStatusUninitialized
	}
	return PoolStatusReady
}

// IsActive is false when the pool cannot be quoted from its embedded bitmap.
func (m *PoolManager) IsActive() bool {
	return m.inactive == nil
}

func (m *PoolManager) ReserveMints() []solanago.PublicKey {
	return []solanago.PublicKey{m.pool.TokenMint0, m.pool.TokenMint1}
}

// AccountsToUpdate lists the accounts Update expects: the fee config, both
// mints, the bitmap extension, then every neighborhood tick array.
func (m *PoolManager) AccountsToUpdate() []solanago.PublicKey {
	out := []solanago.PublicKey{
		m.pool.AmmConfig,
		m.pool.TokenMint0,
		m.pool.TokenMint1,
		m.extensionKey,
	}
	return append(out, m.neighborhood.Addresses()...)
}

func requireAccount(accounts AccountMap, address solanago.PublicKey) (Account, error) {
	acc, ok := accounts[address]
	if !ok {
		return Account{}, &MissingAccountError{Address: address}
	}
	return acc, nil
}

func decodeError(what string, address solanago.PublicKey, err error) error {
	if errors.Is(err, ErrDecode) {
		return fmt.Errorf("%s %s: %w", what, address, err)
	}
	return fmt.Errorf("%w: %s %s: %v", ErrDecode, what, address, err)
}

// Update absorbs freshly fetched accounts. Either every account decodes and
// the manager becomes Ready with the new state, or the previous state is kept.
// The bitmap extension may be absent from accounts or empty; the pool is then
// treated as having no extension rather than failing with ErrMissingAccount.
// An inactive pool still updates, and its quotes fail with
// ErrUnrepresentableRange.
func (m *PoolManager) Update(accounts AccountMap) error {
	next := &poolAccounts{}

	acc, err := requireAccount(accounts, m.pool.AmmConfig)
	if err != nil {
		return err
	}
	if next.config, err = swapioclmm.DecodeAmmConfig(acc.Data); err != nil {
		return decodeError("amm config", m.pool.AmmConfig, err)
	}

	for _, mint := range []struct {
		address solanago.PublicKey
		dst     **solana.Token
	}{
		{m.pool.TokenMint0, &next.mint0},
		{m.pool.TokenMint1, &next.mint1},
	} {
		acc, err := requireAccount(accounts, mint.address)
		if err != nil {
			return err
		}
		if *mint.dst, err = solana.DecodeToken(acc.Owner, acc.Data); err != nil {
			return decodeError("mint", mint.address, err)
		}
	}

	// The extension account only exists once the pool has needed it.
	if acc, ok := accounts[m.extensionKey]; ok && len(acc.Data) > 0 {
		if next.extension, err = swapioclmm.DecodeTickArrayBitmapExtension(acc.Data); err != nil {
			return decodeError("bitmap extension", m.extensionKey, err)
		}
	}

	decoded := make(map[solanago.PublicKey]*TickArrayState)
	decodeWindow := func(refs []TickArrayRef) ([]*TickArrayState, error) {
		out := make([]*TickArrayState, 0, len(refs))
		for _, ref := range refs {
			if arr, ok := decoded[ref.Address]; ok {
				out = append(out, arr)
				continue
			}
			acc, err := requireAccount(accounts, ref.Address)
			if err != nil {
				return nil, err
			}
			arr, err := swapioclmm.DecodeTickArrayState(acc.Data)
			if err != nil {
				return nil, decodeError("tick array", ref.Address, err)
			}
			if arr.StartTickIndex != ref.StartIndex || !arr.PoolId.Equals(m.key) {
				return nil, fmt.Errorf("%w: tick array %s holds start %d of pool %s, expected %d of %s",
					ErrDecode, ref.Address, arr.StartTickIndex, arr.PoolId, ref.StartIndex, m.key)
			}
			decoded[ref.Address] = arr
			out = append(out, arr)
		}
		return out, nil
	}
	if next.lower, err = decodeWindow(m.neighborhood.Lower); err != nil {
		return err
	}
	if next.upper, err = decodeWindow(m.neighborhood.Upper); err != nil {
		return err
	}

	m.accounts = next
	m.logger.Debug("pool updated",
		zap.String("pool", m.key.String()),
		zap.Int("tick_arrays", len(decoded)),
		zap.Uint32("trade_fee_rate", next.config.TradeFeeRate),
		zap.Bool("bitmap_extension", next.extension != nil),
	)
	return nil
}

// Quote prices a swap against the state absorbed by the last Update.
func (m *PoolManager) Quote(params QuoteParams) (*Quote, error) {
	if m.accounts == nil {
		return nil, fmt.Errorf("%w: pool %s has not been updated", ErrNotReady, m.key)
	}
	if m.inactive != nil {
		return nil, m.inactive
	}
	engine := &QuoteEngine{
		Curve:       m.curve,
		SlippageBps: m.slippageBps,
		Epoch:       m.epoch,
	}
	return engine.CalculateQuote(params, m)
}

// SpotPrice is the token1-per-token0 price at the snapshot's sqrt price.
func (m *PoolManager) SpotPrice() decimal.Decimal {
	return math.GetPriceFromSqrtPrice(u128.ToBig(m.pool.SqrtPriceX64), m.pool.MintDecimals0, m.pool.MintDecimals1)
}

// Clone returns an independent deep copy.
func (m *PoolManager) Clone() *PoolManager {
	out := *m
	pool := *m.pool
	out.pool = &pool
	out.neighborhood = m.neighborhood.Clone()
	if m.accounts != nil {
		out.accounts = m.accounts.clone()
	}
	return &out
}

func (a *poolAccounts) clone() *poolAccounts {
	config := *a.config
	out := &poolAccounts{
		config: &config,
		mint0:  cloneToken(a.mint0),
		mint1:  cloneToken(a.mint1),
	}
	if a.extension != nil {
		ext := *a.extension
		out.extension = &ext
	}
	copies := make(map[*TickArrayState]*TickArrayState)
	cloneWindow := func(list []*TickArrayState) []*TickArrayState {
		res := make([]*TickArrayState, len(list))
		for i, arr := range list {
			if c, ok := copies[arr]; ok {
				res[i] = c
				continue
			}
			c := *arr
			copies[arr] = &c
			res[i] = &c
		}
		return res
	}
	out.lower = cloneWindow(a.lower)
	out.upper = cloneWindow(a.upper)
	return out
}

func cloneToken(t *solana.Token) *solana.Token {
	out := *t
	out.Mint = token.Mint{
		Supply:        t.Supply,
		Decimals:      t.Decimals,
		IsInitialized: t.IsInitialized,
	}
	if t.MintAuthority != nil {
		key := *t.MintAuthority
		out.MintAuthority = &key
	}
	if t.FreezeAuthority != nil {
		key := *t.FreezeAuthority
		out.FreezeAuthority = &key
	}
	if t.TransferFeeConfig != nil {
		cfg := *t.TransferFeeConfig
		if cfg.TransferFeeConfigAuthority != nil {
			key := *cfg.TransferFeeConfigAuthority
			cfg.TransferFeeConfigAuthority = &key
		}
		if cfg.WithdrawWithheldAuthority != nil {
			key := *cfg.WithdrawWithheldAuthority
			cfg.WithdrawWithheldAuthority = &key
		}
		out.TransferFeeConfig = &cfg
	}
	return &out
}

// transferFeeConfig returns the fee config of the mint on the given side.
func (a *poolAccounts) transferFeeConfig(zeroSide bool) *token2022.TransferFeeConfig {
	if zeroSide {
		return a.mint0.TransferFeeConfig
	}
	return a.mint1.TransferFeeConfig
}
