// Package clmmtest builds encoded CLMM accounts for tests.
package clmmtest

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	ag_binary "github.com/gagliardetto/binary"
	solanago "github.com/gagliardetto/solana-go"

	"github.com/krazyTry/swapio-clmm-go/clmm"
	"github.com/krazyTry/swapio-clmm-go/clmm/math"
	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
	"github.com/krazyTry/swapio-clmm-go/solana/token2022"
	"github.com/krazyTry/swapio-clmm-go/u128"
)

// Key derives a stable public key from seed.
func Key(seed string) solanago.PublicKey {
	sum := sha256.Sum256([]byte(seed))
	return solanago.PublicKeyFromBytes(sum[:])
}

var (
	ProgramID = Key("program")
	PoolKey   = Key("pool")
	ConfigKey = Key("amm-config")
	Mint0     = Key("mint-0")
	Mint1     = Key("mint-1")
)

// Mint describes a mint account to encode.
type Mint struct {
	Decimals uint8
	// TransferFee makes the mint a Token-2022 mint carrying the extension.
	TransferFee *token2022.TransferFeeConfig
	Token2022   bool
}

// Market is a pool with its config, mints and tick arrays.
type Market struct {
	Pool      *swapioclmm.PoolState
	Config    *swapioclmm.AmmConfig
	Arrays    map[int32]*swapioclmm.TickArrayState
	Extension *swapioclmm.TickArrayBitmapExtension
	Mints     [2]Mint
}

// NewMarket returns a pool at tickCurrent with no liquidity.
func NewMarket(tickSpacing uint16, tickCurrent int32, tradeFeeRate uint32) *Market {
	sqrtPrice, err := math.GetSqrtPriceAtTick(tickCurrent)
	if err != nil {
		panic(err)
	}
	sqrtPriceX64, err := u128.FromBig(sqrtPrice)
	if err != nil {
		panic(err)
	}
	return &Market{
		Pool: &swapioclmm.PoolState{
			AmmConfig:      ConfigKey,
			TokenMint0:     Mint0,
			TokenMint1:     Mint1,
			TokenVault0:    Key("vault-0"),
			TokenVault1:    Key("vault-1"),
			ObservationKey: Key("observation"),
			MintDecimals0:  6,
			MintDecimals1:  6,
			TickSpacing:    tickSpacing,
			SqrtPriceX64:   sqrtPriceX64,
			TickCurrent:    tickCurrent,
		},
		Config: &swapioclmm.AmmConfig{
			TradeFeeRate: tradeFeeRate,
			TickSpacing:  tickSpacing,
		},
		Arrays: make(map[int32]*swapioclmm.TickArrayState),
		Mints:  [2]Mint{{Decimals: 6}, {Decimals: 6}},
	}
}

// AddPosition adds liquidity between two initializable ticks.
func (m *Market) AddPosition(tickLower, tickUpper int32, liquidity uint64) {
	m.addTick(tickLower, int64(liquidity), liquidity)
	m.addTick(tickUpper, -int64(liquidity), liquidity)
	if tickLower <= m.Pool.TickCurrent && m.Pool.TickCurrent < tickUpper {
		current := u128.ToBig(m.Pool.Liquidity)
		current.Add(current, new(big.Int).SetUint64(liquidity))
		m.Pool.Liquidity = mustU128(current)
	}
}

func (m *Market) addTick(tick int32, net int64, gross uint64) {
	spacing := m.Pool.TickSpacing
	if tick%int32(spacing) != 0 {
		panic(fmt.Sprintf("tick %d is not a multiple of spacing %d", tick, spacing))
	}
	start := math.GetArrayStartIndex(tick, spacing)
	arr, ok := m.Arrays[start]
	if !ok {
		arr = &swapioclmm.TickArrayState{PoolId: PoolKey, StartTickIndex: start}
		m.Arrays[start] = arr
		m.flag(start)
	}
	state := &arr.Ticks[(tick-start)/int32(spacing)]
	if !state.IsInitialized() {
		arr.InitializedTickCount++
	}
	state.Tick = tick

	netValue := u128.Int128ToBig(state.LiquidityNet)
	netValue.Add(netValue, new(big.Int).SetInt64(net))
	liquidityNet, err := u128.Int128FromBig(netValue)
	if err != nil {
		panic(err)
	}
	state.LiquidityNet = liquidityNet

	grossValue := u128.ToBig(state.LiquidityGross)
	state.LiquidityGross = mustU128(grossValue.Add(grossValue, new(big.Int).SetUint64(gross)))
}

func (m *Market) flag(start int32) {
	spacing := m.Pool.TickSpacing
	if !math.IsOverflowDefaultTickArrayBitmap(spacing, start) {
		if err := math.SetTickArrayBit(&m.Pool.TickArrayBitmap, start, spacing); err != nil {
			panic(err)
		}
		return
	}
	if m.Extension == nil {
		m.Extension = &swapioclmm.TickArrayBitmapExtension{PoolId: PoolKey}
	}
	if err := math.SetExtensionTickArrayBit(m.Extension, start, spacing); err != nil {
		panic(err)
	}
}

// PoolAccount is the keyed pool account a host would hand to FromKeyedAccount.
func (m *Market) PoolAccount() clmm.KeyedAccount {
	return clmm.KeyedAccount{
		Key:     PoolKey,
		Account: clmm.Account{Owner: ProgramID, Data: mustEncode(*m.Pool)},
	}
}

// Accounts encodes every account the pool manager asks for. Tick arrays are
// included whether or not the neighborhood needs them.
func (m *Market) Accounts() clmm.AccountMap {
	out := clmm.AccountMap{
		ConfigKey: {Owner: ProgramID, Data: mustEncode(*m.Config)},
		Mint0:     EncodeMint(m.Mints[0]),
		Mint1:     EncodeMint(m.Mints[1]),
	}
	if m.Extension != nil {
		address, err := clmm.DeriveTickArrayBitmapExtensionAddress(ProgramID, PoolKey)
		if err != nil {
			panic(err)
		}
		out[address] = clmm.Account{Owner: ProgramID, Data: mustEncode(*m.Extension)}
	}
	for start, arr := range m.Arrays {
		address, err := clmm.DeriveTickArrayAddress(ProgramID, PoolKey, start)
		if err != nil {
			panic(err)
		}
		out[address] = clmm.Account{Owner: ProgramID, Data: mustEncode(*arr)}
	}
	return out
}

// EncodeMint lays out an initialized mint with no authorities. Token-2022
// mints with a transfer fee get the account type byte and one TLV entry.
func EncodeMint(mint Mint) clmm.Account {
	data := make([]byte, token2022.MintBaseSize)
	binary.LittleEndian.PutUint64(data[36:44], 1_000_000_000_000)
	data[44] = mint.Decimals
	data[45] = 1

	if mint.TransferFee == nil {
		owner := solanago.TokenProgramID
		if mint.Token2022 {
			owner = solanago.Token2022ProgramID
		}
		return clmm.Account{Owner: owner, Data: data}
	}

	data = append(data, make([]byte, token2022.AccountTypeOffset-token2022.MintBaseSize)...)
	data = append(data, token2022.AccountTypeMint)
	data = binary.LittleEndian.AppendUint16(data, token2022.ExtensionTypeTransferFeeConfig)
	data = binary.LittleEndian.AppendUint16(data, token2022.TransferFeeConfigLength)
	data = append(data, optionalKey(mint.TransferFee.TransferFeeConfigAuthority)...)
	data = append(data, optionalKey(mint.TransferFee.WithdrawWithheldAuthority)...)
	data = binary.LittleEndian.AppendUint64(data, mint.TransferFee.WithheldAmount)
	for _, fee := range []token2022.TransferFee{mint.TransferFee.OlderTransferFee, mint.TransferFee.NewerTransferFee} {
		data = binary.LittleEndian.AppendUint64(data, fee.Epoch)
		data = binary.LittleEndian.AppendUint64(data, fee.MaximumFee)
		data = binary.LittleEndian.AppendUint16(data, fee.BasisPoints)
	}
	return clmm.Account{Owner: solanago.Token2022ProgramID, Data: data}
}

// FlatTransferFee charges bps, capped at maximumFee, in every epoch.
func FlatTransferFee(bps uint16, maximumFee uint64) *token2022.TransferFeeConfig {
	fee := token2022.TransferFee{MaximumFee: maximumFee, BasisPoints: bps}
	return &token2022.TransferFeeConfig{OlderTransferFee: fee, NewerTransferFee: fee}
}

func optionalKey(key *solanago.PublicKey) []byte {
	if key == nil {
		return make([]byte, 32)
	}
	return key.Bytes()
}

type encodable interface {
	MarshalWithEncoder(encoder *ag_binary.Encoder) error
}

func mustU128(v *big.Int) ag_binary.Uint128 {
	out, err := u128.FromBig(v)
	if err != nil {
		panic(err)
	}
	return out
}

func mustEncode(obj encodable) []byte {
	data, err := swapioclmm.Encode(obj)
	if err != nil {
		panic(err)
	}
	return data
}
