package swapioclmm

import (
	"bytes"
	"fmt"
	"reflect"

	ag_binary "github.com/gagliardetto/binary"
	ag_solanago "github.com/gagliardetto/solana-go"
)

const (
	TickArraySize                 = 60
	RewardNum                     = 3
	TickArrayBitmapWords          = 16
	ExtensionTickArrayBitmapSize  = 14
	ExtensionTickArrayBitmapWords = 8
)

// Account sizes including the 8-byte discriminator.
const (
	AmmConfigSize                = 8 + 1 + 2 + 32 + 4 + 4 + 2 + 4 + 4 + 32 + 24
	PoolStateSize                = 1544
	TickArrayStateSize           = 10240
	TickArrayBitmapExtensionSize = 8 + 32 + 2*ExtensionTickArrayBitmapSize*ExtensionTickArrayBitmapWords*8
)

type AmmConfig struct {
	Bump            uint8
	Index           uint16
	Owner           ag_solanago.PublicKey
	ProtocolFeeRate uint32
	TradeFeeRate    uint32
	TickSpacing     uint16
	FundFeeRate     uint32
	PaddingU32      uint32
	FundOwner       ag_solanago.PublicKey
	Padding         [3]uint64
}

func (obj *AmmConfig) fields() []any {
	return []any{
		&obj.Bump, &obj.Index, &obj.Owner, &obj.ProtocolFeeRate, &obj.TradeFeeRate,
		&obj.TickSpacing, &obj.FundFeeRate, &obj.PaddingU32, &obj.FundOwner, &obj.Padding,
	}
}

func (obj AmmConfig) MarshalWithEncoder(encoder *ag_binary.Encoder) error {
	if err := encoder.WriteBytes(AmmConfigDiscriminator[:], false); err != nil {
		return err
	}
	return encodeFields(encoder, obj.fields()...)
}

func (obj *AmmConfig) UnmarshalWithDecoder(decoder *ag_binary.Decoder) error {
	if err := readDiscriminator(decoder, AmmConfigDiscriminator); err != nil {
		return err
	}
	return decodeFields(decoder, obj.fields()...)
}

type RewardInfo struct {
	RewardState           uint8
	OpenTime              uint64
	EndTime               uint64
	LastUpdateTime        uint64
	EmissionsPerSecondX64 ag_binary.Uint128
	RewardTotalEmissioned uint64
	RewardClaimed         uint64
	TokenMint             ag_solanago.PublicKey
	TokenVault            ag_solanago.PublicKey
	Authority             ag_solanago.PublicKey
	RewardGrowthGlobalX64 ag_binary.Uint128
}

func (obj *RewardInfo) fields() []any {
	return []any{
		&obj.RewardState, &obj.OpenTime, &obj.EndTime, &obj.LastUpdateTime,
		&obj.EmissionsPerSecondX64, &obj.RewardTotalEmissioned, &obj.RewardClaimed,
		&obj.TokenMint, &obj.TokenVault, &obj.Authority, &obj.RewardGrowthGlobalX64,
	}
}

// PoolState is the CLMM pool account. The embedded TickArrayBitmap flags
// initialized tick arrays for offsets [-512, 512) around tick zero.
type PoolState struct {
	Bump           [1]uint8
	AmmConfig      ag_solanago.PublicKey
	Owner          ag_solanago.PublicKey
	TokenMint0     ag_solanago.PublicKey
	TokenMint1     ag_solanago.PublicKey
	TokenVault0    ag_solanago.PublicKey
	TokenVault1    ag_solanago.PublicKey
	ObservationKey ag_solanago.PublicKey
	MintDecimals0  uint8
	MintDecimals1  uint8
	TickSpacing    uint16
	Liquidity      ag_binary.Uint128
	SqrtPriceX64   ag_binary.Uint128
	TickCurrent    int32
	Padding3       uint16
	Padding4       uint16

	FeeGrowthGlobal0X64 ag_binary.Uint128
	FeeGrowthGlobal1X64 ag_binary.Uint128
	ProtocolFeesToken0  uint64
	ProtocolFeesToken1  uint64
	SwapInAmountToken0  ag_binary.Uint128
	SwapOutAmountToken1 ag_binary.Uint128
	SwapInAmountToken1  ag_binary.Uint128
	SwapOutAmountToken0 ag_binary.Uint128

	Status      uint8
	Padding     [7]uint8
	RewardInfos [RewardNum]RewardInfo

	TickArrayBitmap [TickArrayBitmapWords]uint64

	TotalFeesToken0        uint64
	TotalFeesClaimedToken0 uint64
	TotalFeesToken1        uint64
	TotalFeesClaimedToken1 uint64
	FundFeesToken0         uint64
	FundFeesToken1         uint64
	OpenTime               uint64
	RecentEpoch            uint64
	Padding1               [24]uint64
	Padding2               [32]uint64
}

func (obj *PoolState) head() []any {
	return []any{
		&obj.Bump, &obj.AmmConfig, &obj.Owner, &obj.TokenMint0, &obj.TokenMint1,
		&obj.TokenVault0, &obj.TokenVault1, &obj.ObservationKey, &obj.MintDecimals0,
		&obj.MintDecimals1, &obj.TickSpacing, &obj.Liquidity, &obj.SqrtPriceX64,
		&obj.TickCurrent, &obj.Padding3, &obj.Padding4, &obj.FeeGrowthGlobal0X64,
		&obj.FeeGrowthGlobal1X64, &obj.ProtocolFeesToken0, &obj.ProtocolFeesToken1,
		&obj.SwapInAmountToken0, &obj.SwapOutAmountToken1, &obj.SwapInAmountToken1,
		&obj.SwapOutAmountToken0, &obj.Status, &obj.Padding,
	}
}

func (obj *PoolState) tail() []any {
	return []any{
		&obj.TickArrayBitmap, &obj.TotalFeesToken0, &obj.TotalFeesClaimedToken0,
		&obj.TotalFeesToken1, &obj.TotalFeesClaimedToken1, &obj.FundFeesToken0,
		&obj.FundFeesToken1, &obj.OpenTime, &obj.RecentEpoch, &obj.Padding1, &obj.Padding2,
	}
}

func (obj PoolState) MarshalWithEncoder(encoder *ag_binary.Encoder) error {
	if err := encoder.WriteBytes(PoolStateDiscriminator[:], false); err != nil {
		return err
	}
	if err := encodeFields(encoder, obj.head()...); err != nil {
		return err
	}
	for i := range obj.RewardInfos {
		if err := encodeFields(encoder, obj.RewardInfos[i].fields()...); err != nil {
			return err
		}
	}
	return encodeFields(encoder, obj.tail()...)
}

func (obj *PoolState) UnmarshalWithDecoder(decoder *ag_binary.Decoder) error {
	if err := readDiscriminator(decoder, PoolStateDiscriminator); err != nil {
		return err
	}
	if err := decodeFields(decoder, obj.head()...); err != nil {
		return err
	}
	for i := range obj.RewardInfos {
		if err := decodeFields(decoder, obj.RewardInfos[i].fields()...); err != nil {
			return err
		}
	}
	return decodeFields(decoder, obj.tail()...)
}

type TickState struct {
	Tick                    int32
	LiquidityNet            ag_binary.Int128
	LiquidityGross          ag_binary.Uint128
	FeeGrowthOutside0X64    ag_binary.Uint128
	FeeGrowthOutside1X64    ag_binary.Uint128
	RewardGrowthsOutsideX64 [RewardNum]ag_binary.Uint128
	Padding                 [13]uint32
}

func (obj *TickState) fields() []any {
	return []any{
		&obj.Tick, &obj.LiquidityNet, &obj.LiquidityGross, &obj.FeeGrowthOutside0X64,
		&obj.FeeGrowthOutside1X64, &obj.RewardGrowthsOutsideX64[0],
		&obj.RewardGrowthsOutsideX64[1], &obj.RewardGrowthsOutsideX64[2], &obj.Padding,
	}
}

// IsInitialized reports whether any position references the tick.
func (obj *TickState) IsInitialized() bool {
	return obj.LiquidityGross.Lo != 0 || obj.LiquidityGross.Hi != 0
}

type TickArrayState struct {
	PoolId               ag_solanago.PublicKey
	StartTickIndex       int32
	Ticks                [TickArraySize]TickState
	InitializedTickCount uint8
	RecentEpoch          uint64
	Padding              [107]uint8
}

func (obj TickArrayState) MarshalWithEncoder(encoder *ag_binary.Encoder) error {
	if err := encoder.WriteBytes(TickArrayStateDiscriminator[:], false); err != nil {
		return err
	}
	if err := encodeFields(encoder, &obj.PoolId, &obj.StartTickIndex); err != nil {
		return err
	}
	for i := range obj.Ticks {
		if err := encodeFields(encoder, obj.Ticks[i].fields()...); err != nil {
			return err
		}
	}
	return encodeFields(encoder, &obj.InitializedTickCount, &obj.RecentEpoch, &obj.Padding)
}

func (obj *TickArrayState) UnmarshalWithDecoder(decoder *ag_binary.Decoder) error {
	if err := readDiscriminator(decoder, TickArrayStateDiscriminator); err != nil {
		return err
	}
	if err := decodeFields(decoder, &obj.PoolId, &obj.StartTickIndex); err != nil {
		return err
	}
	for i := range obj.Ticks {
		if err := decodeFields(decoder, obj.Ticks[i].fields()...); err != nil {
			return err
		}
	}
	return decodeFields(decoder, &obj.InitializedTickCount, &obj.RecentEpoch, &obj.Padding)
}

// TickArrayBitmapExtension flags tick arrays beyond the range of the pool's
// embedded bitmap, 14 segments of 512 bits on each side of zero.
type TickArrayBitmapExtension struct {
	PoolId                  ag_solanago.PublicKey
	PositiveTickArrayBitmap [ExtensionTickArrayBitmapSize][ExtensionTickArrayBitmapWords]uint64
	NegativeTickArrayBitmap [ExtensionTickArrayBitmapSize][ExtensionTickArrayBitmapWords]uint64
}

func (obj *TickArrayBitmapExtension) fields() []any {
	return []any{&obj.PoolId, &obj.PositiveTickArrayBitmap, &obj.NegativeTickArrayBitmap}
}

func (obj TickArrayBitmapExtension) MarshalWithEncoder(encoder *ag_binary.Encoder) error {
	if err := encoder.WriteBytes(TickArrayBitmapExtensionDiscriminator[:], false); err != nil {
		return err
	}
	return encodeFields(encoder, obj.fields()...)
}

func (obj *TickArrayBitmapExtension) UnmarshalWithDecoder(decoder *ag_binary.Decoder) error {
	if err := readDiscriminator(decoder, TickArrayBitmapExtensionDiscriminator); err != nil {
		return err
	}
	return decodeFields(decoder, obj.fields()...)
}

func readDiscriminator(decoder *ag_binary.Decoder, want [8]byte) error {
	got, err := decoder.ReadNBytes(8)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want[:]) {
		return fmt.Errorf("wrong discriminator: wanted %v, got %v", want[:], got)
	}
	return nil
}

func decodeFields(decoder *ag_binary.Decoder, fields ...any) error {
	for _, f := range fields {
		if err := decoder.Decode(f); err != nil {
			return err
		}
	}
	return nil
}

func encodeFields(encoder *ag_binary.Encoder, fields ...any) error {
	for _, f := range fields {
		if err := encoder.Encode(reflect.ValueOf(f).Elem().Interface()); err != nil {
			return err
		}
	}
	return nil
}
