package token2022

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFee(t *testing.T) {
	tf := TransferFee{Epoch: 0, MaximumFee: 10_000, BasisPoints: 100}

	tests := []struct {
		name   string
		amount uint64
		fee    uint64
	}{
		{"under cap", 1_000_000, 10_000},
		{"capped", 50_000_000, 10_000},
		{"rounds up", 101, 2},
		{"smallest amount", 1, 1},
		{"zero amount", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := CalculateFee(tf, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.fee, fee)
		})
	}

	fee, err := CalculateFee(TransferFee{MaximumFee: 10, BasisPoints: 0}, 1_000)
	require.NoError(t, err)
	assert.Zero(t, fee)

	_, err = CalculateFee(TransferFee{MaximumFee: 10, BasisPoints: MaxFeeBasisPoints + 1}, 1_000)
	assert.ErrorIs(t, err, shared.ErrDecode)
}

func TestTransferFeeAtEpoch(t *testing.T) {
	cfg := &TransferFeeConfig{
		OlderTransferFee: TransferFee{Epoch: 0, MaximumFee: 1_000_000, BasisPoints: 50},
		NewerTransferFee: TransferFee{Epoch: 5, MaximumFee: 10_000, BasisPoints: 100},
	}

	fee, err := TransferFeeAt(cfg, 5, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), fee)

	fee, err = TransferFeeAt(cfg, 5, 50_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), fee)

	fee, err = TransferFeeAt(cfg, 4, 1_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000), fee)

	fee, err = TransferFeeAt(nil, 5, 1_000_000)
	require.NoError(t, err)
	assert.Zero(t, fee)
}

func TestInverseFee(t *testing.T) {
	tf := TransferFee{MaximumFee: 10_000, BasisPoints: 100}

	pre, err := CalculatePreFeeAmount(tf, 501_255)
	require.NoError(t, err)
	assert.Equal(t, uint64(506_319), pre)

	fee, err := CalculateInverseFee(tf, 501_255)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_064), fee)

	// The gross amount nets back to the requested amount.
	forward, err := CalculateFee(tf, pre)
	require.NoError(t, err)
	assert.Equal(t, uint64(501_255), pre-forward)

	pre, err = CalculatePreFeeAmount(tf, 50_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50_010_000), pre)

	pre, err = CalculatePreFeeAmount(TransferFee{MaximumFee: 7, BasisPoints: MaxFeeBasisPoints}, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(107), pre)

	_, err = CalculatePreFeeAmount(TransferFee{MaximumFee: 1, BasisPoints: MaxFeeBasisPoints}, ^uint64(0))
	assert.ErrorIs(t, err, shared.ErrArithmeticOverflow)
}

func transferFeeMint(t *testing.T, older, newer TransferFee, authority *solana.PublicKey, leading ...[]byte) []byte {
	t.Helper()
	data := make([]byte, AccountTypeOffset)
	data[44] = 6
	data[45] = 1
	data = append(data, AccountTypeMint)
	for _, entry := range leading {
		data = append(data, entry...)
	}
	data = binary.LittleEndian.AppendUint16(data, ExtensionTypeTransferFeeConfig)
	data = binary.LittleEndian.AppendUint16(data, TransferFeeConfigLength)
	if authority != nil {
		data = append(data, authority.Bytes()...)
	} else {
		data = append(data, make([]byte, 32)...)
	}
	data = append(data, make([]byte, 32)...)
	data = binary.LittleEndian.AppendUint64(data, 42)
	for _, fee := range []TransferFee{older, newer} {
		data = binary.LittleEndian.AppendUint64(data, fee.Epoch)
		data = binary.LittleEndian.AppendUint64(data, fee.MaximumFee)
		data = binary.LittleEndian.AppendUint16(data, fee.BasisPoints)
	}
	return data
}

func TestParseTransferFeeConfig(t *testing.T) {
	authority := solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	older := TransferFee{Epoch: 1, MaximumFee: 2, BasisPoints: 3}
	newer := TransferFee{Epoch: 4, MaximumFee: 5, BasisPoints: 6}

	// A metadata pointer entry ahead of the fee config is skipped.
	skipped := binary.LittleEndian.AppendUint16(nil, 18)
	skipped = binary.LittleEndian.AppendUint16(skipped, 64)
	skipped = append(skipped, make([]byte, 64)...)

	cfg, err := ParseTransferFeeConfig(transferFeeMint(t, older, newer, &authority, skipped))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.TransferFeeConfigAuthority)
	assert.Equal(t, authority, *cfg.TransferFeeConfigAuthority)
	assert.Nil(t, cfg.WithdrawWithheldAuthority)
	assert.Equal(t, uint64(42), cfg.WithheldAmount)
	assert.Equal(t, older, cfg.OlderTransferFee)
	assert.Equal(t, newer, cfg.NewerTransferFee)
}

func TestParseTransferFeeConfigWithoutExtension(t *testing.T) {
	cfg, err := ParseTransferFeeConfig(make([]byte, MintBaseSize))
	require.NoError(t, err)
	assert.Nil(t, cfg)

	data := make([]byte, TLVStart+8)
	data[AccountTypeOffset] = AccountTypeMint
	cfg, err = ParseTransferFeeConfig(data)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestParseTransferFeeConfigErrors(t *testing.T) {
	data := transferFeeMint(t, TransferFee{}, TransferFee{}, nil)
	_, err := ParseTransferFeeConfig(data[:len(data)-10])
	assert.ErrorIs(t, err, shared.ErrDecode)

	data[AccountTypeOffset] = 2
	_, err = ParseTransferFeeConfig(data)
	assert.ErrorIs(t, err, shared.ErrDecode)
}
