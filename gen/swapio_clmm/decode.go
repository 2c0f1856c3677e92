package swapioclmm

import (
	"bytes"
	"fmt"

	ag_binary "github.com/gagliardetto/binary"
)

type unmarshaler interface {
	UnmarshalWithDecoder(decoder *ag_binary.Decoder) error
}

type marshaler interface {
	MarshalWithEncoder(encoder *ag_binary.Encoder) error
}

func decodeAccount(name string, data []byte, size int, obj unmarshaler) error {
	if len(data) < size {
		return fmt.Errorf("%s: account data too short: %d < %d", name, len(data), size)
	}
	if err := obj.UnmarshalWithDecoder(ag_binary.NewBorshDecoder(data)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func DecodeAmmConfig(data []byte) (*AmmConfig, error) {
	var out AmmConfig
	if err := decodeAccount("AmmConfig", data, AmmConfigSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func DecodePoolState(data []byte) (*PoolState, error) {
	var out PoolState
	if err := decodeAccount("PoolState", data, PoolStateSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func DecodeTickArrayState(data []byte) (*TickArrayState, error) {
	var out TickArrayState
	if err := decodeAccount("TickArrayState", data, TickArrayStateSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func DecodeTickArrayBitmapExtension(data []byte) (*TickArrayBitmapExtension, error) {
	var out TickArrayBitmapExtension
	if err := decodeAccount("TickArrayBitmapExtension", data, TickArrayBitmapExtensionSize, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Encode serializes an account with its discriminator.
func Encode(obj marshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := obj.MarshalWithEncoder(ag_binary.NewBorshEncoder(buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
