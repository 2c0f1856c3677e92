package solana

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/krazyTry/swapio-clmm-go/clmm/shared"
	"github.com/krazyTry/swapio-clmm-go/solana/token2022"
)

// Token represents a Solana token with mint information and owner
type Token struct {
	token.Mint
	// Owner is the token program that owns the mint account
	Owner solana.PublicKey
	// TransferFeeConfig is set for Token-2022 mints carrying the extension
	TransferFeeConfig *token2022.TransferFeeConfig
}

func (t *Token) IsToken2022() bool {
	return t.Owner.Equals(solana.Token2022ProgramID)
}

// TokenLayout provides methods for decoding token data
type TokenLayout struct {
}

func (l *TokenLayout) Decode(owner solana.PublicKey, data []byte) (*Token, error) {
	if !owner.Equals(solana.TokenProgramID) && !owner.Equals(solana.Token2022ProgramID) {
		return nil, fmt.Errorf("%w: mint owned by %s", shared.ErrDecode, owner)
	}
	if len(data) < token2022.MintBaseSize {
		return nil, fmt.Errorf("%w: mint data too short: %d", shared.ErrDecode, len(data))
	}

	mint := token.Mint{}
	if err := mint.UnmarshalWithDecoder(bin.NewBinDecoder(data[:token2022.MintBaseSize])); err != nil {
		return nil, fmt.Errorf("%w: mint: %v", shared.ErrDecode, err)
	}
	out := &Token{Mint: mint, Owner: owner}

	if out.IsToken2022() {
		cfg, err := token2022.ParseTransferFeeConfig(data)
		if err != nil {
			return nil, err
		}
		out.TransferFeeConfig = cfg
	}
	return out, nil
}

// DecodeToken decodes a mint account owned by either token program.
func DecodeToken(owner solana.PublicKey, data []byte) (*Token, error) {
	return (&TokenLayout{}).Decode(owner, data)
}
