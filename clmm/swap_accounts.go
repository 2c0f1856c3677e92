package clmm

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
)

// SwapAccountMetas lists the accounts of a swap-v2 instruction against the
// manager's pool. The tick arrays appended are those the quote walked for the
// same direction.
func (m *PoolManager) SwapAccountMetas(params SwapParams) (*SwapAndAccountMetas, error) {
	zeroForOne, err := swapDirection(m.pool, QuoteParams{
		InputMint:  params.SourceMint,
		OutputMint: params.DestinationMint,
	})
	if err != nil {
		return nil, err
	}

	window := m.neighborhood.Window(zeroForOne)
	if len(window) == 0 {
		return nil, fmt.Errorf("%w: no tick arrays for swap direction", ErrInsufficientLiquidity)
	}

	inputVault, outputVault := m.pool.TokenVault0, m.pool.TokenVault1
	if !zeroForOne {
		inputVault, outputVault = outputVault, inputVault
	}

	metas := solanago.AccountMetaSlice{
		solanago.NewAccountMeta(m.pool.AmmConfig, false, false),
		solanago.NewAccountMeta(m.key, true, false),
		solanago.NewAccountMeta(params.SourceTokenAccount, true, false),
		solanago.NewAccountMeta(params.DestinationTokenAccount, true, false),
		solanago.NewAccountMeta(inputVault, true, false),
		solanago.NewAccountMeta(outputVault, true, false),
		solanago.NewAccountMeta(m.pool.ObservationKey, true, false),
		solanago.NewAccountMeta(solanago.TokenProgramID, false, false),
		solanago.NewAccountMeta(solanago.Token2022ProgramID, false, false),
		solanago.NewAccountMeta(MemoProgramID, false, false),
		solanago.NewAccountMeta(params.SourceMint, false, false),
		solanago.NewAccountMeta(params.DestinationMint, false, false),
		solanago.NewAccountMeta(m.extensionKey, true, false),
	}
	for _, ref := range window {
		metas = append(metas, solanago.NewAccountMeta(ref.Address, true, false))
	}
	return &SwapAndAccountMetas{
		Swap:         SwapKindSwapIOClmm,
		AccountMetas: metas,
	}, nil
}
