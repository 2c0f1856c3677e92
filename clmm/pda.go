package clmm

import (
	"encoding/binary"

	solanago "github.com/gagliardetto/solana-go"

	swapioclmm "github.com/krazyTry/swapio-clmm-go/gen/swapio_clmm"
)

// DeriveTickArrayAddress derives the tick array account starting at startIndex.
// The start index is encoded as a big-endian i32.
func DeriveTickArrayAddress(programID, pool solanago.PublicKey, startIndex int32) (solanago.PublicKey, error) {
	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, uint32(startIndex))
	pub, _, err := solanago.FindProgramAddress([][]byte{
		swapioclmm.TickArraySeed,
		pool.Bytes(),
		indexBytes,
	}, programID)
	return pub, err
}

func DeriveTickArrayBitmapExtensionAddress(programID, pool solanago.PublicKey) (solanago.PublicKey, error) {
	pub, _, err := solanago.FindProgramAddress([][]byte{
		swapioclmm.TickArrayBitmapExtensionSeed,
		pool.Bytes(),
	}, programID)
	return pub, err
}
