package swapioclmm

import "crypto/sha256"

// PDA seeds used by the CLMM program.
var (
	TickArraySeed                = []byte("tick_array")
	TickArrayBitmapExtensionSeed = []byte("pool_tick_array_bitmap_extension")
)

// Account discriminators, sha256("account:<Name>")[:8].
var (
	AmmConfigDiscriminator                = discriminator("AmmConfig")
	PoolStateDiscriminator                = discriminator("PoolState")
	TickArrayStateDiscriminator           = discriminator("TickArrayState")
	TickArrayBitmapExtensionDiscriminator = discriminator("TickArrayBitmapExtension")
)

func discriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}
