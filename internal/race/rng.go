package race

import (
	"encoding/binary"
	"math/rand"
	"time"

	"golang.org/x/crypto/blake2b"
)

// NewRand returns the generator handed to a Builder. seed 0 picks a
// time-based seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// SeedFromPhrase hashes a phrase into a non-zero seed so a memorable phrase
// can replay the same race.
func SeedFromPhrase(phrase string) int64 {
	sum := blake2b.Sum256([]byte(phrase))
	seed := int64(binary.LittleEndian.Uint64(sum[:8]) &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}
