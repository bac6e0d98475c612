package review

import "time"

// Salt separating the mastered-refresher sampling stream from the sort
// tiebreak stream, so including an item and ordering it are independent
// draws from the same seed.
const masteredSalt = 0x9e3779b9

func newSeed() uint32 {
	return uint32(time.Now().UnixNano())
}

// stableRandom maps (itemID, seed) to [0,1) deterministically: the seed is
// mixed with every byte of the id using 32-bit XOR/multiply steps and
// finished with an avalanche so that nearby ids and nearby seeds land far
// apart. The same inputs always produce the same value.
func stableRandom(itemID string, seed uint32) float64 {
	h := seed
	for i := 0; i < len(itemID); i++ {
		h ^= uint32(itemID[i])
		h *= 2654435761
	}

	// Avalanche finisher.
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16

	return float64(h) / (1 << 32)
}

// RefreshSeed replaces the session seed, deliberately reshuffling the
// tie-broken ordering and the mastered-refresher sample on the next query.
func (e *Engine) RefreshSeed() {
	e.seed = newSeed()
}
