package engine

import "sort"

// State hashing. Each piece contributes a fingerprint derived from its
// anchor coordinate; fingerprints are combined commutatively inside
// interchangeability groups, so two boards that differ only by which
// member of a group sits in which slot hash identically. Group values
// are then folded in a fixed order. Collisions between genuinely
// different states are possible in principle but have not been
// observed for boards of the sizes this engine targets.

const fingerprintSeed = 0x9e3779b97f4a7c15

// Hash returns the canonical identity of the current configuration.
func (b *Board) Hash() StateHash {
	groupValues := make(map[string]uint64, len(b.groups))
	for _, label := range b.order {
		v, ok := groupValues[b.groups[label]]
		if !ok {
			v = 1
		}
		// Force odd so the product never collapses to zero and stays
		// sensitive to every member's fingerprint.
		groupValues[b.groups[label]] = v * (b.fps[label] | 1)
	}

	keys := make([]string, 0, len(groupValues))
	for key := range groupValues {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rng := splitmix64{state: fingerprintSeed}
	h := rng.next()
	for _, key := range keys {
		h = mix64(h ^ groupValues[key])
	}
	return StateHash(h)
}

// pieceFingerprint hashes the piece's anchor coordinate. Shapes never
// change, so the anchor alone pins the piece's placement.
func (b *Board) pieceFingerprint(label string) uint64 {
	anchor := b.pieces[label][0]
	return mix64(uint64(anchor.X)*9757157 + uint64(anchor.Y) + fingerprintSeed)
}

// splitmix64 is a tiny deterministic generator used to seed hash
// material; good avalanche behavior for sequential states.
type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	return mix64(s.state)
}

func mix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
