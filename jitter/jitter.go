// Package jitter adds bounded pseudo-random variance to a fixed timer of
// the protocol engine (the searcher's round timeout), so that many nodes
// booted at the same instant don't stay in lockstep (every searcher
// broadcasting on the exact same schedule forever).
package jitter

import (
	"encoding/binary"
	"time"

	"go.dedis.ch/kyber/v3/util/random"
)

// Duration returns base adjusted by a uniformly random amount in
// [-frac*base, +frac*base]. frac is clamped to [0, 1]. The randomness
// comes from kyber's CSPRNG stream, not from math/rand — this is timing
// jitter, unrelated to the mesh's no-encryption non-goal.
func Duration(base time.Duration, frac float64) time.Duration {
	if frac <= 0 {
		return base
	}
	if frac > 1 {
		frac = 1
	}
	raw := random.Bytes(8, random.New())
	u := binary.BigEndian.Uint64(raw)
	// Map u into [0, 2*frac*base] then shift down by frac*base, giving a
	// symmetric spread around base.
	span := float64(base) * frac
	offset := (float64(u)/float64(^uint64(0)))*2*span - span
	return base + time.Duration(offset)
}
