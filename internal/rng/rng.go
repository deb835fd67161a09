// Package rng derives per-shot random sources from a single master seed
// so that any subset of shots reproduces deterministically regardless of
// thread scheduling, per the concurrency model's "seed = S + s" scheme.
//
// This is the one ambient concern in this repository built directly on
// the standard library rather than a pack dependency: Go's math/rand
// already ships a splittable, reproducible generator, and no example
// repo in the corpus carries a seeded-PRNG dependency that improves on
// it for this use (see DESIGN.md).
package rng

import "math/rand"

// ForShot returns a fresh *rand.Rand for shot index s under master seed
// seed. Each shot owns its source exclusively; sources for different s
// never share state, so shots may run concurrently without coordination.
func ForShot(seed int64, s int) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(s)))
}
