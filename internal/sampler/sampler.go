// package sampler provides seeded random draws for the generation pipeline.
//
// Every function takes an explicit *rand.Rand so draw-order dependencies
// are visible at call sites and reproducible under a fixed seed: given
// the same seed and the same call sequence, the sequence of draws is
// deterministic.
package sampler

import "math/rand"

// Pick draws one option with probability proportional to its weight.
// Options and weights must have equal length and weights must be
// non-negative; zero-weight options are never selected. All-zero
// weights are a caller contract violation and yield the last option.
func Pick[T any](r *rand.Rand, options []T, weights []float64) T {
	if len(options) != len(weights) {
		panic("sampler: options and weights length mismatch")
	}
	var total float64
	for _, w := range weights {
		total += w
	}

	target := r.Float64() * total
	var cumulative float64
	for i, w := range weights {
		cumulative += w
		if w > 0 && target < cumulative {
			return options[i]
		}
	}
	return options[len(options)-1]
}

// Choice draws one option uniformly at random.
func Choice[T any](r *rand.Rand, options []T) T {
	return options[r.Intn(len(options))]
}

// SampleN draws n distinct elements from pool without replacement,
// capped at len(pool).
func SampleN[T any](r *rand.Rand, pool []T, n int) []T {
	if n > len(pool) {
		n = len(pool)
	}
	sample := make([]T, 0, n)
	for _, idx := range r.Perm(len(pool))[:n] {
		sample = append(sample, pool[idx])
	}
	return sample
}

// IntBetween draws a uniform integer in [lo, hi] inclusive.
func IntBetween(r *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Bernoulli reports true with probability p.
func Bernoulli(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}
