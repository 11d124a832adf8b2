// Package dice provides the core randomness abstraction for the LEmud
// combat engine.
package dice

// Source is the randomness provider for all combat rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Between returns a uniform random int in [min, max] inclusive.
//
// Precondition: src must be non-nil; max >= min.
// Postcondition: min <= result <= max.
func Between(src Source, min, max int) int {
	if max < min {
		panic("dice: Between called with max < min")
	}
	if max == min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Chance returns true with probability p.
//
// Precondition: src must be non-nil; p in [0, 1].
// Postcondition: Always false for p <= 0, always true for p >= 1.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	// Resolve in basis points; finer granularity than combat tuning needs.
	return src.Intn(10000) < int(p*10000)
}

// Pick returns a uniformly random index in [0, n).
//
// Precondition: src must be non-nil; n > 0.
func Pick(src Source, n int) int {
	return src.Intn(n)
}
