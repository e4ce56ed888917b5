package main

import (
	"math"
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// finite reports whether every value is a real number (no NaN or Inf)
func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// sanitizeName trims whitespace and caps the name at maxNameLen runes
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= maxNameLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:maxNameLen])
}

// newRand returns a PCG-backed source. A zero seed pair draws fresh seeds.
func newRand(seed1, seed2 uint64) *rand.Rand {
	if seed1 == 0 && seed2 == 0 {
		seed1, seed2 = rand.Uint64(), rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed1, seed2))
}
