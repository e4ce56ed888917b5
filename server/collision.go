package main

import "math"

// InHitBox reports whether (tx, ty) lies inside the axis-aligned square of
// half-size radius centred on (cx, cy). The boundary counts as a hit.
func InHitBox(tx, ty, cx, cy, radius float64) bool {
	return math.Abs(tx-cx) <= radius && math.Abs(ty-cy) <= radius
}
