package main

import "testing"

func TestInHitBox(t *testing.T) {
	// Inside
	if !InHitBox(130, 130, 100, 100, 40) {
		t.Error("point inside square should hit")
	}

	// Exactly on the corner counts
	if !InHitBox(140, 140, 100, 100, 40) {
		t.Error("corner of square should hit")
	}
	if !InHitBox(60, 60, 100, 100, 40) {
		t.Error("opposite corner of square should hit")
	}

	// Just outside on one axis
	if InHitBox(140.5, 100, 100, 100, 40) {
		t.Error("point past the edge should not hit")
	}

	// Square, not circle: the corner is farther than radius but still hits
	if !InHitBox(138, 138, 100, 100, 40) {
		t.Error("square hit box should include points outside the inscribed circle")
	}

	// Same position
	if !InHitBox(5, 5, 5, 5, 0) {
		t.Error("same position should hit with zero radius")
	}
}
