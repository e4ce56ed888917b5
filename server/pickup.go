package main

import "math/rand/v2"

const (
	// PickupCapacity is the most pickups that may exist at once
	PickupCapacity = 5
)

// Pickup is a special that grants the attacker a power-up when struck
type Pickup struct {
	X, Y float64
}

// newPickup spawns a pickup at a random in-bounds position
func newPickup(rng *rand.Rand) Pickup {
	x, y := randomPosition(rng)
	return Pickup{X: x, Y: y}
}

// ToState converts to protocol state
func (p Pickup) ToState() PickupState {
	return PickupState{X: p.X, Y: p.Y}
}
