package main

import (
	"math"
	"math/rand/v2"
)

// World bounds. Spawn positions and moves are kept inside this box.
const (
	WorldMinX = 25.0
	WorldMaxX = 2375.0
	WorldMinY = 25.0
	WorldMaxY = 1175.0
)

const maxNameLen = 16

// Player is a connected turtle. Values handed out by World are copies.
type Player struct {
	ID    string
	Name  string
	X, Y  float64
	Angle float64
	Score int

	seq uint64 // join order, used to break leaderboard ties
}

// newPlayer places a fresh player at a random in-bounds position
func newPlayer(id string, seq uint64, rng *rand.Rand) *Player {
	x, y := randomPosition(rng)
	return &Player{
		ID:   id,
		Name: id,
		X:    x,
		Y:    y,
		seq:  seq,
	}
}

// randomPosition picks whole-unit coordinates inside the world bounds
func randomPosition(rng *rand.Rand) (float64, float64) {
	x := WorldMinX + math.Floor(rng.Float64()*(WorldMaxX-WorldMinX))
	y := WorldMinY + math.Floor(rng.Float64()*(WorldMaxY-WorldMinY))
	return x, y
}

// ToState converts to protocol state
func (p Player) ToState() PlayerState {
	return PlayerState{
		X:        p.X,
		Y:        p.Y,
		Angle:    p.Angle,
		Score:    p.Score,
		Name:     p.Name,
		SocketID: p.ID,
	}
}
