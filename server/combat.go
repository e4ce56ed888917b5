package main

import (
	"fmt"
	"sort"
	"sync"
)

// gridPool recycles broad-phase grids between attacks
var gridPool = sync.Pool{
	New: func() interface{} { return &SpatialGrid{} },
}

// AttackKind is the closed set of attack types a client may send
type AttackKind int

const (
	AttackStandard AttackKind = iota // wire type "A"
	AttackSpecial                    // wire type "B"
)

const (
	StandardAttackRadius = 40.0
	SpecialAttackRadius  = 80.0
)

// ParseAttackKind maps the wire type to an AttackKind
func ParseAttackKind(s string) (AttackKind, error) {
	switch s {
	case "A":
		return AttackStandard, nil
	case "B":
		return AttackSpecial, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttackType, s)
}

// Radius returns the half-size of the square hit box
func (k AttackKind) Radius() float64 {
	if k == AttackSpecial {
		return SpecialAttackRadius
	}
	return StandardAttackRadius
}

func (k AttackKind) String() string {
	if k == AttackSpecial {
		return "special"
	}
	return "standard"
}

// AttackEvent is a single attack, used once then discarded
type AttackEvent struct {
	AttackerID string
	X, Y       float64
	Kind       AttackKind
}

// AttackResult describes everything an attack changed
type AttackResult struct {
	Killed        []string // victim ids, sorted
	StruckPickups []int    // indices into the pre-attack pickup list, ascending
	AttackerKnown bool     // false when the attacker disconnected mid-flight
	AttackerScore int      // attacker's score after the attack
}

// PickupsChanged reports whether the pickup list was modified
func (r AttackResult) PickupsChanged() bool {
	return len(r.StruckPickups) > 0
}

// ResolveAttack finds the players and pickups inside the attack's hit box.
// It mutates nothing; the inputs are treated as a stable snapshot so pickup
// indices stay valid for a single batch removal afterwards. The attacker is
// never among the victims.
func ResolveAttack(ev AttackEvent, players []Player, pickups []Pickup) ([]string, []int) {
	radius := ev.Kind.Radius()

	grid := gridPool.Get().(*SpatialGrid)
	grid.Clear()
	defer gridPool.Put(grid)

	for i, p := range players {
		grid.Insert(p.X, p.Y, EntityRef{Kind: KindPlayer, Idx: i})
	}
	for i, pk := range pickups {
		grid.Insert(pk.X, pk.Y, EntityRef{Kind: KindPickup, Idx: i})
	}

	var killed []string
	var struck []int
	for _, ref := range grid.QueryBuf(ev.X, ev.Y, radius, nil) {
		switch ref.Kind {
		case KindPlayer:
			p := players[ref.Idx]
			if p.ID == ev.AttackerID {
				continue
			}
			if InHitBox(p.X, p.Y, ev.X, ev.Y, radius) {
				killed = append(killed, p.ID)
			}
		case KindPickup:
			pk := pickups[ref.Idx]
			if InHitBox(pk.X, pk.Y, ev.X, ev.Y, radius) {
				struck = append(struck, ref.Idx)
			}
		}
	}
	sort.Strings(killed)
	sort.Ints(struck)
	return killed, struck
}
