package main

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestWorldRegister(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	p, replaced := w.Register("c1")
	if replaced {
		t.Error("first registration should not replace")
	}
	if p.Name != "c1" || p.Score != 0 || p.Angle != 0 {
		t.Errorf("unexpected new player %+v", p)
	}
	if p.X < WorldMinX || p.X > WorldMaxX || p.Y < WorldMinY || p.Y > WorldMaxY {
		t.Errorf("spawn (%f, %f) out of bounds", p.X, p.Y)
	}
	if w.PlayerCount() != 1 {
		t.Errorf("expected 1 player, got %d", w.PlayerCount())
	}

	w.SetName("c1", "Renamed")
	if _, replaced := w.Register("c1"); !replaced {
		t.Error("second registration of same id should report replace")
	}
	if w.PlayerCount() != 1 {
		t.Errorf("ids must stay unique, got %d players", w.PlayerCount())
	}
	if got, _ := w.Player("c1"); got.Name != "c1" {
		t.Errorf("overwrite should reset the player, name = %q", got.Name)
	}
}

func TestWorldUnregisterIsIdempotent(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	w.Register("c1")
	if !w.Unregister("c1") {
		t.Error("first unregister should remove")
	}
	if w.Unregister("c1") {
		t.Error("second unregister should be a no-op")
	}
	if w.Unregister("never") {
		t.Error("unknown id should be a no-op")
	}
}

func TestWorldSetName(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	if w.SetName("ghost", "Boo") {
		t.Error("renaming an unknown id should fail")
	}
	w.Register("c1")
	if !w.SetName("c1", "Alice") {
		t.Fatal("rename should succeed")
	}
	if p, _ := w.Player("c1"); p.Name != "Alice" {
		t.Errorf("expected Alice, got %s", p.Name)
	}
}

func TestWorldApplyMove(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	if w.ApplyMove("ghost", Move{X: 100, Y: 100}) {
		t.Error("move for unknown id should be ignored")
	}
	if w.PlayerCount() != 0 {
		t.Error("ignored move must not create a player")
	}

	w.Register("c1")
	w.ApplyMove("c1", Move{X: 300, Y: 400, Angle: 2.5, Name: "Bob"})
	p, _ := w.Player("c1")
	if p.X != 300 || p.Y != 400 || p.Angle != 2.5 || p.Name != "Bob" {
		t.Errorf("unexpected player after move: %+v", p)
	}

	// Empty name keeps the current one; coordinates are clamped
	w.ApplyMove("c1", Move{X: -500, Y: 99999})
	p, _ = w.Player("c1")
	if p.Name != "Bob" {
		t.Errorf("empty name should keep Bob, got %q", p.Name)
	}
	if p.X != WorldMinX || p.Y != WorldMaxY {
		t.Errorf("expected clamp to (%f, %f), got (%f, %f)", WorldMinX, WorldMaxY, p.X, p.Y)
	}
}

func TestWorldSnapshotsAreCopies(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	w.Register("c1")
	w.SpawnPickup()

	players := w.SnapshotPlayers()
	players[0].Score = 99
	pickups := w.SnapshotPickups()
	pickups[0].X = -1

	if p, _ := w.Player("c1"); p.Score != 0 {
		t.Error("mutating a player snapshot leaked into the world")
	}
	if w.SnapshotPickups()[0].X == -1 {
		t.Error("mutating a pickup snapshot leaked into the world")
	}
}

func TestWorldSnapshotPlayersJoinOrder(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	for i := 0; i < 20; i++ {
		w.Register(fmt.Sprintf("c%02d", 19-i))
	}
	players := w.SnapshotPlayers()
	for i, p := range players {
		if want := fmt.Sprintf("c%02d", 19-i); p.ID != want {
			t.Fatalf("position %d: got %s, want %s", i, p.ID, want)
		}
	}
}

func TestSpawnPickupCapacity(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	for i := 0; i < PickupCapacity; i++ {
		if _, ok := w.SpawnPickup(); !ok {
			t.Fatalf("spawn %d should succeed", i+1)
		}
	}
	for i := 0; i < 10; i++ {
		if _, ok := w.SpawnPickup(); ok {
			t.Fatal("spawn beyond capacity should be a no-op")
		}
	}
	if n := w.PickupCount(); n != PickupCapacity {
		t.Errorf("expected %d pickups, got %d", PickupCapacity, n)
	}
}

func TestRemovePickups(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	setPickups(w,
		Pickup{X: 0, Y: 0},
		Pickup{X: 1, Y: 1},
		Pickup{X: 2, Y: 2},
		Pickup{X: 3, Y: 3},
		Pickup{X: 4, Y: 4},
	)

	// Removing 1 must not shift what 3 refers to
	n := w.RemovePickups(map[int]struct{}{1: {}, 3: {}, 9: {}})
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}
	want := []Pickup{{X: 0, Y: 0}, {X: 2, Y: 2}, {X: 4, Y: 4}}
	if got := w.SnapshotPickups(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if n := w.RemovePickups(nil); n != 0 {
		t.Errorf("empty set should remove nothing, got %d", n)
	}
}

func TestWorldConcurrentAccess(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	const conns = 8
	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		id := fmt.Sprintf("c%d", i)
		w.Register(id)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				w.ApplyMove(id, Move{X: float64(100 + j), Y: 100, Name: id})
				w.ApplyAttack(AttackEvent{AttackerID: id, X: 100, Y: 100, Kind: AttackSpecial})
				w.SnapshotPlayers()
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			w.SpawnPickup()
			if n := len(w.SnapshotPickups()); n > PickupCapacity {
				t.Errorf("pickup count %d exceeds capacity", n)
				return
			}
		}
	}()
	wg.Wait()

	if w.PlayerCount() != conns {
		t.Errorf("expected %d players, got %d", conns, w.PlayerCount())
	}
}
