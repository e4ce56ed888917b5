package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestJournalFlushesOnStop(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db, testLogger())

	j.Track(EvtConnect, "c1", "")
	j.Track(EvtConnect, "c2", "")
	j.Track(EvtKill, "c1", "c2")
	j.Stop()

	counts, err := db.EventCounts(1)
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtConnect] != 2 || counts[EvtKill] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	rows, err := db.RecentEvents(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Type != EvtKill || rows[0].ConnID != "c1" || rows[0].Detail != "c2" {
		t.Errorf("newest row = %+v", rows[0])
	}
}

func TestJournalBatchFlush(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db, testLogger())
	for i := 0; i < journalBatchSize*2+3; i++ {
		j.Track(EvtSpawn, "", "1,1")
	}
	j.Stop()

	counts, err := j.EventCounts(1)
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtSpawn] != journalBatchSize*2+3 {
		t.Errorf("expected %d spawn events, got %d", journalBatchSize*2+3, counts[EvtSpawn])
	}
}

func TestNilJournalIsSafe(t *testing.T) {
	var j *Journal
	j.Track(EvtConnect, "c1", "")
	counts, err := j.EventCounts(1)
	if err != nil || counts != nil {
		t.Errorf("nil journal should report nothing, got %v %v", counts, err)
	}
	j.Stop()
}

func TestGameWritesJournal(t *testing.T) {
	db := openTestDB(t)
	j := NewJournal(db, testLogger())
	world := NewWorld(newRand(1, 2))
	hub := NewHub(world, testLogger(), 5, 100)
	g := NewGame(world, hub, j, testLogger())

	connectAt(t, g, "A", 100, 100)
	connectAt(t, g, "B", 120, 120)
	g.InitName("A", "Alice")
	g.Attack("A", AttackMsg{Attack: &AttackPoint{X: 100, Y: 100}, Type: "B"})
	g.Disconnect("B")
	j.Stop()

	counts, err := db.EventCounts(1)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{EvtConnect: 2, EvtRename: 1, EvtKill: 1, EvtSpecialUsed: 1, EvtDisconnect: 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s: got %d, want %d (all %v)", k, counts[k], v, counts)
		}
	}
}
