package main

import (
	"log/slog"
	"sync"
	"time"
)

// Event types recorded in the journal
const (
	EvtConnect     = "connect"
	EvtDisconnect  = "disconnect"
	EvtRename      = "rename"
	EvtKill        = "kill"
	EvtPickup      = "pickup"
	EvtSpecialUsed = "special_used"
	EvtSpawn       = "spawn"
)

const (
	journalBufSize    = 1024
	journalBatchSize  = 50
	journalFlushEvery = 5 * time.Second
)

// JournalEvent is a single gameplay event
type JournalEvent struct {
	Type      string
	ConnID    string
	Detail    string
	Timestamp time.Time
}

// Journal records gameplay events to SQLite with batched background writes.
// It is an audit trail only; world state is never restored from it.
// A nil *Journal accepts and discards everything.
type Journal struct {
	db     *DB
	log    *slog.Logger
	events chan JournalEvent
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewJournal creates and starts the background writer
func NewJournal(db *DB, logger *slog.Logger) *Journal {
	j := &Journal{
		db:     db,
		log:    logger,
		events: make(chan JournalEvent, journalBufSize),
		stop:   make(chan struct{}),
	}
	j.wg.Add(1)
	go j.writer()
	return j
}

// Track enqueues an event for async persistence (non-blocking)
func (j *Journal) Track(evtType, connID, detail string) {
	if j == nil {
		return
	}
	select {
	case j.events <- JournalEvent{
		Type:      evtType,
		ConnID:    connID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	}:
	default:
		// Channel full, drop the event
	}
}

// EventCounts returns per-type counts for the last N days
func (j *Journal) EventCounts(days int) (map[string]int, error) {
	if j == nil {
		return nil, nil
	}
	return j.db.EventCounts(days)
}

// RecentEvents returns up to limit persisted events, newest first
func (j *Journal) RecentEvents(limit int) ([]EventRow, error) {
	if j == nil {
		return nil, nil
	}
	return j.db.RecentEvents(limit)
}

// Stop flushes pending events and shuts down the writer
func (j *Journal) Stop() {
	if j == nil {
		return
	}
	close(j.stop)
	j.wg.Wait()
}

// writer is the background goroutine that batches and writes events to DB
func (j *Journal) writer() {
	defer j.wg.Done()

	batch := make([]JournalEvent, 0, journalBatchSize)
	ticker := time.NewTicker(journalFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-j.events:
			batch = append(batch, evt)
			if len(batch) >= journalBatchSize {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				j.flush(batch)
				batch = batch[:0]
			}
		case <-j.stop:
			// Drain whatever is still buffered
			for {
				select {
				case evt := <-j.events:
					batch = append(batch, evt)
				default:
					j.flush(batch)
					return
				}
			}
		}
	}
}

func (j *Journal) flush(events []JournalEvent) {
	if len(events) == 0 {
		return
	}
	if err := j.db.InsertEvents(events); err != nil {
		j.log.Error("journal flush failed", slog.Int("events", len(events)), slog.String("error", err.Error()))
	}
}
