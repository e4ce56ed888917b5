package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultSpawnPeriod is how often the spawner tops up pickups
const DefaultSpawnPeriod = 10 * time.Second

// Spawner replenishes pickups on a fixed period for the life of the process
type Spawner struct {
	world   *World
	hub     *Hub
	journal *Journal
	log     *slog.Logger
	period  time.Duration
}

// NewSpawner creates a Spawner; a non-positive period uses DefaultSpawnPeriod
func NewSpawner(world *World, hub *Hub, journal *Journal, logger *slog.Logger, period time.Duration) *Spawner {
	if period <= 0 {
		period = DefaultSpawnPeriod
	}
	return &Spawner{
		world:   world,
		hub:     hub,
		journal: journal,
		log:     logger,
		period:  period,
	}
}

// Run ticks once immediately, then every period until ctx is done
func (s *Spawner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.Tick()
	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Tick spawns at most one pickup and broadcasts the pickup list if it did
func (s *Spawner) Tick() bool {
	p, ok := s.world.SpawnPickup()
	if !ok {
		return false
	}
	s.journal.Track(EvtSpawn, "", fmt.Sprintf("%g,%g", p.X, p.Y))
	s.log.Info("pickup spawned", slog.Float64("x", p.X), slog.Float64("y", p.Y))
	s.hub.BroadcastPickups()
	return true
}
