package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	logger := NewLogger(os.Stderr, cfg.LogLevel)

	var journal *Journal
	if cfg.DBPath != "" {
		db, err := OpenDB(cfg.DBPath)
		if err != nil {
			logger.Error("open journal", slog.String("path", cfg.DBPath), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
		journal = NewJournal(db, logger)
	}

	world := NewWorld(nil)
	hub := NewHub(world, logger, cfg.MaxConnsPerIP, cfg.MaxConns)
	game := NewGame(world, hub, journal, logger)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spawner := NewSpawner(world, hub, journal, logger, cfg.SpawnPeriod)
	go spawner.Run(ctx)

	mux := SetupRoutes(&Server{
		cfg:     cfg,
		world:   world,
		hub:     hub,
		game:    game,
		journal: journal,
		log:     logger,
	})
	server := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr), slog.String("client", cfg.ClientDir))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ListenAndServe", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
	journal.Stop()
}
