package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server settings. Flags override environment variables,
// which override built-in defaults.
type Config struct {
	Addr          string
	ClientDir     string
	DBPath        string
	PublicURL     string
	SpawnPeriod   time.Duration
	LogLevel      slog.Level
	MaxConnsPerIP int
	MaxConns      int
}

// LoadConfig reads an optional .env file, the environment and args
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return parseConfig(args, os.Getenv)
}

func parseConfig(args []string, getenv func(string) string) (Config, error) {
	var cfg Config

	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	spawnDefault, err := time.ParseDuration(env("ARENA_SPAWN_PERIOD", DefaultSpawnPeriod.String()))
	if err != nil {
		return Config{}, fmt.Errorf("ARENA_SPAWN_PERIOD: %w", err)
	}
	perIPDefault, err := strconv.Atoi(env("ARENA_MAX_CONNS_PER_IP", "5"))
	if err != nil {
		return Config{}, fmt.Errorf("ARENA_MAX_CONNS_PER_IP: %w", err)
	}
	totalDefault, err := strconv.Atoi(env("ARENA_MAX_CONNS", "1000"))
	if err != nil {
		return Config{}, fmt.Errorf("ARENA_MAX_CONNS: %w", err)
	}

	flags := flag.NewFlagSet("turtle-arena", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&cfg.Addr, "addr", env("ARENA_ADDR", ":8080"), "HTTP listen address")
	flags.StringVar(&cfg.ClientDir, "client", env("ARENA_CLIENT_DIR", "./public"), "Path to static client directory")
	flags.StringVar(&cfg.DBPath, "db", env("ARENA_DB", ""), "SQLite event journal path (empty disables)")
	flags.StringVar(&cfg.PublicURL, "public-url", env("ARENA_PUBLIC_URL", ""), "Join URL encoded in /qr.png")
	flags.DurationVar(&cfg.SpawnPeriod, "spawn-period", spawnDefault, "Pickup spawn period")
	flags.IntVar(&cfg.MaxConnsPerIP, "max-conns-per-ip", perIPDefault, "Connection cap per remote IP")
	flags.IntVar(&cfg.MaxConns, "max-conns", totalDefault, "Total connection cap")
	logLevel := flags.String("log-level", env("ARENA_LOG_LEVEL", "info"), "debug|info|warn|error")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
		return Config{}, fmt.Errorf("log level: %w", err)
	}
	if cfg.SpawnPeriod <= 0 {
		return Config{}, fmt.Errorf("spawn period must be positive, got %s", cfg.SpawnPeriod)
	}
	if cfg.MaxConnsPerIP < 1 || cfg.MaxConns < 1 {
		return Config{}, fmt.Errorf("connection caps must be at least 1")
	}
	return cfg, nil
}

// NewLogger builds the JSON logger used across the server
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
