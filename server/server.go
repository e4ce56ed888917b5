package main

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize          = 256
	maxRecentEvents = 100
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// StatsResponse is served at /api/stats
type StatsResponse struct {
	Connections int            `json:"connections"`
	Players     int            `json:"players"`
	Pickups     int            `json:"pickups"`
	Events      map[string]int `json:"events,omitempty"`
	Recent      []EventRow     `json:"recent,omitempty"`
}

// Server holds everything the HTTP handlers need
type Server struct {
	cfg     Config
	world   *World
	hub     *Hub
	game    *Game
	journal *Journal
	log     *slog.Logger
}

// SetupRoutes configures HTTP routes
func SetupRoutes(s *Server) *http.ServeMux {
	mux := http.NewServeMux()

	// Serve static files with no-cache so browsers always revalidate
	fs := http.FileServer(http.Dir(s.cfg.ClientDir))
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fs.ServeHTTP(w, r)
	}))

	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/qr.png", s.handleQR)
	mux.HandleFunc("/api/stats", s.handleStats)

	return mux
}

// handleWS upgrades the request and starts the client's pumps
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	codec, err := ParseCodec(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ip := extractIP(r)
	if !s.hub.CanAccept(ip) {
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade error", slog.String("error", err.Error()))
		return
	}

	s.hub.TrackConnect(ip)

	client := NewClient(s.game, s.hub, conn, codec, uuid.NewString(), ip, s.log)
	s.game.Connect(client)

	go client.WritePump()
	go client.ReadPump()
}

// handleQR renders the join URL as a QR code
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	target := s.cfg.PublicURL
	if target == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		target = scheme + "://" + r.Host + "/"
	}
	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error("qr encode error", slog.String("error", err.Error()))
		http.Error(w, "qr encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// handleStats reports live counts and, with a journal, event totals for the
// last ?days= days plus the newest ?recent= events
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	days := 1
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = n
	}
	recent := 0
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRecentEvents {
			http.Error(w, "recent must be between 1 and 100", http.StatusBadRequest)
			return
		}
		recent = n
	}

	resp := StatsResponse{
		Connections: s.hub.PeerCount(),
		Players:     s.world.PlayerCount(),
		Pickups:     s.world.PickupCount(),
	}
	counts, err := s.journal.EventCounts(days)
	if err != nil {
		s.log.Error("stats query error", slog.String("error", err.Error()))
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	resp.Events = counts

	if recent > 0 {
		rows, err := s.journal.RecentEvents(recent)
		if err != nil {
			s.log.Error("recent events query error", slog.String("error", err.Error()))
			http.Error(w, "stats unavailable", http.StatusInternalServerError)
			return
		}
		resp.Recent = rows
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
