package main

import (
	"encoding/json"
	"fmt"
)

// Client -> Server message types
const (
	MsgMoveCharacter = "move_character"
	MsgAttack        = "attack"
	MsgInitName      = "init_name"
)

// Server -> Client message types
const (
	MsgInitCharacter     = "init_character"
	MsgUpdateCharacters  = "update_characters"
	MsgUpdateSpecials    = "update_specials"
	MsgUpdateLeaderboard = "update_leaderboard"
	MsgGotSpecial        = "got_special"
	MsgCharacterDied     = "character_died"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d"`
}

// InEnvelope is used for incoming JSON messages; D is decoded per event
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PlayerState is the wire descriptor of one player
type PlayerState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Angle    float64 `json:"angle"`
	Score    int     `json:"score"`
	Name     string  `json:"name"`
	SocketID string  `json:"socketId"`
	Special  bool    `json:"special"` // always false; kept for client compatibility
}

// PickupState is the wire descriptor of one pickup
type PickupState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// InitCharacterMsg tells a new connection who it is
type InitCharacterMsg struct {
	ID  string      `json:"id"`
	Pos PlayerState `json:"pos"`
}

// MoveMsg is sent whenever a client moves
type MoveMsg struct {
	ID  string   `json:"id"`
	Pos *MovePos `json:"pos"`
}

// MovePos is the body of a move
type MovePos struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
	Name  string  `json:"name"`
}

// AttackMsg is sent when a client swings
type AttackMsg struct {
	ID     string       `json:"id"`
	Attack *AttackPoint `json:"attack"`
	Type   string       `json:"type"`
}

// AttackPoint is the attack origin in world coordinates
type AttackPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Validate rejects a missing position and non-finite coordinates
func (m MoveMsg) Validate() error {
	if m.Pos == nil {
		return fmt.Errorf("%w: missing position", ErrMalformedPayload)
	}
	if !finite(m.Pos.X, m.Pos.Y, m.Pos.Angle) {
		return fmt.Errorf("%w: non-finite position", ErrMalformedPayload)
	}
	return nil
}

// Validate rejects a missing origin and non-finite coordinates
func (m AttackMsg) Validate() error {
	if m.Attack == nil {
		return fmt.Errorf("%w: missing attack origin", ErrMalformedPayload)
	}
	if !finite(m.Attack.X, m.Attack.Y) {
		return fmt.Errorf("%w: non-finite attack origin", ErrMalformedPayload)
	}
	return nil
}

// playersPayload is the body of update_characters, keyed by connection id
func playersPayload(players []Player) map[string]PlayerState {
	out := make(map[string]PlayerState, len(players))
	for _, p := range players {
		out[p.ID] = p.ToState()
	}
	return out
}

// pickupsPayload is the body of update_specials
func pickupsPayload(pickups []Pickup) []PickupState {
	out := make([]PickupState, 0, len(pickups))
	for _, p := range pickups {
		out = append(out, p.ToState())
	}
	return out
}

// leaderboardPayload is the body of update_leaderboard
func leaderboardPayload(players []Player) []PlayerState {
	ranked := Leaderboard(players)
	out := make([]PlayerState, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, p.ToState())
	}
	return out
}
