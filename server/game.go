package main

import (
	"fmt"
	"log/slog"
	"strconv"
)

// Game routes inbound events to the world and decides what to broadcast.
// Events from one connection are handled on that connection's read
// goroutine, so they apply in arrival order.
type Game struct {
	world   *World
	hub     *Hub
	journal *Journal
	log     *slog.Logger
}

// NewGame wires the world, hub and journal together. journal may be nil.
func NewGame(world *World, hub *Hub, journal *Journal, logger *slog.Logger) *Game {
	return &Game{
		world:   world,
		hub:     hub,
		journal: journal,
		log:     logger,
	}
}

// Connect registers a player for the peer and sends it the initial state
func (g *Game) Connect(p Peer) Player {
	id := p.ID()
	player, replaced := g.world.Register(id)
	if replaced {
		g.log.Warn("connection id registered twice, overwriting player", slog.String("conn", id))
	}
	g.journal.Track(EvtConnect, id, "")
	g.hub.Attach(p)
	g.log.Info("connect", slog.String("conn", id),
		slog.Float64("x", player.X), slog.Float64("y", player.Y))
	return player
}

// Dispatch decodes and applies one inbound event for connection id
func (g *Game) Dispatch(id string, in Inbound) error {
	switch in.Event {
	case MsgMoveCharacter:
		var msg MoveMsg
		if err := in.Bind(&msg); err != nil {
			return fmt.Errorf("%s: %w", in.Event, err)
		}
		return g.Move(id, msg)
	case MsgAttack:
		var msg AttackMsg
		if err := in.Bind(&msg); err != nil {
			return fmt.Errorf("%s: %w", in.Event, err)
		}
		return g.Attack(id, msg)
	case MsgInitName:
		var name string
		if err := in.Bind(&name); err != nil {
			return fmt.Errorf("%s: %w", in.Event, err)
		}
		return g.InitName(id, name)
	}
	return fmt.Errorf("%w: %q", ErrUnknownEvent, in.Event)
}

// Move applies a position update from connection id
func (g *Game) Move(id string, msg MoveMsg) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	g.checkClaimedID(id, msg.ID)
	ok := g.world.ApplyMove(id, Move{
		X:     msg.Pos.X,
		Y:     msg.Pos.Y,
		Angle: msg.Pos.Angle,
		Name:  sanitizeName(msg.Pos.Name),
	})
	if !ok {
		g.log.Debug("move from unknown connection", slog.String("conn", id))
		return nil
	}
	g.hub.BroadcastPlayers()
	return nil
}

// Attack resolves an attack by connection id and notifies whoever it touched
func (g *Game) Attack(id string, msg AttackMsg) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	kind, err := ParseAttackKind(msg.Type)
	if err != nil {
		return err
	}
	g.checkClaimedID(id, msg.ID)

	res := g.world.ApplyAttack(AttackEvent{
		AttackerID: id,
		X:          msg.Attack.X,
		Y:          msg.Attack.Y,
		Kind:       kind,
	})

	for _, victim := range res.Killed {
		g.hub.Unicast(victim, MsgCharacterDied, "")
		g.journal.Track(EvtKill, id, victim)
	}
	if res.AttackerKnown {
		g.log.Info("attack", slog.String("conn", id), slog.String("type", kind.String()),
			slog.Int("kills", len(res.Killed)), slog.Int("score", res.AttackerScore))
	} else {
		g.log.Debug("attack from unknown connection", slog.String("conn", id))
	}

	if res.PickupsChanged() {
		g.hub.Unicast(id, MsgGotSpecial, "")
		g.journal.Track(EvtPickup, id, strconv.Itoa(len(res.StruckPickups)))
		g.log.Info("got special", slog.String("conn", id), slog.Int("pickups", len(res.StruckPickups)))
		g.hub.BroadcastWorldState()
	}
	if kind == AttackSpecial {
		g.journal.Track(EvtSpecialUsed, id, "")
	}
	return nil
}

// InitName sets the display name of connection id and refreshes the leaderboard
func (g *Game) InitName(id, name string) error {
	name = sanitizeName(name)
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrMalformedPayload)
	}
	if !g.world.SetName(id, name) {
		g.log.Debug("init_name from unknown connection", slog.String("conn", id))
		return nil
	}
	g.journal.Track(EvtRename, id, name)
	g.log.Info("init_name", slog.String("conn", id), slog.String("name", name))
	g.hub.BroadcastWorldState()
	g.hub.BroadcastLeaderboard()
	return nil
}

// Disconnect drops the connection's player. Repeated calls are no-ops.
func (g *Game) Disconnect(id string) {
	g.hub.Detach(id)
	if !g.world.Unregister(id) {
		g.log.Debug("disconnect of unknown connection", slog.String("conn", id))
		return
	}
	g.journal.Track(EvtDisconnect, id, "")
	g.log.Info("disconnect", slog.String("conn", id))
	g.hub.BroadcastWorldState()
	g.hub.BroadcastLeaderboard()
}

// checkClaimedID logs when a client names someone else in its payload.
// The connection's own id is always the one acted on.
func (g *Game) checkClaimedID(id, claimed string) {
	if claimed != "" && claimed != id {
		g.log.Debug("payload id does not match connection",
			slog.String("conn", id), slog.String("claimed", claimed))
	}
}
