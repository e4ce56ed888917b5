package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 100
)

// Client represents a WebSocket connection
type Client struct {
	game       *Game
	hub        *Hub
	conn       *websocket.Conn
	codec      Codec
	log        *slog.Logger
	send       chan *Frame
	closeOnce  sync.Once
	id         string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(game *Game, hub *Hub, conn *websocket.Conn, codec Codec, id, remoteAddr string, logger *slog.Logger) *Client {
	return &Client{
		game:       game,
		hub:        hub,
		conn:       conn,
		codec:      codec,
		log:        logger.With(slog.String("conn", id)),
		send:       make(chan *Frame, sendBufSize),
		id:         id,
		remoteAddr: remoteAddr,
	}
}

// ID returns the opaque connection identifier
func (c *Client) ID() string {
	return c.id
}

// Deliver queues a frame for the writer; a full buffer drops it
func (c *Client) Deliver(f *Frame) bool {
	select {
	case c.send <- f:
		return true
	default:
		return false
	}
}

// Close stops WritePump after it drains what is queued
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.game.Disconnect(c.id)
		c.hub.TrackDisconnect(c.remoteAddr)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("ws error", slog.String("error", err.Error()))
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.log.Warn("rate limit exceeded, disconnecting", slog.String("addr", c.remoteAddr))
			break
		}

		c.handleMessage(msgType, message)
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := c.codec.Encode(frame)
			if err != nil {
				c.log.Error("encode error", slog.String("event", frame.Event), slog.String("error", err.Error()))
				continue
			}
			if err := c.conn.WriteMessage(c.codec.MessageType(), data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage decodes one frame and hands it to the game. A bad event is
// logged and dropped; the connection stays up.
func (c *Client) handleMessage(msgType int, raw []byte) {
	in, err := DecodeInbound(msgType, raw)
	if err != nil {
		c.log.Warn("rejected message", slog.String("error", err.Error()))
		return
	}
	if err := c.game.Dispatch(c.id, in); err != nil {
		c.log.Warn("rejected event", slog.String("event", in.Event), slog.String("error", err.Error()))
	}
}
