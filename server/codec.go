package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Frame is one outbound message. Its payload must not be mutated after
// NewFrame; the encoded bytes are computed at most once per codec and shared
// by every client the frame is fanned out to.
type Frame struct {
	Event string
	Data  interface{}

	jsonOnce sync.Once
	jsonBuf  []byte
	jsonErr  error

	packOnce sync.Once
	packBuf  []byte
	packErr  error
}

// NewFrame creates a frame for the given event
func NewFrame(event string, data interface{}) *Frame {
	return &Frame{Event: event, Data: data}
}

// JSON returns the frame encoded as a JSON envelope
func (f *Frame) JSON() ([]byte, error) {
	f.jsonOnce.Do(func() {
		f.jsonBuf, f.jsonErr = json.Marshal(Envelope{T: f.Event, Data: f.Data})
	})
	return f.jsonBuf, f.jsonErr
}

// MsgPack returns the frame encoded as a msgpack envelope
func (f *Frame) MsgPack() ([]byte, error) {
	f.packOnce.Do(func() {
		f.packBuf, f.packErr = marshalMsgPack(Envelope{T: f.Event, Data: f.Data})
	})
	return f.packBuf, f.packErr
}

// Codec encodes outbound frames for one client
type Codec interface {
	Name() string
	MessageType() int
	Encode(f *Frame) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string                    { return "json" }
func (jsonCodec) MessageType() int                { return websocket.TextMessage }
func (jsonCodec) Encode(f *Frame) ([]byte, error) { return f.JSON() }

type msgpackCodec struct{}

func (msgpackCodec) Name() string                    { return "msgpack" }
func (msgpackCodec) MessageType() int                { return websocket.BinaryMessage }
func (msgpackCodec) Encode(f *Frame) ([]byte, error) { return f.MsgPack() }

// ParseCodec picks the outbound codec requested by a client; empty means JSON
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		return msgpackCodec{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Inbound is a decoded message envelope whose payload is bound lazily
type Inbound struct {
	Event   string
	payload []byte
	decode  func([]byte, interface{}) error
}

// Bind decodes the payload into v
func (in Inbound) Bind(v interface{}) error {
	if len(in.payload) == 0 {
		return fmt.Errorf("%w: missing payload", ErrMalformedPayload)
	}
	if err := in.decode(in.payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

type packEnvelope struct {
	T string             `json:"t" msgpack:"t"`
	D msgpack.RawMessage `json:"d" msgpack:"d"`
}

// DecodeInbound decodes a frame read from a websocket. Text frames carry
// JSON, binary frames carry msgpack, whatever codec the client reads with.
func DecodeInbound(msgType int, raw []byte) (Inbound, error) {
	switch msgType {
	case websocket.TextMessage:
		var env InEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Inbound{Event: env.T, payload: env.D, decode: json.Unmarshal}, nil
	case websocket.BinaryMessage:
		var env packEnvelope
		if err := unmarshalMsgPack(raw, &env); err != nil {
			return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Inbound{Event: env.T, payload: env.D, decode: unmarshalMsgPack}, nil
	}
	return Inbound{}, fmt.Errorf("%w: unsupported frame type %d", ErrMalformedPayload, msgType)
}

// marshalMsgPack encodes v keyed by its json tags, so both codecs share
// one set of field names
func marshalMsgPack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unmarshalMsgPack is the decoding counterpart of marshalMsgPack
func unmarshalMsgPack(data []byte, v interface{}) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
