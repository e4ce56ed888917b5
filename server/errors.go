package main

import "errors"

// Errors returned while dispatching inbound events. None of them is fatal:
// the offending event is dropped and the connection keeps running.
var (
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrUnknownEvent      = errors.New("unknown event")
	ErrUnknownAttackType = errors.New("unknown attack type")
	ErrUnknownCodec      = errors.New("unknown codec")
)
