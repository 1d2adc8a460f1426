package domain

import (
	"errors"
	"time"
)

// ErrProductNotFound is the catalog source's not-found indicator.
var ErrProductNotFound = errors.New("product not found")

// A SessionEvent is one bus event captured for the telemetry
// pipeline: event name, capture time and the JSON-encoded payload.
type SessionEvent struct {
	Name    string
	At      time.Time
	Payload []byte
}
