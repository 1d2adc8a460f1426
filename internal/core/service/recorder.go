package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/pkg/bus"
)

const recorderBuffer = 256

// A Recorder taps the bus wildcard subscription and ships every
// published event to the session-events producer. Capture is
// non-blocking: events are handed to a background runner so broker
// latency never stalls bus dispatch; on overflow the event is
// dropped with a warning.
type Recorder struct {
	bus      *bus.Bus
	producer port.SessionEventProducer
	stream   chan domain.SessionEvent
	sub      bus.Subscription
}

func NewRecorder(b *bus.Bus, producer port.SessionEventProducer) *Recorder {
	return &Recorder{
		bus:      b,
		producer: producer,
		stream:   make(chan domain.SessionEvent, recorderBuffer),
	}
}

// Attach starts capturing bus events.
func (r *Recorder) Attach() {
	r.sub = r.bus.SubscribeAll(r.capture)
}

// Run forwards captured events until ctx is done.
// Blocks the calling goroutine.
func (r *Recorder) Run(ctx context.Context) {
	const op = "Recorder.Run"
	log := slog.With("op", op)

	log.Info("running")
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-r.stream:
			err := r.producer.ProduceEvents(ctx, []domain.SessionEvent{evt})
			if err != nil {
				log.Error("failed to produce session event",
					"event", evt.Name, "err", err,
				)
			}
		}
	}
}

func (r *Recorder) Close() {
	r.bus.Unsubscribe(r.sub)
	r.producer.Close()
}

func (r *Recorder) capture(name string, payload any) {
	const op = "Recorder.capture"

	data, err := json.Marshal(payload)
	if err != nil {
		data = fmt.Appendf(nil, "%q", fmt.Sprintf("%v", payload))
	}

	evt := domain.SessionEvent{Name: name, At: time.Now(), Payload: data}
	select {
	case r.stream <- evt:
	default:
		slog.Warn("session event buffer full, event dropped",
			"op", op, "event", name,
		)
	}
}
