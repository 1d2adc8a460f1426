package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.SessionEventProducer = (*SessionEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, rs ...*kgo.Record) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A SessionEventsProducer ships [domain.SessionEvent] records keyed
// by event name, so the stats processor partitions per event.
type SessionEventsProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewSessionEventsProducer(
	opts ...ProducerOpt,
) (SessionEventsProducer, error) {
	const op = "NewSessionEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return SessionEventsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "SessionEventsProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return SessionEventsProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p SessionEventsProducer) Close() {
	p.producer.close()
}

func (p SessionEventsProducer) ProduceEvents(
	ctx context.Context, evts []domain.SessionEvent,
) error {
	const op = "ProduceEvents"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	rs, err := p.createRecords(evts)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, rs...); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p SessionEventsProducer) createRecords(
	evts []domain.SessionEvent,
) (rs []*kgo.Record, err error) {
	const op = "createRecords"

	for _, evt := range evts {
		s := p.toSchema(evt)
		b, err := p.encoder.Encode(s)
		if err != nil {
			return nil, opErr(err, p.opPrefix, op)
		}
		r := &kgo.Record{Key: []byte(s.Name), Value: b}
		rs = append(rs, r)
	}

	return rs, nil
}

func (SessionEventsProducer) toSchema(
	evt domain.SessionEvent,
) (s schema.SessionEventV1) {
	s.Name = evt.Name
	s.At = evt.At.UnixMilli()
	s.Payload = evt.Payload
	return
}

func sessionEventToDomain(s schema.SessionEventV1) domain.SessionEvent {
	return domain.SessionEvent{
		Name:    s.Name,
		At:      time.UnixMilli(s.At),
		Payload: s.Payload,
	}
}
