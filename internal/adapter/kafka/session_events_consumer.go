package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/port"
	"github.com/niksmo/web-larek/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

type ConsumerOpt func(*consumerOpts) error

func ConsumerClientOpt(
	seedBrokers []string, topic, group string,
) ConsumerOpt {
	return func(co *consumerOpts) error {
		cl, err := kgo.NewClient(
			kgo.SeedBrokers(seedBrokers...),
			kgo.ConsumeTopics(topic),
			kgo.ConsumerGroup(group),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			return err
		}
		co.cl = cl
		return nil
	}
}

func ConsumerDecoderOpt(decoder Decoder) ConsumerOpt {
	return func(co *consumerOpts) error {
		if decoder == nil {
			return errors.New("decoder is nil")
		}
		co.decoder = decoder
		return nil
	}
}

func ConsumerSaverOpt(saver port.SessionEventsSaver) ConsumerOpt {
	return func(co *consumerOpts) error {
		if saver == nil {
			return errors.New("events saver is nil")
		}
		co.saver = saver
		return nil
	}
}

type consumerOpts struct {
	cl      ConsumerClient
	decoder Decoder
	saver   port.SessionEventsSaver
}

func (co *consumerOpts) apply(opts ...ConsumerOpt) error {
	for _, opt := range opts {
		if err := opt(co); err != nil {
			return err
		}
	}
	return nil
}

// A consumer is used for composition.
//
// Fetching records from kafka broker and closing underlying [kgo.Client].
type consumerParent interface {
	processFetches(context.Context, kgo.Fetches) error
}

type consumer struct {
	opPrefix      string
	parent        consumerParent
	cl            ConsumerClient
	slowDownTimer *time.Timer
}

func (c consumer) run(ctx context.Context) {
	const op = "run"
	log := slog.With("op", makeOp(c.opPrefix, op))

	log.Info("running")

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					continue
				}
				log.Error("failed to consume", "err", err)
				c.slowDown()
			}
		}
	}
}

func (c consumer) consume(ctx context.Context) error {
	const op = "consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	if fetches.Empty() {
		return nil
	}

	err = c.parent.processFetches(ctx, fetches)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.commit(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) pollFetches(ctx context.Context) (kgo.Fetches, error) {
	const op = "pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	err := c.handleFetchesErrs(fetches)
	if err != nil {
		return nil, opErr(err, c.opPrefix, op)
	}

	return fetches, nil
}

func (c consumer) handleFetchesErrs(fetches kgo.Fetches) error {
	var errsMessages []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errMsg := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsMessages = append(errsMessages, errMsg)
		}
	})

	if len(errsMessages) != 0 {
		return errors.New(strings.Join(errsMessages, "; "))
	}
	return nil
}

func (c consumer) slowDown() {
	c.slowDownTimer.Reset(1 * time.Second)
	<-c.slowDownTimer.C
}

func (c consumer) commit(ctx context.Context) error {
	const op = "commit"

	err := ctx.Err()
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}

func (c consumer) close() {
	const op = "close"
	log := slog.With("op", makeOp(c.opPrefix, op))

	c.slowDownTimer.Stop()

	log.Info("closing consumer...")
	c.cl.Close()
	log.Info("consumer is closed")
}

// A SessionEventsConsumer reads captured session events from the
// broker and hands them to the saver for persistence.
type SessionEventsConsumer struct {
	opPrefix string
	consumer consumer
	saver    port.SessionEventsSaver
	decoder  Decoder
}

func NewSessionEventsConsumer(
	opts ...ConsumerOpt,
) (*SessionEventsConsumer, error) {
	const op = "NewSessionEventsConsumer"

	if len(opts) != 3 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options consumerOpts
	if err := options.apply(opts...); err != nil {
		return nil, opErr(err, op)
	}

	opPrefix := "SessionEventsConsumer"
	c := &SessionEventsConsumer{
		opPrefix: opPrefix,
		saver:    options.saver,
		decoder:  options.decoder,
	}
	c.consumer = consumer{
		opPrefix:      opPrefix,
		parent:        c,
		cl:            options.cl,
		slowDownTimer: time.NewTimer(0),
	}

	return c, nil
}

// Run consumes until ctx is done. Blocks the calling goroutine.
func (c *SessionEventsConsumer) Run(ctx context.Context) {
	c.consumer.run(ctx)
}

func (c *SessionEventsConsumer) Close() {
	c.consumer.close()
}

func (c *SessionEventsConsumer) processFetches(
	ctx context.Context, fetches kgo.Fetches,
) error {
	const op = "processFetches"

	var evts []domain.SessionEvent
	var decodeErr error
	fetches.EachRecord(func(r *kgo.Record) {
		if decodeErr != nil {
			return
		}
		var s schema.SessionEventV1
		if err := c.decoder.Decode(r.Value, &s); err != nil {
			decodeErr = err
			return
		}
		evts = append(evts, sessionEventToDomain(s))
	})
	if decodeErr != nil {
		return opErr(decodeErr, c.opPrefix, op)
	}

	if len(evts) == 0 {
		return nil
	}

	if err := c.saver.SaveEvents(ctx, evts); err != nil {
		return opErr(err, c.opPrefix, op)
	}
	return nil
}
