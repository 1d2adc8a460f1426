package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type fakeProducerClient struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducerClient) ProduceSync(
	_ context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	if f.err != nil {
		return kgo.ProduceResults{{Err: f.err}}
	}
	return kgo.ProduceResults{}
}

func (f *fakeProducerClient) Close() {}

type jsonlessEncoder struct{}

func (jsonlessEncoder) Encode(v any) ([]byte, error) {
	s := v.(schema.SessionEventV1)
	return append([]byte("enc:"), s.Payload...), nil
}

func stubClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.cl = cl
		return nil
	}
}

func TestSessionEventsProducer(t *testing.T) {
	t.Run("RecordsKeyedByEventName", func(t *testing.T) {
		cl := &fakeProducerClient{}
		p, err := NewSessionEventsProducer(
			stubClientOpt(cl),
			ProducerEncoderOpt(jsonlessEncoder{}),
		)
		require.NoError(t, err)

		evts := []domain.SessionEvent{
			{Name: "basket:updated", At: time.Now(), Payload: []byte(`{"n":1}`)},
			{Name: "order:placed", At: time.Now(), Payload: []byte(`{"n":2}`)},
		}
		require.NoError(t, p.ProduceEvents(t.Context(), evts))

		require.Len(t, cl.records, 2)
		assert.Equal(t, []byte("basket:updated"), cl.records[0].Key)
		assert.Equal(t, []byte(`enc:{"n":1}`), cl.records[0].Value)
		assert.Equal(t, []byte("order:placed"), cl.records[1].Key)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := &fakeProducerClient{}
		p, err := NewSessionEventsProducer(
			stubClientOpt(cl),
			ProducerEncoderOpt(jsonlessEncoder{}),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		require.Error(t, p.ProduceEvents(
			ctx, []domain.SessionEvent{{Name: "evt"}},
		))
		assert.Empty(t, cl.records)
	})

	t.Run("TooFewOptsPanics", func(t *testing.T) {
		require.Panics(t, func() {
			_, _ = NewSessionEventsProducer(stubClientOpt(&fakeProducerClient{}))
		})
	})
}
