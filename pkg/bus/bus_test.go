package bus_test

import (
	"testing"

	"github.com/niksmo/web-larek/pkg/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	t.Run("DispatchOrder", func(t *testing.T) {
		b := bus.New()

		var got []int
		b.Subscribe("evt", func(any) { got = append(got, 1) })
		b.Subscribe("evt", func(any) { got = append(got, 2) })
		b.Subscribe("evt", func(any) { got = append(got, 3) })

		b.Publish("evt", nil)

		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("PayloadDelivered", func(t *testing.T) {
		b := bus.New()

		var got any
		b.Subscribe("evt", func(p any) { got = p })

		b.Publish("evt", "payload")

		assert.Equal(t, "payload", got)
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		b := bus.New()

		var calls int
		sub := b.Subscribe("evt", func(any) { calls++ })

		b.Publish("evt", nil)
		b.Unsubscribe(sub)
		b.Publish("evt", nil)

		assert.Equal(t, 1, calls)
	})

	t.Run("Wildcard", func(t *testing.T) {
		b := bus.New()

		type seen struct {
			event   string
			payload any
		}
		var got []seen
		b.SubscribeAll(func(event string, payload any) {
			got = append(got, seen{event, payload})
		})

		b.Publish("first", 1)
		b.Publish("second", 2)

		require.Len(t, got, 2)
		assert.Equal(t, seen{"first", 1}, got[0])
		assert.Equal(t, seen{"second", 2}, got[1])
	})

	t.Run("NestedPublishDepthFirst", func(t *testing.T) {
		b := bus.New()

		var got []string
		b.Subscribe("outer", func(any) {
			got = append(got, "outer:begin")
			b.Publish("inner", nil)
			got = append(got, "outer:end")
		})
		b.Subscribe("inner", func(any) {
			got = append(got, "inner")
		})

		b.Publish("outer", nil)

		assert.Equal(t,
			[]string{"outer:begin", "inner", "outer:end"}, got,
		)
	})

	t.Run("SameEventReentrancyBounded", func(t *testing.T) {
		b := bus.New()

		var calls int
		b.Subscribe("loop", func(any) {
			calls++
			b.Publish("loop", nil)
		})

		require.NotPanics(t, func() {
			b.Publish("loop", nil)
		})
		assert.Less(t, calls, 10)
	})

	t.Run("PanicIsolation", func(t *testing.T) {
		b := bus.New()

		var second bool
		b.Subscribe("evt", func(any) { panic("boom") })
		b.Subscribe("evt", func(any) { second = true })

		require.NotPanics(t, func() {
			b.Publish("evt", nil)
		})
		assert.True(t, second)
	})

	t.Run("SubscribeDuringDispatch", func(t *testing.T) {
		b := bus.New()

		var lateCalls int
		b.Subscribe("evt", func(any) {
			b.Subscribe("evt", func(any) { lateCalls++ })
		})

		b.Publish("evt", nil)
		assert.Equal(t, 0, lateCalls, "handler added mid-dispatch runs next publish")

		b.Publish("evt", nil)
		assert.Equal(t, 1, lateCalls)
	})

	t.Run("UnsubscribeWildcard", func(t *testing.T) {
		b := bus.New()

		var calls int
		sub := b.SubscribeAll(func(string, any) { calls++ })

		b.Publish("evt", nil)
		b.Unsubscribe(sub)
		b.Publish("evt", nil)

		assert.Equal(t, 1, calls)
	})
}
