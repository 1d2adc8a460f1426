package state_test

import (
	"testing"

	"github.com/niksmo/web-larek/internal/core/domain"
	"github.com/niksmo/web-larek/internal/core/event"
	"github.com/niksmo/web-larek/internal/core/state"
	"github.com/niksmo/web-larek/pkg/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "a", Title: "Hammer", Price: intPtr(100)},
		{ID: "b", Title: "Sticker", Price: nil},
		{ID: "c", Title: "Mug", Price: intPtr(250)},
	}
}

func TestStore(t *testing.T) {
	t.Run("OneEventPerUpdate", func(t *testing.T) {
		b := bus.New()
		store := state.NewStore(b, domain.AppState{})

		var events int
		b.Subscribe("state:changed", func(any) { events++ })

		store.Update("state:changed", func(s *domain.AppState) {
			s.Preview = "a"
			s.Basket = append(s.Basket, "a")
		})

		assert.Equal(t, 1, events)
	})

	t.Run("PublishesFullRecord", func(t *testing.T) {
		b := bus.New()
		store := state.NewStore(b, domain.AppState{Preview: "a"})

		var got domain.AppState
		b.Subscribe("state:changed", func(p any) {
			got = p.(domain.AppState)
		})

		store.Update("state:changed", func(s *domain.AppState) {
			s.Basket = append(s.Basket, "b")
		})

		assert.Equal(t, "a", got.Preview, "unchanged fields present")
		assert.Equal(t, []string{"b"}, got.Basket)
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		b := bus.New()
		store := state.NewStore(b, domain.AppState{Basket: []string{"a"}})

		before := store.Snapshot()
		store.Update("state:changed", func(s *domain.AppState) {
			s.Basket[0] = "mutated"
		})

		assert.Equal(t, []string{"a"}, before.Basket)
		assert.Equal(t, []string{"mutated"}, store.Snapshot().Basket)
	})

	t.Run("PayloadNotAliased", func(t *testing.T) {
		b := bus.New()
		store := state.NewStore(b, domain.AppState{})

		var got domain.AppState
		b.Subscribe("state:changed", func(p any) {
			got = p.(domain.AppState)
		})

		store.Update("state:changed", func(s *domain.AppState) {
			s.Basket = []string{"a"}
		})
		got.Basket[0] = "mutated"

		assert.Equal(t, []string{"a"}, store.Snapshot().Basket)
	})
}

func TestCatalog(t *testing.T) {
	newCatalog := func() (state.Catalog, *bus.Bus) {
		b := bus.New()
		store := state.NewStore(b, domain.AppState{})
		return state.NewCatalog(store), b
	}

	t.Run("SetProducts", func(t *testing.T) {
		catalog, b := newCatalog()

		var got domain.AppState
		b.Subscribe(event.ProductsLoaded, func(p any) {
			got = p.(domain.AppState)
		})

		catalog.SetProducts(testProducts())

		require.Len(t, got.Catalog, 3)
		assert.Equal(t, "Hammer", got.Catalog[0].Title)
	})

	t.Run("FindByID", func(t *testing.T) {
		catalog, _ := newCatalog()
		catalog.SetProducts(testProducts())

		p, ok := catalog.FindByID("c")
		require.True(t, ok)
		assert.Equal(t, "Mug", p.Title)

		_, ok = catalog.FindByID("nope")
		assert.False(t, ok)
	})

	t.Run("SetPreview", func(t *testing.T) {
		catalog, b := newCatalog()
		catalog.SetProducts(testProducts())

		var events int
		var got domain.AppState
		b.Subscribe(event.PreviewChanged, func(p any) {
			events++
			got = p.(domain.AppState)
		})

		catalog.SetPreview("b")
		require.Equal(t, 1, events)
		assert.Equal(t, "b", got.Preview)

		catalog.SetPreview("")
		require.Equal(t, 2, events)
		assert.Empty(t, got.Preview)
	})

	t.Run("SetPreviewUnknownIDRejected", func(t *testing.T) {
		catalog, b := newCatalog()
		catalog.SetProducts(testProducts())

		var events int
		b.Subscribe(event.PreviewChanged, func(any) { events++ })

		catalog.SetPreview("nope")

		assert.Equal(t, 0, events)
	})
}
