package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
)

type mockFetcher struct {
	mu      sync.Mutex
	items   map[string]*domain.ItemData
	calls   map[string]int
	err     error
	release chan struct{}
}

func newMockFetcher(items map[string]*domain.ItemData) *mockFetcher {
	return &mockFetcher{items: items, calls: make(map[string]int)}
}

func (m *mockFetcher) GetItemData(ctx context.Context, name string) (*domain.ItemData, error) {
	m.mu.Lock()
	m.calls[name]++
	release := m.release
	err := m.err
	data := m.items[name]
	m.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *mockFetcher) callCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func intPtr(n int) *int           { return &n }
func floatPtr(f float64) *float64 { return &f }

func TestLookup_CaseFallback(t *testing.T) {
	c := New(newMockFetcher(nil), Config{})
	c.Load(context.Background(), map[string]domain.ItemData{
		"water":         {Name: "water", Label: "Water"},
		"WEAPON_PISTOL": {Name: "WEAPON_PISTOL", Label: "Pistol"},
	})

	data, ok := c.Lookup("Water")
	require.True(t, ok)
	assert.Equal(t, "Water", data.Label)

	data, ok = c.Lookup("weapon_pistol")
	require.True(t, ok)
	assert.Equal(t, "Pistol", data.Label)

	_, ok = c.Get("Water")
	assert.False(t, ok, "Get is exact")
}

func TestResolve_SynthesizesAndBackfills(t *testing.T) {
	f := newMockFetcher(map[string]*domain.ItemData{
		"cloth": {Name: "cloth", Label: "Cloth", Stack: true},
	})
	c := New(f, Config{})
	defer c.Close()

	slot := domain.NewItemSlot(4, "cloth", 3, 30, domain.Metadata{domain.MetaLabel: "Rag"})

	data := c.Resolve(context.Background(), slot)
	assert.Equal(t, "cloth", data.Name)
	assert.Equal(t, "Rag", data.Label)
	assert.True(t, data.Stack, "count above one implies stackable")
	assert.Equal(t, 3, data.Count)

	c.Wait()

	data, ok := c.Get("cloth")
	require.True(t, ok)
	assert.Equal(t, "Cloth", data.Label)
	assert.Equal(t, 1, f.callCount("cloth"))
}

func TestResolve_DeduplicatesInflight(t *testing.T) {
	f := newMockFetcher(nil)
	f.release = make(chan struct{})
	c := New(f, Config{})
	defer c.Close()

	slot := domain.NewItemSlot(10, "mystery", 1, 1, nil)
	c.Resolve(context.Background(), slot)
	c.Resolve(context.Background(), slot)
	c.Resolve(context.Background(), slot)

	close(f.release)
	c.Wait()

	assert.Equal(t, 1, f.callCount("mystery"))
	_, ok := c.Get("mystery")
	assert.False(t, ok, "nil answer leaves the item unknown")
}

func TestSynthesize(t *testing.T) {
	t.Run("stack flag in metadata wins", func(t *testing.T) {
		s := domain.NewItemSlot(1, "ammo", 50, 5, domain.Metadata{domain.MetaStack: false})
		assert.False(t, Synthesize(s).Stack)
	})

	t.Run("missing count defaults to one", func(t *testing.T) {
		s := domain.Slot{Slot: 1, Name: "note", Weight: floatPtr(1)}
		data := Synthesize(s)
		assert.Equal(t, 1, data.Count)
		assert.False(t, data.Stack)
		assert.Equal(t, "note", data.Label)
	})

	t.Run("description and image carried over", func(t *testing.T) {
		s := domain.Slot{Slot: 2, Name: "id_card", Count: intPtr(1), Weight: floatPtr(1),
			Metadata: domain.Metadata{domain.MetaDescription: "Jane Doe", domain.MetaImage: "card_blue"}}
		data := Synthesize(s)
		assert.Equal(t, "Jane Doe", data.Description)
		assert.Equal(t, "card_blue", data.Image)
	})
}

func TestPut_AddOnly(t *testing.T) {
	c := New(newMockFetcher(nil), Config{})

	assert.True(t, c.Put(domain.ItemData{Name: "water", Label: "Water"}))
	assert.False(t, c.Put(domain.ItemData{Name: "water", Label: "Changed"}))

	data, _ := c.Get("water")
	assert.Equal(t, "Water", data.Label)
}

func TestAddCount(t *testing.T) {
	c := New(newMockFetcher(nil), Config{})
	c.Put(domain.ItemData{Name: "water", Count: 2})

	assert.True(t, c.AddCount(context.Background(), "water", 3))
	assert.False(t, c.AddCount(context.Background(), "bread", 1))

	data, _ := c.Get("water")
	assert.Equal(t, 5, data.Count)
}

func TestPrefetch(t *testing.T) {
	t.Run("fetches unknown names once", func(t *testing.T) {
		f := newMockFetcher(map[string]*domain.ItemData{
			"iron":  {Name: "iron"},
			"steel": {Name: "steel"},
		})
		c := New(f, Config{PrefetchLimit: 2})
		c.Put(domain.ItemData{Name: "water"})

		err := c.Prefetch(context.Background(), []string{"iron", "steel", "iron", "water"})

		require.NoError(t, err)
		assert.Equal(t, 1, f.callCount("iron"))
		assert.Equal(t, 0, f.callCount("water"))
		assert.Equal(t, 3, c.Len())
	})

	t.Run("returns host failure", func(t *testing.T) {
		f := newMockFetcher(nil)
		f.err = errors.New("host unavailable")
		c := New(f, Config{})

		err := c.Prefetch(context.Background(), []string{"iron"})
		assert.Error(t, err)

		// released so a later attempt can retry
		f.mu.Lock()
		f.err = nil
		f.items = map[string]*domain.ItemData{"iron": {Name: "iron"}}
		f.mu.Unlock()
		require.NoError(t, c.Prefetch(context.Background(), []string{"iron"}))
		_, ok := c.Get("iron")
		assert.True(t, ok)
	})
}

func TestReset_DiscardsLateAnswers(t *testing.T) {
	f := newMockFetcher(map[string]*domain.ItemData{"late": {Name: "late"}})
	f.release = make(chan struct{})
	c := New(f, Config{})
	defer c.Close()

	c.Put(domain.ItemData{Name: "water"})
	c.Backfill("late")
	c.Reset(context.Background())

	close(f.release)
	c.Wait()

	assert.Equal(t, 0, c.Len())
}
