package crafting

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/testing/leaktest"
)

type craftCall struct {
	benchID  domain.InventoryID
	recipeID int
	quantity int
}

type hostStub struct {
	mu       sync.Mutex
	crafts   []craftCall
	handoffs [][]domain.CraftHandoffEntry
	craftErr error
}

func (h *hostStub) CraftFromCraftingInventory(ctx context.Context, benchID domain.InventoryID, recipeID, quantity int) (domain.CraftResult, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.crafts = append(h.crafts, craftCall{benchID, recipeID, quantity})
	if h.craftErr != nil {
		return domain.CraftResult{}, h.craftErr
	}
	return domain.CraftResult{Success: true}, nil
}

func (h *hostStub) StartCraftQueue(ctx context.Context, benchID domain.InventoryID, queue []domain.CraftHandoffEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handoffs = append(h.handoffs, queue)
	return nil
}

func (h *hostStub) craftCalls() []craftCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]craftCall(nil), h.crafts...)
}

type invStub struct {
	bundle domain.Inventories
}

func (s invStub) Inventories() domain.Inventories { return s.bundle }

var benchRecipes = []domain.CraftingRecipe{
	{Name: "ironbar", Label: "Iron Bar", Ingredients: map[string]float64{"metalscrap": 2}, Duration: 4000},
	{Name: "lockpick", Label: "Lockpick", Ingredients: map[string]float64{"metalscrap": 1}},
	{Name: "bandage", Label: "Bandage", Ingredients: map[string]float64{"cloth": 1}, Duration: 2000},
}

func plentiful() invStub {
	return invStub{domain.Inventories{Crafting: storage(
		domain.NewItemSlot(1, "metalscrap", 10, 1, nil),
		domain.NewItemSlot(2, "cloth", 10, 1, nil),
	)}}
}

func newTestQueue(t *testing.T, bus event.Bus, inv InventorySource) (*Queue, *clockwork.FakeClock, *hostStub) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	host := &hostStub{}
	q := NewQueue(clock, host, bus, inv, Config{TickInterval: 16 * time.Millisecond})
	q.SetBench("bench-1", benchRecipes)
	return q, clock, host
}

func waitForJob(t *testing.T, clock *clockwork.FakeClock) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
}

func queueNames(s Status) []string {
	out := make([]string, 0, len(s.Queue))
	for _, e := range s.Queue {
		out = append(out, e.Recipe.Name)
	}
	return out
}

func TestQueue_CancelMiddleKeepsOrderAndProgress(t *testing.T) {
	defer leaktest.Check(t)()

	bus := event.NewMemoryBus()
	var mu sync.Mutex
	var completed []event.CraftCompletedPayload
	bus.Subscribe(event.CraftCompleted, func(ctx context.Context, evt event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		completed = append(completed, evt.Payload.(event.CraftCompletedPayload))
		return nil
	})

	q, clock, host := newTestQueue(t, bus, plentiful())
	defer q.Stop()
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, benchRecipes[0], 1))
	require.NoError(t, q.Enqueue(ctx, benchRecipes[1], 1))
	require.NoError(t, q.Enqueue(ctx, benchRecipes[2], 1))
	waitForJob(t, clock)

	clock.Advance(time.Second)
	assert.InDelta(t, 25.0, q.Progress(), 0.01)

	require.NoError(t, q.Cancel(ctx, 1))
	assert.Equal(t, []string{"ironbar", "bandage"}, queueNames(q.Status()))
	assert.InDelta(t, 25.0, q.Progress(), 0.01)

	clock.Advance(3 * time.Second)

	require.Eventually(t, func() bool {
		s := q.Status()
		return len(s.Queue) == 1 && s.Running
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"bandage"}, queueNames(q.Status()))
	assert.Equal(t, []craftCall{{"bench-1", 1, 1}}, host.craftCalls())

	mu.Lock()
	require.Len(t, completed, 1)
	assert.Equal(t, event.CraftCompletedPayload{RecipeID: 1, Name: "ironbar", Quantity: 1, Success: true}, completed[0])
	mu.Unlock()
}

func TestQueue_CancelRunningHeadStartsNext(t *testing.T) {
	defer leaktest.Check(t)()

	q, clock, host := newTestQueue(t, nil, plentiful())
	defer q.Stop()
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, benchRecipes[0], 2))
	require.NoError(t, q.Enqueue(ctx, benchRecipes[2], 1))
	waitForJob(t, clock)
	clock.Advance(time.Second)

	require.NoError(t, q.Cancel(ctx, 0))

	s := q.Status()
	assert.Equal(t, []string{"bandage"}, queueNames(s))
	assert.True(t, s.Running)
	assert.Equal(t, StateRunning, s.State)
	assert.InDelta(t, 0.0, s.Progress, 0.01)
	assert.Empty(t, host.craftCalls())
}

func TestQueue_CancelOutOfRange(t *testing.T) {
	q, _, _ := newTestQueue(t, nil, plentiful())
	defer q.Stop()

	err := q.Cancel(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrQueueIndex)

	require.NoError(t, q.Enqueue(context.Background(), benchRecipes[1], 1))
	assert.ErrorIs(t, q.Cancel(context.Background(), 3), domain.ErrQueueIndex)
	assert.ErrorIs(t, q.Cancel(context.Background(), -1), domain.ErrQueueIndex)
}

func TestQueue_CloseHandsOffRemaining(t *testing.T) {
	tests := []struct {
		name    string
		advance time.Duration
		want    []domain.CraftHandoffEntry
	}{
		{
			name:    "not started",
			advance: 0,
			want: []domain.CraftHandoffEntry{
				{RecipeID: 1, Quantity: 2, Duration: 4000, IsCurrentlyCrafting: true},
				{RecipeID: 2, Quantity: 1, Duration: 3000},
			},
		},
		{
			name:    "quarter done",
			advance: time.Second,
			want: []domain.CraftHandoffEntry{
				{RecipeID: 1, Quantity: 2, Duration: 3000, IsCurrentlyCrafting: true, CurrentProgress: 25},
				{RecipeID: 2, Quantity: 1, Duration: 3000},
			},
		},
		{
			name:    "nearly done keeps floor",
			advance: 3990 * time.Millisecond,
			want: []domain.CraftHandoffEntry{
				{RecipeID: 1, Quantity: 2, Duration: 100, IsCurrentlyCrafting: true, CurrentProgress: 99.75},
				{RecipeID: 2, Quantity: 1, Duration: 3000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer leaktest.Check(t)()

			q, clock, host := newTestQueue(t, nil, plentiful())
			defer q.Stop()
			ctx := context.Background()

			require.NoError(t, q.Enqueue(ctx, benchRecipes[0], 2))
			require.NoError(t, q.Enqueue(ctx, benchRecipes[1], 1))
			waitForJob(t, clock)
			if tt.advance > 0 {
				clock.Advance(tt.advance)
			}

			require.NoError(t, q.Close(ctx))

			require.Len(t, host.handoffs, 1)
			got := host.handoffs[0]
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].RecipeID, got[i].RecipeID)
				assert.Equal(t, tt.want[i].Quantity, got[i].Quantity)
				assert.Equal(t, tt.want[i].Duration, got[i].Duration)
				assert.Equal(t, tt.want[i].IsCurrentlyCrafting, got[i].IsCurrentlyCrafting)
				assert.InDelta(t, tt.want[i].CurrentProgress, got[i].CurrentProgress, 0.01)
			}

			s := q.Status()
			assert.Empty(t, s.Queue)
			assert.False(t, s.Running)
			assert.Equal(t, StateIdle, s.State)
			assert.Empty(t, s.BenchID)
		})
	}
}

func TestQueue_CloseEmptySendsNothing(t *testing.T) {
	q, _, host := newTestQueue(t, nil, plentiful())
	defer q.Stop()

	require.NoError(t, q.Close(context.Background()))
	assert.Empty(t, host.handoffs)
}

func TestQueue_EnqueueNeedsMaterials(t *testing.T) {
	q, _, _ := newTestQueue(t, nil, invStub{domain.Inventories{Crafting: storage(
		domain.NewItemSlot(1, "metalscrap", 3, 1, nil),
	)}})
	defer q.Stop()
	ctx := context.Background()

	err := q.Enqueue(ctx, benchRecipes[0], 2)
	assert.ErrorIs(t, err, domain.ErrInsufficientMaterials)
	assert.Empty(t, q.Status().Queue)

	require.NoError(t, q.Enqueue(ctx, benchRecipes[0], 1))
	assert.Len(t, q.Status().Queue, 1)
}

func TestQueue_QueueRecipe(t *testing.T) {
	ctx := context.Background()

	idle := NewQueue(clockwork.NewFakeClock(), &hostStub{}, nil, plentiful(), Config{})
	defer idle.Stop()
	err := idle.QueueRecipe(ctx, domain.Slot{Name: "ironbar"}, 1)
	assert.ErrorIs(t, err, domain.ErrNotCraftingBench)

	q, _, _ := newTestQueue(t, nil, plentiful())
	defer q.Stop()

	err = q.QueueRecipe(ctx, domain.Slot{Name: "rocket"}, 1)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	require.NoError(t, q.SetSelected(3))
	require.NoError(t, q.QueueRecipe(ctx, domain.Slot{Slot: 3, Name: "bandage"}, q.Selected()))

	s := q.Status()
	require.Len(t, s.Queue, 1)
	assert.Equal(t, 3, s.Queue[0].Quantity)
	assert.Equal(t, 2, s.Queue[0].RecipeIndex)
	assert.Equal(t, 1, s.Selected)

	assert.ErrorIs(t, q.SetSelected(0), domain.ErrInvalidInput)
}

func TestQueue_HostFailurePublishesFailure(t *testing.T) {
	defer leaktest.Check(t)()

	bus := event.NewMemoryBus()
	results := make(chan event.CraftCompletedPayload, 1)
	bus.Subscribe(event.CraftCompleted, func(ctx context.Context, evt event.Event) error {
		results <- evt.Payload.(event.CraftCompletedPayload)
		return nil
	})

	q, clock, host := newTestQueue(t, bus, plentiful())
	host.craftErr = errors.New("bench destroyed")
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), benchRecipes[2], 1))
	waitForJob(t, clock)
	clock.Advance(2 * time.Second)

	select {
	case res := <-results:
		assert.False(t, res.Success)
		assert.Equal(t, "bench destroyed", res.Error)
		assert.Equal(t, 3, res.RecipeID)
	case <-time.After(time.Second):
		t.Fatal("no craft result published")
	}

	assert.Eventually(t, func() bool { return !q.Status().Running }, time.Second, 5*time.Millisecond)
}

func TestQueue_SwitchingBenchDropsQueue(t *testing.T) {
	defer leaktest.Check(t)()

	q, clock, _ := newTestQueue(t, nil, plentiful())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), benchRecipes[0], 1))
	waitForJob(t, clock)

	q.SetBench("bench-1", benchRecipes)
	assert.Len(t, q.Status().Queue, 1)

	q.SetBench("bench-2", benchRecipes[:1])
	s := q.Status()
	assert.Empty(t, s.Queue)
	assert.False(t, s.Running)
	assert.Equal(t, domain.InventoryID("bench-2"), s.BenchID)
}

func TestQueue_UnknownRecipeDroppedAtOnce(t *testing.T) {
	defer leaktest.Check(t)()

	q, clock, host := newTestQueue(t, nil, plentiful())
	defer q.Stop()
	ctx := context.Background()

	rocket := domain.CraftingRecipe{Name: "rocket", Duration: 60000}
	require.NoError(t, q.Enqueue(ctx, rocket, 1))

	s := q.Status()
	assert.Empty(t, s.Queue)
	assert.False(t, s.Running)
	assert.Equal(t, StateIdle, s.State)

	require.NoError(t, q.Enqueue(ctx, benchRecipes[2], 1))
	waitForJob(t, clock)
	clock.Advance(2 * time.Second)

	assert.Eventually(t, func() bool { return len(host.craftCalls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []craftCall{{"bench-1", 3, 1}}, host.craftCalls())
}

func TestQueue_UpdateRecipesKeepsQueue(t *testing.T) {
	defer leaktest.Check(t)()

	q, clock, _ := newTestQueue(t, nil, plentiful())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), benchRecipes[0], 1))
	waitForJob(t, clock)

	relabeled := append([]domain.CraftingRecipe(nil), benchRecipes...)
	relabeled[1].Label = "Advanced Lockpick"
	assert.True(t, q.UpdateRecipes("bench-1", relabeled))
	assert.False(t, q.UpdateRecipes("bench-2", relabeled))

	s := q.Status()
	assert.Len(t, s.Queue, 1)
	assert.True(t, s.Running)
	assert.Equal(t, "Advanced Lockpick", s.Recipes[1].Label)
	assert.Equal(t, domain.InventoryID("bench-1"), q.BenchID())
}
