// Package crafting runs the crafting bench queue: one timed job at a time,
// confirmed by the host when its timer fires, and handed back to the host
// when the bench closes mid-queue.
package crafting

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
	"github.com/osse101/InventoryHUD_Go/internal/metrics"
)

// Host is the part of the host bridge the queue talks to.
type Host interface {
	CraftFromCraftingInventory(ctx context.Context, benchID domain.InventoryID, recipeID, quantity int) (domain.CraftResult, error)
	StartCraftQueue(ctx context.Context, benchID domain.InventoryID, queue []domain.CraftHandoffEntry) error
}

// InventorySource supplies the current inventories for material checks.
type InventorySource interface {
	Inventories() domain.Inventories
}

// Config tunes queue timing. Zero values fall back to the package defaults.
type Config struct {
	TickInterval       time.Duration
	DefaultDuration    time.Duration
	MinHandoffDuration time.Duration
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.DefaultDuration <= 0 {
		c.DefaultDuration = DefaultDuration
	}
	if c.MinHandoffDuration <= 0 {
		c.MinHandoffDuration = DefaultMinHandoffDuration
	}
	return c
}

// State is the queue's lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateRunning
	// StateDraining covers the hand-off to the host while the bench closes.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	default:
		return "idle"
	}
}

// MarshalText writes the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Status is a point-in-time view of the queue.
type Status struct {
	BenchID  domain.InventoryID      `json:"benchId,omitempty"`
	State    State                   `json:"state"`
	Recipes  []domain.CraftingRecipe `json:"recipes"`
	Queue    []domain.QueueEntry     `json:"queue"`
	Running  bool                    `json:"running"`
	Progress float64                 `json:"progress"`
	Selected int                     `json:"selected"`
}

// job is the timed run of the queue head.
type job struct {
	entry    domain.QueueEntry
	started  time.Time
	duration time.Duration
	stop     chan struct{}
	once     sync.Once

	// finishing is set once the timer has fired and the host is being asked.
	// The entry has already left the queue at that point.
	finishing bool
}

func (j *job) cancel() {
	j.once.Do(func() { close(j.stop) })
}

// Queue is the crafting queue of the open bench. It is safe for concurrent use.
type Queue struct {
	clock clockwork.Clock
	host  Host
	bus   event.Bus
	inv   InventorySource
	cfg   Config

	mu       sync.Mutex
	benchID  domain.InventoryID
	recipes  []domain.CraftingRecipe
	entries  []domain.QueueEntry
	selected int
	job      *job
	gen      uint64
	draining bool
	stopped  bool

	wg sync.WaitGroup
}

// NewQueue creates an idle queue. bus may be nil.
func NewQueue(clock clockwork.Clock, host Host, bus event.Bus, inv InventorySource, cfg Config) *Queue {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Queue{
		clock:    clock,
		host:     host,
		bus:      bus,
		inv:      inv,
		cfg:      cfg.withDefaults(),
		selected: 1,
	}
}

// SetBench installs the recipes of the bench that was just opened. Opening a
// different bench discards the queue of the previous one, so callers hand it
// off with Close first.
func (q *Queue) SetBench(benchID domain.InventoryID, recipes []domain.CraftingRecipe) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if benchID != q.benchID {
		q.dropLocked()
	}
	q.benchID = benchID
	q.recipes = append([]domain.CraftingRecipe(nil), recipes...)
}

// UpdateRecipes replaces the recipe list of benchID, keeping its queue. It
// does nothing once another bench is open.
func (q *Queue) UpdateRecipes(benchID domain.InventoryID, recipes []domain.CraftingRecipe) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if benchID == "" || benchID != q.benchID {
		return false
	}
	q.recipes = append([]domain.CraftingRecipe(nil), recipes...)
	return true
}

// BenchID is the open bench, empty when none is.
func (q *Queue) BenchID() domain.InventoryID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.benchID
}

// Selected returns the quantity the next enqueue will use.
func (q *Queue) Selected() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.selected
}

// SetSelected changes the quantity selection.
func (q *Queue) SetSelected(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: quantity %d", domain.ErrInvalidInput, n)
	}
	q.mu.Lock()
	q.selected = n
	q.mu.Unlock()
	return nil
}

// QueueRecipe enqueues the recipe shown in item.
func (q *Queue) QueueRecipe(ctx context.Context, item domain.Slot, quantity int) error {
	q.mu.Lock()
	if q.benchID == "" {
		q.mu.Unlock()
		return domain.ErrNotCraftingBench
	}
	idx := q.indexLocked(item.Name)
	if idx < 0 {
		q.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrRecipeNotFound, item.Name)
	}
	recipe := q.recipes[idx]
	q.mu.Unlock()

	return q.Enqueue(ctx, recipe, quantity)
}

// Enqueue appends quantity crafts of recipe, starting the queue if it was
// idle. The quantity selection resets to one afterwards.
func (q *Queue) Enqueue(ctx context.Context, recipe domain.CraftingRecipe, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity %d", domain.ErrInvalidInput, quantity)
	}

	var bundle domain.Inventories
	if q.inv != nil {
		bundle = q.inv.Inventories()
	}
	if !HasEnoughMaterials(bundle, recipe, quantity) {
		logger.FromContext(ctx).Info(LogMsgInsufficientMaterials, "recipe", recipe.Name, "quantity", quantity)
		return fmt.Errorf("%w: %s x%d", domain.ErrInsufficientMaterials, recipe.Name, quantity)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return domain.ErrNotCraftingBench
	}

	q.entries = append(q.entries, domain.QueueEntry{
		Recipe:      recipe,
		Quantity:    quantity,
		RecipeIndex: q.indexLocked(recipe.Name),
	})
	q.selected = 1
	metrics.CraftQueueLength.Set(float64(len(q.entries)))

	q.startLocked(ctx)
	return nil
}

// Cancel removes the entry at index. Cancelling the running head stops its
// timer and starts the next entry.
func (q *Queue) Cancel(ctx context.Context, index int) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if index < 0 || index >= len(q.entries) {
		return fmt.Errorf("%w: %d of %d", domain.ErrQueueIndex, index, len(q.entries))
	}

	entry := q.entries[index]
	q.entries = append(q.entries[:index:index], q.entries[index+1:]...)
	metrics.CraftsTotal.WithLabelValues(metrics.ResultCancelled).Inc()
	metrics.CraftQueueLength.Set(float64(len(q.entries)))
	logger.FromContext(ctx).Info(LogMsgCraftCancelled, "recipe", entry.Recipe.Name, "index", index)

	if index == 0 && q.runningLocked() {
		q.job.cancel()
		q.job = nil
		q.startLocked(ctx)
	}
	return nil
}

// Progress returns the running job's progress in percent.
func (q *Queue) Progress() float64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.progressLocked()
}

// Status returns a copy of the queue state.
func (q *Queue) Status() Status {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Status{
		BenchID:  q.benchID,
		State:    q.stateLocked(),
		Recipes:  append([]domain.CraftingRecipe(nil), q.recipes...),
		Queue:    append([]domain.QueueEntry(nil), q.entries...),
		Running:  q.runningLocked(),
		Progress: q.progressLocked(),
		Selected: q.selected,
	}
}

// Close hands any remaining entries to the host, which carries on crafting
// without the HUD, and returns the queue to idle.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	benchID := q.benchID
	handoff := q.handoffLocked()
	q.dropLocked()
	q.benchID = ""
	q.recipes = nil
	if len(handoff) == 0 || q.host == nil {
		q.mu.Unlock()
		return nil
	}
	q.draining = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.draining = false
		q.mu.Unlock()
	}()

	if err := q.host.StartCraftQueue(ctx, benchID, handoff); err != nil {
		logger.FromContext(ctx).Error(LogMsgQueueHandoffFailed, "bench", benchID, "error", err)
		return fmt.Errorf("failed to hand off craft queue: %w", err)
	}
	metrics.CraftHandoffs.Inc()
	logger.FromContext(ctx).Info(LogMsgQueueHandedOff, "bench", benchID, "entries", len(handoff))
	return nil
}

// Stop cancels the running job and waits for it to exit. The queue refuses
// new work afterwards.
func (q *Queue) Stop() {
	q.mu.Lock()
	q.stopped = true
	q.dropLocked()
	q.mu.Unlock()
	q.wg.Wait()
}

func (q *Queue) indexLocked(name string) int {
	for i, r := range q.recipes {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func (q *Queue) stateLocked() State {
	switch {
	case q.draining:
		return StateDraining
	case q.job != nil || len(q.entries) > 0:
		return StateRunning
	default:
		return StateIdle
	}
}

func (q *Queue) runningLocked() bool {
	return q.job != nil && !q.job.finishing
}

func (q *Queue) progressLocked() float64 {
	if !q.runningLocked() || q.job.duration <= 0 {
		return 0
	}
	p := float64(q.clock.Since(q.job.started)) / float64(q.job.duration) * 100
	return math.Min(p, 100)
}

func (q *Queue) durationOf(r domain.CraftingRecipe) time.Duration {
	if r.Duration > 0 {
		return time.Duration(r.Duration) * time.Millisecond
	}
	return q.cfg.DefaultDuration
}

// handoffLocked serializes the queue for StartCraftQueue. The running head
// carries its remaining time, never less than the configured floor.
func (q *Queue) handoffLocked() []domain.CraftHandoffEntry {
	if len(q.entries) == 0 {
		return nil
	}
	out := make([]domain.CraftHandoffEntry, 0, len(q.entries))
	for i, e := range q.entries {
		d := q.durationOf(e.Recipe)
		h := domain.CraftHandoffEntry{
			RecipeID: e.RecipeIndex + 1,
			Quantity: e.Quantity,
		}
		if i == 0 && q.runningLocked() {
			h.IsCurrentlyCrafting = true
			h.CurrentProgress = q.progressLocked()
			if h.CurrentProgress > 0 {
				remaining := time.Duration(float64(d) * (1 - h.CurrentProgress/100))
				d = max(q.cfg.MinHandoffDuration, remaining)
			}
		}
		h.Duration = int(d / time.Millisecond)
		out = append(out, h)
	}
	return out
}

// dropLocked stops the running job and empties the queue.
func (q *Queue) dropLocked() {
	if q.job != nil {
		q.job.cancel()
		q.job = nil
	}
	q.entries = nil
	q.gen++
	metrics.CraftQueueLength.Set(0)
}

// startLocked starts the head entry when nothing is running. Entries whose
// recipe is not on the bench are dropped without waiting for a timer.
func (q *Queue) startLocked(ctx context.Context) {
	if q.job != nil || q.stopped {
		return
	}
	for len(q.entries) > 0 && q.entries[0].RecipeIndex < 0 {
		logger.FromContext(ctx).Warn(LogMsgRecipeNotFound, "recipe", q.entries[0].Recipe.Name)
		q.entries = q.entries[1:]
		metrics.CraftQueueLength.Set(float64(len(q.entries)))
	}
	if len(q.entries) == 0 {
		return
	}
	head := q.entries[0]
	j := &job{
		entry:    head,
		started:  q.clock.Now(),
		duration: q.durationOf(head.Recipe),
		stop:     make(chan struct{}),
	}
	q.job = j

	logger.FromContext(ctx).Debug(LogMsgCraftStarted, "recipe", head.Recipe.Name, "quantity", head.Quantity, "duration", j.duration)

	q.wg.Add(1)
	go q.run(context.WithoutCancel(ctx), j, q.gen)
}

func (q *Queue) run(ctx context.Context, j *job, gen uint64) {
	defer q.wg.Done()

	timer := q.clock.NewTimer(j.duration)
	defer timer.Stop()
	ticker := q.clock.NewTicker(q.cfg.TickInterval)
	defer ticker.Stop()

	last := -1
	for {
		select {
		case <-j.stop:
			return
		case <-ticker.Chan():
			p := q.Progress()
			if int(p) != last {
				last = int(p)
				q.publishProgress(ctx, p)
			}
		case <-timer.Chan():
			q.complete(ctx, j, gen)
			return
		}
	}
}

// complete pops the finished head, asks the host to craft it and moves on to
// the next entry. A job cancelled before its timer fired does nothing.
func (q *Queue) complete(ctx context.Context, j *job, gen uint64) {
	log := logger.FromContext(ctx)

	q.mu.Lock()
	if q.job != j || q.gen != gen {
		q.mu.Unlock()
		return
	}
	select {
	case <-j.stop:
		q.mu.Unlock()
		return
	default:
	}
	j.finishing = true
	entry := q.entries[0]
	q.entries = q.entries[1:]
	benchID := q.benchID
	metrics.CraftQueueLength.Set(float64(len(q.entries)))
	q.mu.Unlock()

	if q.host != nil {
		res, err := q.host.CraftFromCraftingInventory(ctx, benchID, entry.RecipeIndex+1, entry.Quantity)
		if err != nil {
			log.Error(LogMsgCraftRequestFailed, "recipe", entry.Recipe.Name, "error", err)
			res = domain.CraftResult{Success: false, Error: err.Error()}
		}
		if res.Success {
			log.Info(LogMsgCraftSucceeded, "recipe", entry.Recipe.Name, "quantity", entry.Quantity)
		} else {
			log.Info(LogMsgCraftFailed, "recipe", entry.Recipe.Name, "error", res.Error)
		}
		q.publishCompleted(ctx, entry, res)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.job == j {
		q.job = nil
	}
	if q.gen == gen {
		q.startLocked(ctx)
	}
}
