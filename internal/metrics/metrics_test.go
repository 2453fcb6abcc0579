package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/InventoryHUD_Go/internal/event"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Post("/actions/craft/{index}/cancel", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/actions/craft/{index}/cancel", "204"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions/craft/2/cancel", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/actions/craft/{index}/cancel", "204"))
	assert.Equal(t, before+1, after)
}

func TestMiddleware_PassesFlush(t *testing.T) {
	var flushed bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		require.True(t, ok, "wrapped writer must stay a Flusher")
		f.Flush()
		flushed = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.True(t, flushed)
	assert.True(t, rec.Flushed)
}

func TestEventMetricsCollector(t *testing.T) {
	bus := event.NewMemoryBus()
	NewEventMetricsCollector().Register(context.Background(), bus)

	received := testutil.ToFloat64(EventsReceived.WithLabelValues(string(event.RefreshSlots)))
	failed := testutil.ToFloat64(CraftsTotal.WithLabelValues(ResultFailure))

	require.NoError(t, bus.Publish(context.Background(), event.New(event.RefreshSlots, nil, event.SourceBridge)))
	require.NoError(t, bus.Publish(context.Background(), event.New(event.CraftCompleted,
		event.CraftCompletedPayload{RecipeID: 1, Success: false, Error: "no bench"}, event.SourceLocal)))

	assert.Equal(t, received+1, testutil.ToFloat64(EventsReceived.WithLabelValues(string(event.RefreshSlots))))
	assert.Equal(t, failed+1, testutil.ToFloat64(CraftsTotal.WithLabelValues(ResultFailure)))
}
