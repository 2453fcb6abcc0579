package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/InventoryHUD_Go/internal/event"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// EventInjector publishes a host push event that arrived over HTTP
type EventInjector interface {
	Inject(ctx context.Context, action string, data json.RawMessage, source string) error
}

// URLParamEvent is the route parameter naming the push event
const URLParamEvent = "event"

// HandleNUIEvent injects POST /nui/{event} as if the host had pushed it. The
// body is the raw event payload.
func HandleNUIEvent(injector EventInjector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		action := chi.URLParam(r, URLParamEvent)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn(LogMsgBodyReadFailed, "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequest)
			return
		}

		if err := injector.Inject(r.Context(), action, json.RawMessage(body), event.SourceHTTP); err != nil {
			respondServiceError(w, r, "Inject "+action, err)
			return
		}

		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: MsgEventAccepted})
	}
}
