package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/InventoryHUD_Go/internal/domain"
	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	// encode before writing the header so a failure can still become a 500
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		http.Error(w, ErrMsgGenericServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and answers with its mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Debug(opName+" refused", "error", err)
	}
	respondError(w, status, msg)
}

var errorMessages = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrBusy, http.StatusConflict, ErrMsgBusyError},
	{domain.ErrMoveRejected, http.StatusConflict, ErrMsgMoveRejectedError},
	{domain.ErrDropNotAllowed, http.StatusUnprocessableEntity, ErrMsgDropNotAllowedError},
	{domain.ErrUtilitySlot, http.StatusUnprocessableEntity, ErrMsgUtilitySlotError},
	{domain.ErrContainerInContainer, http.StatusUnprocessableEntity, ErrMsgContainerError},
	{domain.ErrContainerOpen, http.StatusUnprocessableEntity, ErrMsgContainerError},
	{domain.ErrSameSlot, http.StatusUnprocessableEntity, ErrMsgSameSlotError},
	{domain.ErrSourceSlotUndefined, http.StatusNotFound, ErrMsgSlotNotFoundError},
	{domain.ErrTargetSlotUndefined, http.StatusNotFound, ErrMsgSlotNotFoundError},
	{domain.ErrInventoryGone, http.StatusNotFound, ErrMsgInventoryGoneError},
	{domain.ErrInsufficientMaterials, http.StatusUnprocessableEntity, ErrMsgInsufficientMaterialsErr},
	{domain.ErrRecipeNotFound, http.StatusNotFound, ErrMsgRecipeNotFoundError},
	{domain.ErrQueueIndex, http.StatusNotFound, ErrMsgQueueIndexError},
	{domain.ErrNotCraftingBench, http.StatusConflict, ErrMsgNotCraftingBenchError},
	{domain.ErrCartEmpty, http.StatusUnprocessableEntity, ErrMsgCartEmptyError},
	{domain.ErrNotPurchasable, http.StatusForbidden, ErrMsgNotPurchasableError},
	{domain.ErrInvalidPayMethod, http.StatusBadRequest, ErrMsgInvalidPayMethodError},
	{domain.ErrCartItemNotFound, http.StatusNotFound, ErrMsgCartItemNotFoundError},
	{domain.ErrUnknownEvent, http.StatusNotFound, ErrMsgUnknownEventError},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
	{domain.ErrBridgeNotConnected, http.StatusServiceUnavailable, ErrMsgUnavailableError},
	{domain.ErrBridgeDormant, http.StatusServiceUnavailable, ErrMsgUnavailableError},
	{domain.ErrBridgeTimeout, http.StatusGatewayTimeout, ErrMsgHostTimeoutError},
	{domain.ErrHostError, http.StatusBadGateway, ErrMsgHostFailedError},
}

// mapServiceErrorToUserMessage maps domain errors to an HTTP status and a
// message the renderer can show. Unknown errors become a generic 500.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}
