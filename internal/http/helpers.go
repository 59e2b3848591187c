package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/kixfc/kix-server/internal/reject"
	"github.com/kixfc/kix-server/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain errors to HTTP statuses: rejections carry their
// stable reason code with a 422, a missing aggregate is a 404, an exhausted
// retry loop is a 409 the client may simply retry.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Code: "not_found", Message: "resource not found"})
	case errors.Is(err, store.ErrVersionConflict):
		writeJSON(w, http.StatusConflict, errorBody{Code: "conflict", Message: "concurrent update, retry the request"})
	default:
		if code, ok := reject.CodeOf(err); ok {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody{Code: code, Message: err.Error()})
			return
		}
		log.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "internal", Message: "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "bad_json", Message: "invalid request body"})
		return false
	}
	return true
}

// pushEnvelope is the JSON wrapper Pub/Sub push subscriptions deliver; the
// payload itself is base64-encoded MessagePack.
type pushEnvelope struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data string `json:"data"`
	} `json:"message"`
}
