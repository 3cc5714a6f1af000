package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocketvote/internal/notify"
	"rocketvote/internal/platform/apperr"
)

// @Summary     Subscribe to a poll's event stream (SSE)
// @Tags        polls
// @Security    BearerAuth
// @Produce     text/event-stream
// @Param       pollID  path  string  true  "Poll ID"
// @Success     200
// @Failure     401     {object}  map[string]string  "unauthorized"
// @Failure     404     {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{pollID}/events [get]
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	if _, err := h.repo.Get(r.Context(), pollID); err != nil {
		errorResponse(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		errorResponse(w, apperr.Internal("streaming_unsupported", "streaming unsupported", nil))
		return
	}

	topic := notify.Topic(pollID)
	id, events := h.bus.Subscribe(topic)
	defer h.bus.Unsubscribe(topic, id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": connected to %s\n\n", topic)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}
