package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/domain/reveal"
)

// @Summary     Organizer view of a poll, tallies included
// @Tags        manage
// @Security    BearerAuth
// @Produce     json
// @Param       creationID  path      string  true  "Creation ID"
// @Success     200         {object}  pollResponse
// @Failure     401         {object}  map[string]string  "unauthorized"
// @Failure     404         {object}  map[string]string  "not found"
// @Router      /api/v1/manage/{creationID} [get]
func (h *Handler) handleManageGet(w http.ResponseWriter, r *http.Request) {
	creationID := chi.URLParam(r, "creationID")

	pollID, p, err := h.repo.GetByCreationID(r.Context(), creationID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	results, err := h.tally.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pollResponse{
		PollID:    pollID,
		Revealed:  p.Revealed,
		Anonymous: p.Anonymous,
		Questions: p.Questions,
		Results:   results,
	})
}

// @Summary     Reveal poll results
// @Tags        manage
// @Security    BearerAuth
// @Produce     json
// @Param       creationID  path      string  true  "Creation ID"
// @Success     200         {object}  map[string]string
// @Failure     401         {object}  map[string]string  "unauthorized"
// @Failure     404         {object}  map[string]string  "invalid creation id"
// @Router      /api/v1/manage/{creationID}/reveal [patch]
func (h *Handler) handleReveal(w http.ResponseWriter, r *http.Request) {
	creationID := chi.URLParam(r, "creationID")

	// The coordinator does not re-check the revealed flag, so the double-reveal
	// guard lives here: a second reveal must not schedule a second deletion.
	_, p, err := h.repo.GetByCreationID(r.Context(), creationID)
	if err != nil {
		if errors.Is(err, poll.ErrNotFound) {
			errorResponse(w, reveal.ErrInvalidCreationID)
			return
		}
		errorResponse(w, err)
		return
	}
	if p.Revealed {
		writeJSON(w, http.StatusOK, map[string]string{"message": "poll results already revealed"})
		return
	}

	if _, err := h.coordinator.Reveal(r.Context(), creationID); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "poll results revealed"})
}

// @Summary     Delete a poll and all derived keys
// @Tags        manage
// @Security    BearerAuth
// @Produce     json
// @Param       creationID  path      string  true  "Creation ID"
// @Success     200         {object}  map[string]bool
// @Failure     401         {object}  map[string]string  "unauthorized"
// @Router      /api/v1/manage/{creationID} [delete]
func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	creationID := chi.URLParam(r, "creationID")

	deleted, err := h.repo.Delete(r.Context(), creationID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": deleted})
}
