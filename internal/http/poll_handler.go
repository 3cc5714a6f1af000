package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/domain/tally"
	"rocketvote/internal/platform/apperr"
)

type createPollRequest struct {
	Questions []poll.Question `json:"questions"`
	Anonymous bool            `json:"anonymous"`
}

type pollResponse struct {
	PollID    string                 `json:"poll_id"`
	Revealed  bool                   `json:"revealed"`
	Anonymous bool                   `json:"anonymous"`
	Questions []poll.Question        `json:"questions"`
	Results   []tally.QuestionResult `json:"results,omitempty"`
}

// @Summary     Create a poll
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createPollRequest  true  "Poll definition"
// @Success     201      {object}  map[string]string
// @Failure     400      {object}  map[string]string  "validation error"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	creationID, pollID, err := h.repo.Create(r.Context(), req.Questions, req.Anonymous)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"poll_id":     pollID,
		"creation_id": creationID,
	})
}

// @Summary     Fetch a poll as a participant
// @Tags        polls
// @Security    BearerAuth
// @Produce     json
// @Param       pollID  path      string  true  "Poll ID"
// @Success     200     {object}  pollResponse
// @Failure     401     {object}  map[string]string  "unauthorized"
// @Failure     404     {object}  map[string]string  "not found"
// @Router      /api/v1/polls/{pollID} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	p, err := h.repo.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	resp := pollResponse{
		PollID:    pollID,
		Revealed:  p.Revealed,
		Anonymous: p.Anonymous,
		Questions: p.Questions,
	}

	// Tallies stay hidden from participants until the organizer reveals.
	if p.Revealed {
		results, err := h.tally.Results(r.Context(), pollID)
		if err != nil {
			errorResponse(w, err)
			return
		}
		resp.Results = results
	}

	writeJSON(w, http.StatusOK, resp)
}
