package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rocketvote/internal/domain/tally"
	"rocketvote/internal/platform/apperr"
)

type castBallotRequest struct {
	Votes []tally.QuestionVotes `json:"votes"`
}

// @Summary     Cast or replace a ballot
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Param       pollID   path      string             true  "Poll ID"
// @Param       request  body      castBallotRequest  true  "Selections per question"
// @Success     204
// @Failure     400      {object}  map[string]string  "ballot rejected"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     404      {object}  map[string]string  "not found"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Router      /api/v1/polls/{pollID}/vote [patch]
func (h *Handler) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	pollID := chi.URLParam(r, "pollID")

	var req castBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}
	if len(req.Votes) == 0 {
		errorResponse(w, apperr.BadRequest("invalid_input", "votes are required", nil))
		return
	}

	p, err := h.repo.Get(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	principal := principalFromCtx(r)
	if err := h.tally.CastBallot(r.Context(), p, pollID, principal.ObjectID, req.Votes); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
