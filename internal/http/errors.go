package api

import (
	"errors"
	"net/http"

	"rocketvote/internal/domain/poll"
	"rocketvote/internal/domain/reveal"
	"rocketvote/internal/domain/tally"
	"rocketvote/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, poll.ErrNotFound):
		return apperr.NotFound("poll_not_found", "poll not found", err)
	case errors.Is(err, reveal.ErrInvalidCreationID):
		return apperr.NotFound("invalid_creation_id", "invalid or missing creation id", err)
	case errors.Is(err, poll.ErrNoQuestions),
		errors.Is(err, poll.ErrNoOptions),
		errors.Is(err, poll.ErrDuplicateOption),
		errors.Is(err, poll.ErrBadOptionText):
		return apperr.BadRequest("validation_error", err.Error(), err)
	case errors.Is(err, tally.ErrPollClosed):
		return apperr.BadRequest("poll_closed", "poll results already revealed", err)
	case errors.Is(err, tally.ErrInvalidQuestion):
		return apperr.BadRequest("invalid_question", err.Error(), err)
	case errors.Is(err, tally.ErrInvalidOption):
		return apperr.BadRequest("invalid_option", err.Error(), err)
	case errors.Is(err, tally.ErrDuplicateOption):
		return apperr.BadRequest("duplicate_option", err.Error(), err)
	case errors.Is(err, tally.ErrSingleSelection):
		return apperr.BadRequest("single_selection_violation", err.Error(), err)
	default:
		return apperr.Unavailable("storage_failure", "storage unavailable", err)
	}
}
