// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cedar/internal/modules/fleet"
	"cedar/internal/modules/location"
	"cedar/internal/modules/route"
	"cedar/internal/modules/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID ensures IDs are hex and at most 32 chars (matches the ID
// generator).
func isValidID(v string) bool {
	if len(v) == 0 || len(v) > 32 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError translates module failures into HTTP statuses so the UI
// can render a specific remediation message.
func writeDomainError(c *gin.Context, err error) {
	var resolution *location.ResolutionError
	switch {
	case errors.As(err, &resolution), errors.Is(err, route.ErrUnresolved):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, route.ErrBlocked):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, route.ErrInvalidArgument):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, route.ErrTransient):
		writeError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, trip.ErrNotFound), errors.Is(err, fleet.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, trip.ErrInvalidState), errors.Is(err, trip.ErrConflict),
		errors.Is(err, trip.ErrDriverIneligible), errors.Is(err, trip.ErrDriverUnavailable):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, trip.ErrBadRequest), errors.Is(err, fleet.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
