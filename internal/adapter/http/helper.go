package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	approvalDomain "pass-iae-backend/internal/domain/approval"
	peapprovalDomain "pass-iae-backend/internal/domain/peapproval"
	prolongationDomain "pass-iae-backend/internal/domain/prolongation"
	suspensionDomain "pass-iae-backend/internal/domain/suspension"
	"pass-iae-backend/internal/domain/validation"

	"github.com/labstack/echo/v4"
)

// writeDomainError maps domain errors to HTTP responses. Business-rule
// violations carry a field, conflicts with current state map to 409.
func writeDomainError(c echo.Context, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: ve.Field, Message: ve.Message}},
		})
	}

	switch {
	case errors.Is(err, approvalDomain.ErrNotFound),
		errors.Is(err, suspensionDomain.ErrNotFound),
		errors.Is(err, prolongationDomain.ErrNotFound),
		errors.Is(err, peapprovalDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, approvalDomain.ErrAlreadyValidForUser),
		errors.Is(err, approvalDomain.ErrCannotPostpone),
		errors.Is(err, approvalDomain.ErrCannotDelete),
		errors.Is(err, suspensionDomain.ErrCannotSuspend),
		errors.Is(err, prolongationDomain.ErrCannotProlong):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, approvalDomain.ErrNumberExhausted):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// parseDate parses the canonical YYYY-MM-DD request format. Validation runs
// first, so err here means a handler forgot the datetime tag.
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
