package handler

import (
	"errors"
	"net/http"

	"github.com/atolyem/marketplace-backend/internal/repository"
	"github.com/atolyem/marketplace-backend/internal/rules"
	"github.com/atolyem/marketplace-backend/internal/service"
	"github.com/labstack/echo/v4"
)

type errorPayload struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondError maps service errors onto HTTP. Rule violations keep their
// stable code and structured details; everything else collapses into the
// generic envelopes the client already knows.
func respondError(c echo.Context, err error) error {
	if re, ok := rules.AsRuleError(err); ok {
		return c.JSON(ruleErrorStatus(re.Code), ErrorResponse{
			Error: errorPayload{
				Code:    string(re.Code),
				Message: re.Message,
				Details: re.Details,
			},
		})
	}
	if errors.Is(err, service.ErrNotFound) {
		return c.JSON(http.StatusNotFound, NewErrorResponse("NOT_FOUND", "not found"))
	}
	if errors.Is(err, repository.ErrDBNotReady) {
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("unavailable", "service is starting up, retry shortly"))
	}
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "something went wrong"))
}

func ruleErrorStatus(code rules.Code) int {
	switch code {
	case rules.CodeNotFound:
		return http.StatusNotFound
	case rules.CodeForbidden, rules.CodeSelfPurchase:
		return http.StatusForbidden
	case rules.CodeConflict:
		return http.StatusConflict
	case rules.CodeDownloadLimit, rules.CodeDownloadExpired:
		return http.StatusGone
	case rules.CodeInsufficientStock, rules.CodeListingNotAvailable,
		rules.CodeOrderNotEligible, rules.CodeTagLimit,
		rules.CodePersonalizationInvalid, rules.CodeValidation,
		rules.CodeCurrencyMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
