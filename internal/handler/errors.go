package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/locations"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/preferences"
	"github.com/dharmasatrya/tripplanner/internal/questionnaire"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/internal/trip"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

var (
	errInvalidRequest  = errors.New("failed to parse request body")
	errOfferNotFound   = errors.New("offer is not part of the latest results for this leg")
	errChatUnavailable = errors.New("chat preference detection is not configured")
)

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{errInvalidRequest, http.StatusBadRequest, "invalid_request"},
	{session.ErrNotFound, http.StatusNotFound, "session_not_found"},
	{locations.ErrNotFound, http.StatusNotFound, "location_not_found"},
	{locations.ErrResolutionFailed, http.StatusUnprocessableEntity, "resolution_failed"},
	{errOfferNotFound, http.StatusNotFound, "offer_not_found"},
	{errChatUnavailable, http.StatusServiceUnavailable, "chat_unavailable"},

	{trip.ErrLegOutOfRange, http.StatusBadRequest, "leg_out_of_range"},
	{trip.ErrSelectionIncomplete, http.StatusConflict, "selection_incomplete"},
	{trip.ErrMixedCurrencies, http.StatusConflict, "mixed_currencies"},

	{preferences.ErrUnknownField, http.StatusBadRequest, "invalid_preference"},
	{preferences.ErrInvalidTravelStyle, http.StatusBadRequest, "invalid_preference"},
	{preferences.ErrAxisOutOfRange, http.StatusBadRequest, "invalid_preference"},
	{preferences.ErrTooManyInterests, http.StatusBadRequest, "invalid_preference"},
	{preferences.ErrInvalidSource, http.StatusBadRequest, "invalid_preference"},
	{preferences.ErrNoConflict, http.StatusNotFound, "conflict_not_found"},

	{questionnaire.ErrStepIncomplete, http.StatusConflict, "step_incomplete"},
	{questionnaire.ErrFirstStep, http.StatusConflict, "step_navigation"},
	{questionnaire.ErrLastStep, http.StatusConflict, "step_navigation"},
	{questionnaire.ErrNotOnReview, http.StatusConflict, "step_navigation"},
	{questionnaire.ErrAlreadySubmitted, http.StatusConflict, "already_submitted"},
	{questionnaire.ErrStepOutOfRange, http.StatusNotFound, "step_out_of_range"},
	{questionnaire.ErrUnknownField, http.StatusBadRequest, "invalid_answer"},
	{questionnaire.ErrInvalidAnswer, http.StatusBadRequest, "invalid_answer"},
}

// classify maps err onto a status code and machine-readable error code.
func classify(err error) (int, string) {
	var notReady *models.LegNotReadyError
	if errors.As(err, &notReady) {
		return http.StatusBadRequest, "leg_not_ready"
	}
	var ve models.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "validation_error"
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondError(c echo.Context, err error) error {
	status, code := classify(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Default().Error(err, "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		message = "Internal server error"
	}
	return c.JSON(status, errorBody(status, code, message))
}

func errorBody(status int, code, message string) models.ErrorResponse {
	return models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	}
}

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}

func badRequest(c echo.Context, err error) error {
	return respondError(c, invalidRequest(err))
}
