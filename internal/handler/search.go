package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/aggregator"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/session"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

type SearchDefaults struct {
	Currency string
	Locale   string
}

type SearchHandler struct {
	aggregator *aggregator.Aggregator
	sessions   *session.Manager
	defaults   SearchDefaults
	log        *logger.Logger
}

func NewSearchHandler(agg *aggregator.Aggregator, sessions *session.Manager, defaults SearchDefaults, log *logger.Logger) *SearchHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &SearchHandler{
		aggregator: agg,
		sessions:   sessions,
		defaults:   defaults,
		log:        log,
	}
}

// searchRequest is a SearchRequest that may instead name a session, in
// which case the legs, passengers and cabin come from the session's trip and
// the results are kept for later selection.
type searchRequest struct {
	models.SearchRequest
	SessionID string `json:"session_id,omitempty"`
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	req, sessionID, err := h.bind(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.aggregator.Search(ctx, req)
	if err != nil {
		return respondError(c, err)
	}

	if sessionID != "" {
		h.storeResults(ctx, sessionID, result.Legs...)
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: buildSearchCriteria(*req),
		Metadata:       result.Metadata(time.Since(startTime)),
		Legs:           result.Legs,
	})
}

// bind decodes the body and fills in the session's trip and the service
// defaults.
func (h *SearchHandler) bind(c echo.Context) (*models.SearchRequest, string, error) {
	var body searchRequest
	if err := c.Bind(&body); err != nil {
		return nil, "", invalidRequest(err)
	}

	req := body.SearchRequest
	if body.SessionID != "" {
		s, err := h.sessions.Get(c.Request().Context(), body.SessionID)
		if err != nil {
			return nil, "", err
		}
		planned := s.Trip.SearchRequest()
		req.TripType = planned.TripType
		req.Legs = planned.Legs
		req.Passengers = planned.Passengers
		req.CabinClass = planned.CabinClass
	}

	if req.Currency == "" {
		req.Currency = h.defaults.Currency
	}
	if req.Locale == "" {
		req.Locale = h.defaults.Locale
	}
	return &req, body.SessionID, nil
}

// storeResults records leg results on the session for selection. Results
// for legs that changed since the search started are dropped.
func (h *SearchHandler) storeResults(ctx context.Context, sessionID string, results ...models.LegResult) {
	_, err := h.sessions.Update(ctx, sessionID, func(s *session.Session) error {
		legs := s.Trip.Legs
		if len(s.Results) != len(legs) {
			s.Results = make([]models.LegResult, len(legs))
		}
		for _, lr := range results {
			if lr.Index < 0 || lr.Index >= len(legs) || legs[lr.Index].ID != lr.LegID {
				continue
			}
			s.Results[lr.Index] = lr
		}
		return nil
	})
	if err != nil {
		h.log.Warn("failed to store search results", "session_id", sessionID, "error", err)
	}
}

func buildSearchCriteria(req models.SearchRequest) models.SearchCriteria {
	return models.SearchCriteria{
		TripType:   req.TripType,
		Legs:       req.Legs,
		Passengers: req.Passengers,
		CabinClass: req.CabinClass,
		Currency:   req.Currency,
		Filters:    req.Filters,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}
}
