package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/internal/session"
)

type TripHandler struct {
	sessions *session.Manager
}

func NewTripHandler(sessions *session.Manager) *TripHandler {
	return &TripHandler{sessions: sessions}
}

type tripRequest struct {
	TripType   models.TripType    `json:"trip_type"`
	Legs       []models.FlightLeg `json:"legs"`
	Passengers models.Passengers  `json:"passengers"`
	CabinClass string             `json:"cabin_class"`
}

type selectionRequest struct {
	Leg     int    `json:"leg"`
	OfferID string `json:"offer_id"`
}

type viewingRequest struct {
	Leg int `json:"leg"`
}

// Put replaces the session's legs. Earlier results and selections no longer
// match and are dropped.
func (h *TripHandler) Put(c echo.Context) error {
	var req tripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if req.Passengers.Adults <= 0 {
		req.Passengers.Adults = 1
	}
	if req.Passengers.Children < 0 || req.Passengers.Infants < 0 || req.Passengers.Infants > req.Passengers.Adults {
		return respondError(c, models.ErrInvalidPassengers)
	}

	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		if err := s.Trip.SetLegs(req.TripType, req.Legs); err != nil {
			return err
		}
		s.Trip.Passengers = req.Passengers
		s.Trip.CabinClass = req.CabinClass
		s.Results = nil
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(s.Trip))
}

// Select picks an offer from the latest results of a leg.
func (h *TripHandler) Select(c echo.Context) error {
	var req selectionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		offer, ok := s.FindOffer(req.Leg, req.OfferID)
		if !ok {
			return errOfferNotFound
		}
		return s.Trip.Selection.Select(req.Leg, offer)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(s.Trip))
}

func (h *TripHandler) ClearSelection(c echo.Context) error {
	leg, err := strconv.Atoi(c.Param("leg"))
	if err != nil {
		return badRequest(c, err)
	}

	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		return s.Trip.Selection.Clear(leg)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(s.Trip))
}

func (h *TripHandler) View(c echo.Context) error {
	var req viewingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}

	s, err := h.sessions.Update(c.Request().Context(), c.Param("id"), func(s *session.Session) error {
		return s.Trip.Selection.View(req.Leg)
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newTripView(s.Trip))
}
