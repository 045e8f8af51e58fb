package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/geoip"
	"github.com/dharmasatrya/tripplanner/internal/locations"
	"github.com/dharmasatrya/tripplanner/internal/models"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

type LocationHandler struct {
	resolver *locations.Resolver
	geoip    *geoip.Client
	log      *logger.Logger
}

func NewLocationHandler(resolver *locations.Resolver, geo *geoip.Client, log *logger.Logger) *LocationHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LocationHandler{resolver: resolver, geoip: geo, log: log}
}

// Resolve turns ?q= into a location or a disambiguation step. ?hint= is an
// optional ISO country code used to break ties.
func (h *LocationHandler) Resolve(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: "q is required",
			Code:    http.StatusBadRequest,
		})
	}

	hint := locations.Hint{CountryCode: strings.ToUpper(c.QueryParam("hint"))}
	res, err := h.resolver.Resolve(c.Request().Context(), q, hint)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LocationHandler) ResolveCity(c echo.Context) error {
	res, err := h.resolver.ResolveCity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LocationHandler) Airport(c echo.Context) error {
	loc, err := h.resolver.ResolveAirport(c.Request().Context(), strings.ToUpper(c.Param("iata")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, locations.Resolution{Location: loc})
}

type defaultOriginResponse struct {
	Origin     geoip.Origin          `json:"origin"`
	Resolution *locations.Resolution `json:"resolution,omitempty"`
}

// DefaultOrigin suggests a departure point from the caller's IP. No
// suggestion is a 204, never an error.
func (h *LocationHandler) DefaultOrigin(c echo.Context) error {
	ctx := c.Request().Context()

	origin, ok := h.geoip.DefaultOrigin(ctx, c.RealIP())
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}

	resp := defaultOriginResponse{Origin: origin}
	res, err := h.resolver.Resolve(ctx, origin.City, locations.Hint{CountryCode: origin.CountryCode})
	if err != nil {
		h.log.Debug("default origin did not resolve", "city", origin.City, "error", err)
	} else {
		resp.Resolution = res
	}
	return c.JSON(http.StatusOK, resp)
}
