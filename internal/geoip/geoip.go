// Package geoip looks up an approximate location for a client IP so the
// planner can suggest a default departure city.
package geoip

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
	"github.com/dharmasatrya/tripplanner/pkg/geo"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

// Origin is the geolocation backend's answer.
type Origin struct {
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (o Origin) Coordinates() geo.Coordinates {
	return geo.Coordinates{Lat: o.Lat, Lng: o.Lng}
}

type Client struct {
	baseURL string
	http    *httpclient.Client
	limiter *ratelimit.BackendLimiter
	log     *logger.Logger
}

func NewClient(baseURL string, client *httpclient.Client, limiter *ratelimit.BackendLimiter, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    client,
		limiter: limiter,
		log:     log,
	}
}

// DefaultOrigin returns the location for ip, or ok=false when it cannot be
// determined. Lookup failures are logged and otherwise ignored.
func (c *Client) DefaultOrigin(ctx context.Context, ip string) (Origin, bool) {
	if c == nil || c.baseURL == "" || !lookupable(ip) {
		return Origin{}, false
	}
	if err := c.limiter.Wait(ctx, ratelimit.BackendGeoIP); err != nil {
		return Origin{}, false
	}

	var o Origin
	u := c.baseURL + "/" + url.PathEscape(ip)
	if err := c.http.DoJSON(ctx, http.MethodGet, u, nil, &o); err != nil {
		c.log.Debug("geoip lookup failed", "ip", ip, "error", err)
		return Origin{}, false
	}
	if o.City == "" || !o.Coordinates().IsValid() {
		return Origin{}, false
	}
	return o, true
}

// lookupable rejects addresses a public geolocation service cannot place.
func lookupable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast())
}
