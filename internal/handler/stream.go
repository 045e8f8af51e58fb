package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripplanner/internal/aggregator"
)

const (
	eventLeg  = "leg"
	eventDone = "done"
)

type sseMessage struct {
	event string
	data  []byte
}

func writeSSEMessage(w io.Writer, msg sseMessage) error {
	if msg.event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", msg.event); err != nil {
			return err
		}
	}

	data := strings.TrimRight(string(msg.data), "\n")
	for _, line := range strings.Split(data, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Stream runs the same search as Search but emits each leg as a "leg" event
// the moment it settles, followed by a "done" event with the metadata. If
// the client goes away, legs still in flight are abandoned.
func (h *SearchHandler) Stream(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	req, sessionID, err := h.bind(c)
	if err != nil {
		return respondError(c, err)
	}

	legs, err := h.aggregator.Stream(ctx, req)
	if err != nil {
		return respondError(c, err)
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	result := aggregator.NewResult(len(req.Legs))
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("search stream abandoned", "legs_settled", result.LegsSucceeded+len(result.FailedLegs))
			return nil
		case lr, ok := <-legs:
			if !ok {
				data, err := json.Marshal(result.Metadata(time.Since(startTime)))
				if err != nil {
					return err
				}
				if err := writeSSEMessage(res, sseMessage{event: eventDone, data: data}); err != nil {
					return nil
				}
				res.Flush()
				return nil
			}

			result.Add(lr)
			if sessionID != "" {
				h.storeResults(ctx, sessionID, lr)
			}

			data, err := json.Marshal(lr)
			if err != nil {
				return err
			}
			if err := writeSSEMessage(res, sseMessage{event: eventLeg, data: data}); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
