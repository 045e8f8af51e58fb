package questionnaire

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dharmasatrya/tripplanner/internal/httpclient"
	"github.com/dharmasatrya/tripplanner/internal/ratelimit"
)

type Submission struct {
	SessionID   string              `json:"session_id"`
	Answers     map[string][]string `json:"answers"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

// Submitter delivers a finished questionnaire.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Outcome, error)
}

// HTTPSubmitter posts the submission as JSON and expects
// {success, message, reference}.
type HTTPSubmitter struct {
	endpoint string
	client   *httpclient.Client
	limiter  *ratelimit.BackendLimiter
}

func NewHTTPSubmitter(endpoint string, client *httpclient.Client, limiter *ratelimit.BackendLimiter) *HTTPSubmitter {
	return &HTTPSubmitter{endpoint: endpoint, client: client, limiter: limiter}
}

func (h *HTTPSubmitter) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if err := h.limiter.Wait(ctx, ratelimit.BackendSubmit); err != nil {
		return Outcome{}, err
	}
	var out Outcome
	if err := h.client.DoJSON(ctx, http.MethodPost, h.endpoint, sub, &out); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// LocalSubmitter accepts every submission without forwarding it. It is used
// when no submission endpoint is configured.
type LocalSubmitter struct{}

func (LocalSubmitter) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Success:   true,
		Message:   "Questionnaire received",
		Reference: "local-" + uuid.NewString(),
	}, nil
}
