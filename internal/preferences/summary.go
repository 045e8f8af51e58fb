package preferences

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dharmasatrya/tripplanner/internal/textgen"
	"github.com/dharmasatrya/tripplanner/pkg/logger"
)

const (
	DefaultSummaryDelay   = 800 * time.Millisecond
	defaultSummaryTimeout = 15 * time.Second
)

// SummaryStore persists a generated summary for key.
type SummaryStore func(ctx context.Context, key, summary string) error

type pendingSummary struct {
	timer   *time.Timer
	profile Profile
}

// Summarizer debounces summary requests per key. A burst of edits yields a
// single generation call for the last profile seen. Generation or store
// failures are logged and leave the stored summary as it was.
type Summarizer struct {
	gen     textgen.Generator
	store   SummaryStore
	log     *logger.Logger
	delay   time.Duration
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]*pendingSummary
	seq     map[string]uint64
	wg      sync.WaitGroup
	closed  bool
}

func NewSummarizer(gen textgen.Generator, store SummaryStore, delay time.Duration, log *logger.Logger) *Summarizer {
	if delay <= 0 {
		delay = DefaultSummaryDelay
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Summarizer{
		gen:     gen,
		store:   store,
		log:     log,
		delay:   delay,
		timeout: defaultSummaryTimeout,
		pending: make(map[string]*pendingSummary),
		seq:     make(map[string]uint64),
	}
}

// Request schedules a summary of profile for key, replacing any request
// still waiting for its delay to pass.
func (s *Summarizer) Request(key string, profile Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if p, ok := s.pending[key]; ok {
		p.profile = profile
		p.timer.Reset(s.delay)
		return
	}
	s.pending[key] = &pendingSummary{
		profile: profile,
		timer:   time.AfterFunc(s.delay, func() { s.fire(key) }),
	}
}

func (s *Summarizer) fire(key string) {
	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	s.seq[key]++
	seq := s.seq[key]
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, SummaryPrompt(p.profile))
	if err != nil {
		s.log.Warn("profile summary generation failed", "key", key, "error", err)
		return
	}

	s.mu.Lock()
	stale := s.seq[key] != seq
	s.mu.Unlock()
	if stale {
		return
	}

	if err := s.store(ctx, key, text); err != nil {
		s.log.Warn("failed to store profile summary", "key", key, "error", err)
	}
}

// Cancel drops a waiting request for key, e.g. when its session ends.
func (s *Summarizer) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
		delete(s.pending, key)
	}
	delete(s.seq, key)
}

// Close stops all waiting requests and waits for in-flight generations.
func (s *Summarizer) Close() {
	s.mu.Lock()
	s.closed = true
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// SummaryPrompt renders the instruction sent to the text generator.
func SummaryPrompt(p Profile) string {
	var b strings.Builder
	b.WriteString("Write two short sentences describing this traveler in the second person. ")
	b.WriteString("Do not invent preferences that are not listed.\n")

	if p.TravelStyle != "" {
		fmt.Fprintf(&b, "Travel style: %s\n", p.TravelStyle)
	}
	fmt.Fprintf(&b, "Pace %d/100, comfort %d/100, adventure %d/100, social %d/100\n",
		p.StyleAxes.Pace, p.StyleAxes.Comfort, p.StyleAxes.Adventure, p.StyleAxes.Social)
	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(p.Interests, ", "))
	}
	if must := mustHaveNames(p.MustHaves); len(must) > 0 {
		fmt.Fprintf(&b, "Must have: %s\n", strings.Join(must, ", "))
	}
	if len(p.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "Dietary restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", "))
	}
	if p.TripContext.Occasion != "" {
		fmt.Fprintf(&b, "Occasion: %s\n", p.TripContext.Occasion)
	}
	return b.String()
}

func mustHaveNames(m MustHaves) []string {
	var out []string
	if m.Accessibility {
		out = append(out, "accessibility")
	}
	if m.PetFriendly {
		out = append(out, "pet friendly")
	}
	if m.FamilyFriendly {
		out = append(out, "family friendly")
	}
	if m.Wifi {
		out = append(out, "wifi")
	}
	return out
}
