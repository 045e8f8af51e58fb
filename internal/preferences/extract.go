package preferences

import (
	"context"
	"fmt"
	"strings"
)

// JSONGenerator answers a prompt with JSON decoded into out.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string, out any) error
}

// Extractor reads preferences out of a chat message.
type Extractor struct {
	gen JSONGenerator
}

func NewExtractor(gen JSONGenerator) *Extractor {
	return &Extractor{gen: gen}
}

// Extract returns the preferences the message states, sanitized for use as
// a chat-sourced Patch. An empty Patch means nothing was detected.
func (e *Extractor) Extract(ctx context.Context, message string) (Patch, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Patch{}, nil
	}

	var patch Patch
	if err := e.gen.GenerateJSON(ctx, extractionPrompt(message), &patch); err != nil {
		return Patch{}, fmt.Errorf("extract preferences: %w", err)
	}
	return patch.Sanitize(), nil
}

func extractionPrompt(message string) string {
	var b strings.Builder
	b.WriteString("Extract travel preferences stated in the message below. ")
	b.WriteString("Reply with a single JSON object and omit every key the message does not mention.\n")
	b.WriteString("Keys:\n")
	fmt.Fprintf(&b, "  travel_style: one of %s\n", strings.Join(TravelStyles(), ", "))
	fmt.Fprintf(&b, "  style_axes: object with any of %s, each 0-100\n", strings.Join(Axes, ", "))
	fmt.Fprintf(&b, "  interests: up to %d short lowercase strings\n", MaxInterests)
	fmt.Fprintf(&b, "  must_haves: object with any of %s as booleans\n", strings.Join(Flags, ", "))
	b.WriteString("  dietary_restrictions: list of strings\n")
	b.WriteString("  occasion: short string\n")
	b.WriteString("Message:\n")
	b.WriteString(message)
	return b.String()
}
