package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

type Source string

const (
	SourceManual Source = "manual"
	SourceChat   Source = "chat"
	// SourceConfirmed marks a chat suggestion the user explicitly applied.
	// It is protected like a manual value.
	SourceConfirmed Source = "confirmed"
)

func (s Source) Valid() bool {
	return s == SourceManual || s == SourceChat
}

func (s Source) userOwned() bool {
	return s == SourceManual || s == SourceConfirmed
}

type EventType string

const (
	EventFieldUpdated     EventType = "field_updated"
	EventConflictDetected EventType = "conflict_detected"
	EventConflictApplied  EventType = "conflict_applied"
)

var (
	ErrInvalidSource = errors.New("source must be manual or chat")
	ErrNoConflict    = errors.New("no pending conflict for field")
)

// Conflict is a chat suggestion that disagrees with a value the user set.
// It waits for an explicit apply or dismiss.
type Conflict struct {
	Field       string          `json:"field"`
	ChatValue   json.RawMessage `json:"chat_value"`
	ManualValue json.RawMessage `json:"manual_value"`
	DetectedAt  time.Time       `json:"detected_at"`
}

type Event struct {
	Type     EventType       `json:"type"`
	Field    string          `json:"field"`
	Source   Source          `json:"source,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Conflict *Conflict       `json:"conflict,omitempty"`
}

// Memory is one session's preference state. It is not safe for concurrent
// use; callers serialize access per session.
type Memory struct {
	Profile   Profile             `json:"profile"`
	Sources   map[string]Source   `json:"sources"`
	Conflicts map[string]Conflict `json:"conflicts"`
	Summary   string              `json:"summary,omitempty"`
	// Revision increases whenever Profile changes.
	Revision int `json:"revision"`

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		Profile:   DefaultProfile(),
		Sources:   make(map[string]Source),
		Conflicts: make(map[string]Conflict),
	}
}

func (m *Memory) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now().UTC()
}

func (m *Memory) init() {
	if m.Sources == nil {
		m.Sources = make(map[string]Source)
	}
	if m.Conflicts == nil {
		m.Conflicts = make(map[string]Conflict)
	}
}

// Update applies patch on behalf of source.
//
// Manual writes always land, take ownership of the field and clear any
// pending conflict on it. Chat writes land only on fields the user does not
// own; a differing chat value for a user-owned field is parked as a
// Conflict instead. Equal values write nothing and withdraw any pending
// conflict on the field.
func (m *Memory) Update(patch Patch, source Source) ([]Event, error) {
	if !source.Valid() {
		return nil, ErrInvalidSource
	}
	changes, err := patch.Changes()
	if err != nil {
		return nil, err
	}
	m.init()

	now := m.clock()
	var events []Event
	changed := false

	for _, c := range changes {
		current := m.Profile.get(c.Field)
		equal := reflect.DeepEqual(current, c.Value)

		if source == SourceManual {
			m.Sources[c.Field] = SourceManual
			delete(m.Conflicts, c.Field)
			if equal {
				continue
			}
			m.Profile.set(c.Field, c.Value)
			changed = true
			events = append(events, Event{Type: EventFieldUpdated, Field: c.Field, Source: source, Value: mustJSON(c.Value)})
			continue
		}

		if equal {
			// Chat now agrees with the user, so an earlier suggestion is stale.
			delete(m.Conflicts, c.Field)
			continue
		}
		if m.Sources[c.Field].userOwned() {
			conflict := Conflict{
				Field:       c.Field,
				ChatValue:   mustJSON(c.Value),
				ManualValue: mustJSON(current),
				DetectedAt:  now,
			}
			m.Conflicts[c.Field] = conflict
			events = append(events, Event{Type: EventConflictDetected, Field: c.Field, Source: source, Conflict: &conflict})
			continue
		}

		m.Profile.set(c.Field, c.Value)
		m.Sources[c.Field] = SourceChat
		m.Profile.DetectedFromChat = true
		changed = true
		events = append(events, Event{Type: EventFieldUpdated, Field: c.Field, Source: source, Value: mustJSON(c.Value)})
	}

	if changed {
		m.touch(now)
	}
	return events, nil
}

// Apply commits the pending chat value for field.
func (m *Memory) Apply(field string) (Event, error) {
	m.init()
	conflict, ok := m.Conflicts[field]
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrNoConflict, field)
	}
	value, err := decodeValue(field, conflict.ChatValue)
	if err != nil {
		return Event{}, fmt.Errorf("decode suggestion for %s: %w", field, err)
	}

	m.Profile.set(field, value)
	m.Sources[field] = SourceConfirmed
	delete(m.Conflicts, field)
	m.touch(m.clock())

	return Event{Type: EventConflictApplied, Field: field, Source: SourceConfirmed, Value: conflict.ChatValue}, nil
}

// Dismiss drops the pending chat value for field, keeping the user's.
func (m *Memory) Dismiss(field string) error {
	m.init()
	if _, ok := m.Conflicts[field]; !ok {
		return fmt.Errorf("%w: %s", ErrNoConflict, field)
	}
	delete(m.Conflicts, field)
	return nil
}

// PendingConflicts returns the open conflicts ordered by field.
func (m *Memory) PendingConflicts() []Conflict {
	out := make([]Conflict, 0, len(m.Conflicts))
	for _, field := range Fields() {
		if c, ok := m.Conflicts[field]; ok {
			out = append(out, c)
		}
	}
	return out
}

func (m *Memory) touch(now time.Time) {
	m.Profile.LastUpdated = now
	m.Revision++
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}
