// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque task identifier assigned by the backend.
type ID string

// IsZero reports whether the id is unset (create payloads only).
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// Task represents a single task item.
type Task struct {
	ID          ID
	Title       string
	Description string
	Completed   bool

	// numericID is set when the backend sent ID as a JSON number, so a
	// full-record write sends it back in the same form.
	numericID bool
}

// wireTask is the JSON shape of a Task.
type wireTask struct {
	ID          json.RawMessage `json:"id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
}

// MarshalJSON writes the id in the form the backend sent it. Ids that did
// not come from the backend are strings; an unset id is omitted.
func (t Task) MarshalJSON() ([]byte, error) {
	w := wireTask{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	switch {
	case t.ID.IsZero():
	case t.numericID:
		w.ID = json.RawMessage(t.ID)
	default:
		id, err := json.Marshal(string(t.ID))
		if err != nil {
			return nil, err
		}
		w.ID = id
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts ids as JSON numbers or JSON strings and remembers
// which one it got. A null description reads as empty.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	id, numeric, err := parseID(w.ID)
	if err != nil {
		return err
	}

	*t = Task{
		ID:          id,
		Title:       w.Title,
		Description: w.Description,
		Completed:   w.Completed,
		numericID:   numeric,
	}
	return nil
}

func parseID(raw json.RawMessage) (ID, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, fmt.Errorf("invalid task id %s: %w", raw, err)
		}
		return ID(s), false, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", false, fmt.Errorf("invalid task id %s: %w", raw, err)
	}
	return ID(n.String()), true, nil
}

// NewTask builds the create payload: no id, not completed.
func NewTask(title, description string) Task {
	return Task{
		Title:       title,
		Description: description,
		Completed:   false,
	}
}

// Filter selects which subset of tasks a load fetches.
type Filter int

const (
	FilterAll Filter = iota
	FilterPending
	FilterCompleted
)

// ErrInvalidFilter is returned for filter values outside all|pending|completed.
var ErrInvalidFilter = errors.New("invalid filter")

// Filters lists every filter in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterPending, FilterCompleted}
}

// ParseFilter parses all|pending|completed (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return FilterAll, nil
	case "pending":
		return FilterPending, nil
	case "completed":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("%w: %q", ErrInvalidFilter, s)
}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	return f == FilterAll || f == FilterPending || f == FilterCompleted
}

func (f Filter) String() string {
	switch f {
	case FilterAll:
		return "all"
	case FilterPending:
		return "pending"
	case FilterCompleted:
		return "completed"
	}
	return "Filter(" + strconv.Itoa(int(f)) + ")"
}

// Label is the human readable name used on filter controls.
func (f Filter) Label() string {
	switch f {
	case FilterPending:
		return "Pending"
	case FilterCompleted:
		return "Completed"
	}
	return "All"
}

// Match reports whether a task belongs to the filtered subset.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	}
	return true
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned status %d", e.Code)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// IsStatus reports whether err carries a non-2xx backend status.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == 404
}
