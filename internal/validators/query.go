package validators

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pagination bounds shared by list endpoints.
const (
	DefaultTake = 100
	MaxTake     = 1000
	DefaultSkip = 0
)

// FieldErrors collects messages keyed by parameter name.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Query parses URL query values, accumulating every problem it finds.
type Query struct {
	get    func(string) string
	Errors FieldErrors
}

func NewQuery(get func(string) string) *Query {
	return &Query{get: get, Errors: FieldErrors{}}
}

func (q *Query) raw(name string) string {
	return strings.TrimSpace(q.get(name))
}

// Int reads an integer bounded by [min, max]; max < min disables the
// upper bound.
func (q *Query) Int(name string, def, min, max int) int {
	raw := q.raw(name)
	if raw == "" {
		return def
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		q.Errors.Add(name, fmt.Sprintf("%s must be an integer", name))
		return def
	}
	if n < min {
		q.Errors.Add(name, fmt.Sprintf("%s must be >= %d", name, min))
		return def
	}
	if max >= min && n > max {
		q.Errors.Add(name, fmt.Sprintf("%s must be between %d and %d", name, min, max))
		return def
	}
	return n
}

// Pagination reads take in [1, maxTake] and skip >= 0.
func (q *Query) Pagination(defTake, maxTake int) (take, skip int) {
	take = q.Int("take", defTake, 1, maxTake)
	skip = q.Int("skip", DefaultSkip, 0, -1)
	return take, skip
}

func (q *Query) UUID(name string) string {
	raw := q.raw(name)
	if raw == "" {
		return ""
	}
	if !IsUUID(raw) {
		q.Errors.Add(name, fmt.Sprintf("%s must be a valid UUID", name))
		return ""
	}
	return raw
}

func (q *Query) String(name string) string {
	return q.raw(name)
}

func (q *Query) Date(name string) *time.Time {
	raw := q.raw(name)
	if raw == "" {
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		q.Errors.Add(name, fmt.Sprintf("%s must be a valid date", name))
		return nil
	}
	return &t
}

func (q *Query) Bool(name string) bool {
	return strings.EqualFold(q.raw(name), "true")
}

// Enum accepts one of allowed, or nothing.
func (q *Query) Enum(name string, allowed ...string) string {
	raw := q.raw(name)
	if raw == "" {
		return ""
	}
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	q.Errors.Add(name, fmt.Sprintf("%s must be one of %s", name, strings.Join(allowed, ", ")))
	return ""
}

func (q *Query) Valid() bool {
	return q.Errors.Empty()
}

func IsUUID(s string) bool {
	return uuid.Validate(s) == nil && len(s) == 36
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts RFC 3339 timestamps and plain dates. Inputs without
// an offset are read as UTC.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
