package validators

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func queryOf(raw string) *Query {
	values, _ := url.ParseQuery(raw)
	return NewQuery(values.Get)
}

func TestPagination(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTake int
		wantSkip int
		valid    bool
	}{
		{"defaults", "", 100, 0, true},
		{"explicit", "take=20&skip=40", 20, 40, true},
		{"upper bound", "take=1000", 1000, 0, true},
		{"take zero", "take=0", 100, 0, false},
		{"take too large", "take=1001", 100, 0, false},
		{"negative skip", "skip=-1", 100, 0, false},
		{"negative take", "take=-5", 100, 0, false},
		{"not a number", "take=abc", 100, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := queryOf(tt.raw)
			take, skip := q.Pagination(DefaultTake, MaxTake)

			assert.Equal(t, tt.wantTake, take)
			assert.Equal(t, tt.wantSkip, skip)
			assert.Equal(t, tt.valid, q.Valid())
		})
	}
}

func TestQueryUUIDAndEnum(t *testing.T) {
	q := queryOf("id=not-a-uuid&status=DONE&customerId=3f1c2b4e-8a9d-4c7e-9b1a-2d3e4f5a6b7c")

	assert.Equal(t, "", q.UUID("id"))
	assert.Equal(t, "3f1c2b4e-8a9d-4c7e-9b1a-2d3e4f5a6b7c", q.UUID("customerId"))
	assert.Equal(t, "", q.Enum("status", "PENDING", "IN_PROGRESS", "FINISHED"))

	assert.False(t, q.Valid())
	assert.Contains(t, q.Errors, "id")
	assert.Contains(t, q.Errors, "status")
	assert.NotContains(t, q.Errors, "customerId")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2025-03-14T10:30:00+01:00")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), d.UTC())

	_, err = ParseDate("14/03/2025")
	assert.Error(t, err)
}

func TestQueryDate(t *testing.T) {
	q := queryOf("startDate=2025-01-01&endDate=garbage")

	assert.NotNil(t, q.Date("startDate"))
	assert.Nil(t, q.Date("endDate"))
	assert.Nil(t, q.Date("missing"))
	assert.Contains(t, q.Errors, "endDate")
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "example.com", EmailDomain("Jane@Example.COM"))
	assert.Equal(t, "example.com", EmailDomain("a@b@example.com."))
	assert.Empty(t, EmailDomain("no-at-sign"))
	assert.Empty(t, EmailDomain("trailing@"))
}

func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsEmailDomainValid(ctx, "no-at-sign"))
	assert.False(t, IsEmailDomainValid(ctx, "trailing@"))
	assert.False(t, IsEmailDomainValid(ctx, "jane@localhost"))
}
