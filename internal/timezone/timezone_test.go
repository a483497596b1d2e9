package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocationFallsBack(t *testing.T) {
	assert.Equal(t, "Europe/Paris", Location("").String())
	assert.Equal(t, "Europe/Paris", Location("Not/AZone").String())
	assert.Equal(t, "UTC", Location("UTC").String())
}

func TestPreviousMonth(t *testing.T) {
	loc := Location("Europe/Paris")
	now := time.Date(2025, time.March, 1, 2, 0, 0, 0, loc)

	start, end := PreviousMonth(now)

	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.February, 28, 23, 59, 59, 999999999, loc), end)
}

func TestPreviousMonthAcrossYear(t *testing.T) {
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	start, end := PreviousMonth(now)

	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 31, end.Day())
}
