package treatment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfMonth(t *testing.T) {
	in := time.Date(2025, time.June, 18, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), startOfMonth(in))
}

func TestStartOfWeekIsMonday(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"wednesday rolls back to monday",
			time.Date(2025, time.June, 18, 9, 0, 0, 0, time.UTC),
			time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday stays on monday",
			time.Date(2025, time.June, 16, 23, 59, 0, 0, time.UTC),
			time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2025, time.June, 22, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"week spanning a month boundary",
			time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC),
			time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, startOfWeek(tt.in))
		})
	}
}
