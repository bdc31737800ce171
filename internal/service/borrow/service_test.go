package borrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCalculateFine(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		returnDate time.Time
		finePerDay float64
		want       float64
	}{
		{
			name:       "returned before due date",
			returnDate: due.AddDate(0, 0, -3),
			finePerDay: 5,
			want:       0,
		},
		{
			name:       "returned exactly on due date",
			returnDate: due,
			finePerDay: 5,
			want:       0,
		},
		{
			name:       "two days overdue",
			returnDate: due.AddDate(0, 0, 2),
			finePerDay: 5,
			want:       10,
		},
		{
			name:       "partial day truncates",
			returnDate: due.Add(36 * time.Hour),
			finePerDay: 5,
			want:       5,
		},
		{
			name:       "under a full day accrues nothing",
			returnDate: due.Add(23 * time.Hour),
			finePerDay: 5,
			want:       0,
		},
		{
			name:       "plan rate applies",
			returnDate: due.AddDate(0, 0, 4),
			finePerDay: 2.5,
			want:       10,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CalculateFine(due, tt.returnDate, tt.finePerDay))
		})
	}
}
