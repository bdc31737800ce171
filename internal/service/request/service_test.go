package request

import (
	"testing"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/stretchr/testify/require"
)

func TestNewDueDate(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		kind          model.RequestKind
		requestedDays int
		want          time.Time
	}{
		{
			name:          "extension adds the requested days",
			kind:          model.RequestKindExtension,
			requestedDays: 5,
			want:          due.AddDate(0, 0, 5),
		},
		{
			name:          "extension upper bound",
			kind:          model.RequestKindExtension,
			requestedDays: 30,
			want:          due.AddDate(0, 0, 30),
		},
		{
			name:          "renewal adds the fixed period",
			kind:          model.RequestKindRenewal,
			requestedDays: 0,
			want:          due.AddDate(0, 0, 14),
		},
		{
			name:          "renewal ignores requested days",
			kind:          model.RequestKindRenewal,
			requestedDays: 7,
			want:          due.AddDate(0, 0, 14),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewDueDate(tt.kind, due, tt.requestedDays)
			require.Equal(t, tt.want, got)
			require.True(t, got.After(due), "due date must only advance")
		})
	}
}

func TestOutcomeType(t *testing.T) {
	t.Parallel()
	require.Equal(t, "extension_approved", outcomeType(model.RequestKindExtension, model.RequestStatusApproved))
	require.Equal(t, "extension_rejected", outcomeType(model.RequestKindExtension, model.RequestStatusRejected))
	require.Equal(t, "renewal_approved", outcomeType(model.RequestKindRenewal, model.RequestStatusApproved))
	require.Equal(t, "renewal_rejected", outcomeType(model.RequestKindRenewal, model.RequestStatusRejected))
}
