package notify

import (
	"testing"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"github.com/stretchr/testify/require"
)

func TestDaysOverdue(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 0, DaysOverdue(due, due.Add(-time.Hour)))
	require.Equal(t, 0, DaysOverdue(due, due))
	require.Equal(t, 0, DaysOverdue(due, due.Add(12*time.Hour)))
	require.Equal(t, 1, DaysOverdue(due, due.Add(25*time.Hour)))
	require.Equal(t, 2, DaysOverdue(due, due.AddDate(0, 0, 2)))
}

func TestDaysUntilDue(t *testing.T) {
	t.Parallel()
	due := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.Equal(t, 0, DaysUntilDue(due, due.Add(time.Hour)))
	require.Equal(t, 1, DaysUntilDue(due, due.Add(-12*time.Hour)))
	require.Equal(t, 2, DaysUntilDue(due, due.Add(-36*time.Hour)))
	require.Equal(t, 2, DaysUntilDue(due, due.Add(-48*time.Hour)))
}

func TestBuildNotification(t *testing.T) {
	t.Parallel()
	newDue := time.Date(2024, 5, 24, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		event       kafka.EventNotification
		wantType    model.NotificationType
		wantTitle   string
		wantMessage string
		wantErr     bool
	}{
		{
			name: "extension requested",
			event: kafka.EventNotification{
				UserID:    "u1",
				Type:      "extension_requested",
				RelatedID: "r1",
				BookTitle: "Dune",
				Days:      5,
			},
			wantType:    model.NotificationExtensionRequested,
			wantTitle:   "Extension Request Submitted",
			wantMessage: `Your extension request for "Dune" (5 days) has been submitted and is pending librarian approval.`,
		},
		{
			name: "renewal requested",
			event: kafka.EventNotification{
				UserID:    "u1",
				Type:      "renewal_requested",
				BookTitle: "Dune",
			},
			wantType:    model.NotificationRenewalRequested,
			wantTitle:   "Renewal Request Submitted",
			wantMessage: `Your renewal request for "Dune" has been submitted and is pending librarian approval.`,
		},
		{
			name: "extension approved carries the new due date",
			event: kafka.EventNotification{
				UserID:     "u1",
				Type:       "extension_approved",
				BookTitle:  "Dune",
				NewDueDate: newDue,
			},
			wantType:    model.NotificationExtensionApproved,
			wantTitle:   "Extension Request Approved",
			wantMessage: `Your extension request for "Dune" has been approved. New due date: May 24, 2024`,
		},
		{
			name: "rejection appends the reason",
			event: kafka.EventNotification{
				UserID:    "u1",
				Type:      "renewal_rejected",
				BookTitle: "Dune",
				Reason:    "copy reserved",
			},
			wantType:    model.NotificationRenewalRejected,
			wantTitle:   "Renewal Request Rejected",
			wantMessage: `Your renewal request for "Dune" has been rejected. Reason: copy reserved`,
		},
		{
			name: "rejection without reason",
			event: kafka.EventNotification{
				UserID:    "u1",
				Type:      "extension_rejected",
				BookTitle: "Dune",
			},
			wantType:    model.NotificationExtensionRejected,
			wantTitle:   "Extension Request Rejected",
			wantMessage: `Your extension request for "Dune" has been rejected.`,
		},
		{
			name:    "unknown type",
			event:   kafka.EventNotification{UserID: "u1", Type: "bogus"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := BuildNotification(tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.event.UserID, n.UserID)
			require.Equal(t, tt.wantType, n.Type)
			require.Equal(t, tt.wantTitle, n.Title)
			require.Equal(t, tt.wantMessage, n.Message)
			if tt.event.RelatedID != "" {
				require.NotNil(t, n.RelatedID)
				require.Equal(t, tt.event.RelatedID, *n.RelatedID)
			}
		})
	}
}
