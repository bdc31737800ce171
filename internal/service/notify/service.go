package notify

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/internal/repository"
	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// books with fewer available copies get a restock alert
	lowStockThreshold = 3
	// issued records due within this window get a reminder
	dueSoonWindow = 48 * time.Hour

	dateLayout = "Jan 2, 2006"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// Dispatch materializes a workflow event into the member's inbox.
func (s *Service) Dispatch(ctx context.Context, event kafka.EventNotification) error {
	n, err := BuildNotification(event)
	if err != nil {
		return err
	}
	return s.repo.CreateNotification(ctx, n)
}

// BuildNotification renders the inbox row for a workflow event.
func BuildNotification(event kafka.EventNotification) (model.Notification, error) {
	n := model.Notification{
		UserID: event.UserID,
		Type:   model.NotificationType(event.Type),
	}
	if event.RelatedID != "" {
		related := event.RelatedID
		n.RelatedID = &related
	}

	switch n.Type {
	case model.NotificationExtensionRequested:
		n.Title = "Extension Request Submitted"
		n.Message = fmt.Sprintf("Your extension request for %q (%d days) has been submitted and is pending librarian approval.", event.BookTitle, event.Days)
	case model.NotificationRenewalRequested:
		n.Title = "Renewal Request Submitted"
		n.Message = fmt.Sprintf("Your renewal request for %q has been submitted and is pending librarian approval.", event.BookTitle)
	case model.NotificationExtensionApproved:
		n.Title = "Extension Request Approved"
		n.Message = fmt.Sprintf("Your extension request for %q has been approved. New due date: %s", event.BookTitle, event.NewDueDate.Format(dateLayout))
	case model.NotificationRenewalApproved:
		n.Title = "Renewal Request Approved"
		n.Message = fmt.Sprintf("Your renewal request for %q has been approved. New due date: %s", event.BookTitle, event.NewDueDate.Format(dateLayout))
	case model.NotificationExtensionRejected:
		n.Title = "Extension Request Rejected"
		n.Message = fmt.Sprintf("Your extension request for %q has been rejected.", event.BookTitle)
	case model.NotificationRenewalRejected:
		n.Title = "Renewal Request Rejected"
		n.Message = fmt.Sprintf("Your renewal request for %q has been rejected.", event.BookTitle)
	default:
		return model.Notification{}, fmt.Errorf("unknown notification type %q", event.Type)
	}

	if event.Reason != "" && (n.Type == model.NotificationExtensionRejected || n.Type == model.NotificationRenewalRejected) {
		n.Message += " Reason: " + event.Reason
	}
	return n, nil
}

// Sweep runs the overdue, due-soon and low-stock passes concurrently.
// Externally scheduled; reruns within a day dedup on the inbox index.
func (s *Service) Sweep(ctx context.Context, now time.Time) (model.SweepResult, error) {
	var res model.SweepResult

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.sweepOverdue(ctx, now)
		res.OverdueCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.sweepDueSoon(ctx, now)
		res.UpcomingCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.sweepLowStock(ctx)
		res.LowStockCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return model.SweepResult{}, err
	}
	res.Success = true
	return res, nil
}

func (s *Service) sweepOverdue(ctx context.Context, now time.Time) (int, error) {
	records, err := s.repo.ListOverdueIssued(ctx, now)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		days := DaysOverdue(rec.DueDate, now)
		recordID := rec.ID
		n := model.Notification{
			UserID:    rec.MemberID,
			Type:      model.NotificationOverdue,
			Title:     "Book Overdue",
			Message:   fmt.Sprintf("Your book %q is %d day(s) overdue. Please return it to avoid additional fines.", rec.BookTitle, days),
			RelatedID: &recordID,
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			s.log.Error("sweepOverdue notify", zap.String("record", rec.ID), zap.Error(err))
		}
	}
	return len(records), nil
}

func (s *Service) sweepDueSoon(ctx context.Context, now time.Time) (int, error) {
	records, err := s.repo.ListDueSoon(ctx, now, now.Add(dueSoonWindow))
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		days := DaysUntilDue(rec.DueDate, now)
		recordID := rec.ID
		n := model.Notification{
			UserID:    rec.MemberID,
			Type:      model.NotificationDueReminder,
			Title:     "Book Due Soon",
			Message:   fmt.Sprintf("Your book %q is due in %d day(s). Due date: %s", rec.BookTitle, days, rec.DueDate.Format(dateLayout)),
			RelatedID: &recordID,
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			s.log.Error("sweepDueSoon notify", zap.String("record", rec.ID), zap.Error(err))
		}
	}
	return len(records), nil
}

func (s *Service) sweepLowStock(ctx context.Context) (int, error) {
	books, err := s.repo.ListLowStockBooks(ctx, lowStockThreshold)
	if err != nil {
		return 0, err
	}
	if len(books) == 0 {
		return 0, nil
	}
	admins, err := s.repo.ListAdminIDs(ctx)
	if err != nil {
		return 0, err
	}
	for _, book := range books {
		copies := "copies"
		if book.AvailableCopies == 1 {
			copies = "copy"
		}
		bookID := book.ID
		for _, admin := range admins {
			n := model.Notification{
				UserID:    admin,
				Type:      model.NotificationLowStock,
				Title:     "Low Stock Alert",
				Message:   fmt.Sprintf("Book %q has only %d %s available.", book.Title, book.AvailableCopies, copies),
				RelatedID: &bookID,
			}
			if err := s.repo.CreateNotification(ctx, n); err != nil {
				s.log.Error("sweepLowStock notify", zap.String("book", book.ID), zap.Error(err))
			}
		}
	}
	return len(books), nil
}

// DaysOverdue truncates to whole days past the due date.
func DaysOverdue(dueDate, now time.Time) int {
	if !now.After(dueDate) {
		return 0
	}
	return int(now.Sub(dueDate).Hours() / 24)
}

// DaysUntilDue rounds up so a record due in 36h reads "due in 2 day(s)".
func DaysUntilDue(dueDate, now time.Time) int {
	if dueDate.Before(now) {
		return 0
	}
	return int(math.Ceil(dueDate.Sub(now).Hours() / 24))
}

func (s *Service) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.repo.ListNotifications(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.repo.MarkNotificationRead(ctx, userID, notificationID)
}

func (s *Service) Delete(ctx context.Context, userID, notificationID string) error {
	return s.repo.DeleteNotification(ctx, userID, notificationID)
}
