package request

import (
	"context"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/internal/repository"
	"github.com/Adhi509/admin-librarian-portal/internal/service/borrow"
	"github.com/Adhi509/admin-librarian-portal/internal/service/notify"
	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"go.uber.org/zap"
)

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	publisher notify.Publisher
	now       func() time.Time
}

func NewService(repo repository.Repository, publisher notify.Publisher, log *zap.Logger) *Service {
	return &Service{
		log:       log,
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// SubmitExtension files a pending due-date extension for the member's own
// issued record. One pending request per record; the insert enforces it.
func (s *Service) SubmitExtension(ctx context.Context, req model.SubmitExtensionRequest) (model.LendingRequest, error) {
	if req.RequestedDays < 1 || req.RequestedDays > 30 {
		return model.LendingRequest{}, errs.ErrInvalidRange
	}
	rec, err := s.memberIssuedRecord(ctx, req.BorrowRecordID, req.MemberID)
	if err != nil {
		return model.LendingRequest{}, err
	}

	created, err := s.repo.CreateExtensionRequest(ctx, req)
	if err != nil {
		return model.LendingRequest{}, err
	}

	if err := s.publisher.Publish(ctx, kafka.EventNotification{
		UserID:    req.MemberID,
		Type:      string(model.NotificationExtensionRequested),
		RelatedID: created.ID,
		BookTitle: rec.BookTitle,
		Days:      req.RequestedDays,
	}); err != nil {
		s.log.Error("SubmitExtension publish", zap.String("request", created.ID), zap.Error(err))
	}
	return created, nil
}

// SubmitRenewal files a pending renewal; exhausted or overdue records are
// refused up front so librarians only see actionable requests.
func (s *Service) SubmitRenewal(ctx context.Context, req model.SubmitRenewalRequest) (model.LendingRequest, error) {
	rec, err := s.memberIssuedRecord(ctx, req.BorrowRecordID, req.MemberID)
	if err != nil {
		return model.LendingRequest{}, err
	}
	if rec.RenewalCount >= rec.MaxRenewals {
		return model.LendingRequest{}, errs.ErrRenewalLimit
	}
	if s.now().After(rec.DueDate) {
		return model.LendingRequest{}, errs.ErrAlreadyOverdue
	}

	created, err := s.repo.CreateRenewalRequest(ctx, req)
	if err != nil {
		return model.LendingRequest{}, err
	}

	if err := s.publisher.Publish(ctx, kafka.EventNotification{
		UserID:    req.MemberID,
		Type:      string(model.NotificationRenewalRequested),
		RelatedID: created.ID,
		BookTitle: rec.BookTitle,
	}); err != nil {
		s.log.Error("SubmitRenewal publish", zap.String("request", created.ID), zap.Error(err))
	}
	return created, nil
}

func (s *Service) memberIssuedRecord(ctx context.Context, borrowID, memberID string) (model.BorrowDetails, error) {
	rec, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return model.BorrowDetails{}, err
	}
	if rec.MemberID != memberID || rec.Status != model.BorrowStatusIssued {
		return model.BorrowDetails{}, errs.ErrNotFound
	}
	return rec, nil
}

// Decide resolves a pending request. The first decision wins; deciding an
// already resolved request reports not found. Approval advances the due date
// in the same transaction as the request update.
func (s *Service) Decide(ctx context.Context, kind model.RequestKind, req model.DecideRequest) (model.DecisionResult, error) {
	pending, err := s.repo.GetPendingRequest(ctx, kind, req.RequestID)
	if err != nil {
		return model.DecisionResult{}, err
	}

	var newDueDate *time.Time
	if req.Status == model.RequestStatusApproved {
		due := NewDueDate(kind, pending.DueDate, pending.RequestedDays)
		newDueDate = &due
	}

	if err := s.repo.DecideRequest(ctx, kind, req, newDueDate, s.now()); err != nil {
		return model.DecisionResult{}, err
	}

	event := kafka.EventNotification{
		UserID:    pending.MemberID,
		Type:      outcomeType(kind, req.Status),
		RelatedID: pending.ID,
		BookTitle: pending.BookTitle,
		Reason:    req.Reason,
	}
	if newDueDate != nil {
		event.NewDueDate = *newDueDate
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Error("Decide publish", zap.String("request", pending.ID), zap.Error(err))
	}

	return model.DecisionResult{
		Success:    true,
		Status:     req.Status,
		NewDueDate: newDueDate,
	}, nil
}

func (s *Service) ListRequests(ctx context.Context, kind model.RequestKind, status model.RequestStatus) ([]model.RequestDetails, error) {
	return s.repo.ListRequests(ctx, kind, status)
}

// NewDueDate applies the approval policy: extensions add the requested days,
// renewals add the fixed renewal period. The due date only ever advances.
func NewDueDate(kind model.RequestKind, dueDate time.Time, requestedDays int) time.Time {
	if kind == model.RequestKindRenewal {
		return dueDate.AddDate(0, 0, borrow.RenewalPeriodDays)
	}
	return dueDate.AddDate(0, 0, requestedDays)
}

func outcomeType(kind model.RequestKind, status model.RequestStatus) string {
	switch {
	case kind == model.RequestKindExtension && status == model.RequestStatusApproved:
		return string(model.NotificationExtensionApproved)
	case kind == model.RequestKindExtension:
		return string(model.NotificationExtensionRejected)
	case status == model.RequestStatusApproved:
		return string(model.NotificationRenewalApproved)
	default:
		return string(model.NotificationRenewalRejected)
	}
}
