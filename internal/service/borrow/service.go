package borrow

import (
	"context"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/internal/repository"
	"github.com/Adhi509/admin-librarian-portal/internal/service/notify"
	"github.com/Adhi509/admin-librarian-portal/pkg/kafka"
	"go.uber.org/zap"
)

const (
	DefaultLendingDays = 14
	RenewalPeriodDays  = 14
	DefaultMaxRenewals = 2

	// fallbacks for members without a plan
	DefaultMaxBooks   = 3
	DefaultFinePerDay = 5
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

// Issue lends a book copy to a member. The member's plan bounds how many
// records may be issued concurrently; the stock decrement guards copies.
func (s *Service) Issue(ctx context.Context, req model.IssueBookRequest) (model.BorrowRecord, error) {
	plan, err := s.repo.GetMemberPlan(ctx, req.MemberID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	maxBooks := DefaultMaxBooks
	if plan != nil {
		maxBooks = plan.MaxBooksAllowed
	}

	issued, err := s.repo.CountIssuedByMember(ctx, req.MemberID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	if issued >= maxBooks {
		return model.BorrowRecord{}, errs.ErrLimitExceeded
	}

	lendingDays := req.LendingDays
	if lendingDays <= 0 {
		lendingDays = DefaultLendingDays
	}
	issueDate := s.now()
	dueDate := issueDate.AddDate(0, 0, lendingDays)

	return s.repo.IssueBook(ctx, req, issueDate, dueDate, DefaultMaxRenewals)
}

// Return finalizes an issued record, computing the fine at return time.
func (s *Service) Return(ctx context.Context, borrowID string) (model.ReturnResult, error) {
	rec, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return model.ReturnResult{}, err
	}
	if rec.Status != model.BorrowStatusIssued {
		return model.ReturnResult{}, errs.ErrNotFound
	}

	finePerDay := float64(DefaultFinePerDay)
	if rec.FinePerDay != nil {
		finePerDay = *rec.FinePerDay
	}

	returnDate := s.now()
	fine := CalculateFine(rec.DueDate, returnDate, finePerDay)

	if err := s.repo.ReturnBook(ctx, borrowID, returnDate, fine); err != nil {
		return model.ReturnResult{}, err
	}
	return model.ReturnResult{
		Success:    true,
		FineAmount: fine,
		ReturnDate: returnDate,
	}, nil
}

// Renew extends the member's own record by the renewal period. Overdue or
// exhausted records cannot be renewed.
func (s *Service) Renew(ctx context.Context, borrowID, memberID string) (model.RenewResult, error) {
	rec, err := s.repo.GetBorrow(ctx, borrowID)
	if err != nil {
		return model.RenewResult{}, err
	}
	if rec.MemberID != memberID || rec.Status != model.BorrowStatusIssued {
		return model.RenewResult{}, errs.ErrNotFound
	}
	if rec.RenewalCount >= rec.MaxRenewals {
		return model.RenewResult{}, errs.ErrRenewalLimit
	}
	now := s.now()
	if now.After(rec.DueDate) {
		return model.RenewResult{}, errs.ErrAlreadyOverdue
	}

	newDueDate := rec.DueDate.AddDate(0, 0, RenewalPeriodDays)
	if err := s.repo.RenewBook(ctx, borrowID, newDueDate); err != nil {
		return model.RenewResult{}, err
	}

	if err := s.publisher.Publish(ctx, kafka.EventNotification{
		UserID:     memberID,
		Type:       string(model.NotificationRenewalApproved),
		RelatedID:  borrowID,
		BookTitle:  rec.BookTitle,
		NewDueDate: newDueDate,
	}); err != nil {
		s.log.Error("Renew publish", zap.String("borrow", borrowID), zap.Error(err))
	}

	return model.RenewResult{
		Success:           true,
		NewDueDate:        newDueDate,
		RenewalsRemaining: rec.MaxRenewals - (rec.RenewalCount + 1),
	}, nil
}

func (s *Service) GetBorrow(ctx context.Context, borrowID string) (model.BorrowDetails, error) {
	return s.repo.GetBorrow(ctx, borrowID)
}

func (s *Service) ListBorrows(ctx context.Context, memberID string, status model.BorrowStatus, page, size int) (model.ListBorrows, error) {
	return s.repo.ListBorrows(ctx, memberID, status, page, size)
}

// CalculateFine accrues only past the due date, truncating to whole days.
func CalculateFine(dueDate, returnDate time.Time, finePerDay float64) float64 {
	days := notify.DaysOverdue(dueDate, returnDate)
	if days <= 0 {
		return 0
	}
	return float64(days) * finePerDay
}
