package handler

import (
	"context"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	"github.com/Adhi509/admin-librarian-portal/internal/service/borrow"
	"github.com/Adhi509/admin-librarian-portal/internal/service/catalog"
	"github.com/Adhi509/admin-librarian-portal/internal/service/notify"
	"github.com/Adhi509/admin-librarian-portal/internal/service/request"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookID string, req model.CreateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListPlans(ctx context.Context) ([]model.MembershipPlan, error)
	CreatePlan(ctx context.Context, req model.CreatePlanRequest) (model.MembershipPlan, error)
	ListMembers(ctx context.Context) ([]model.Profile, error)
	GetMember(ctx context.Context, memberID string) (model.Profile, error)
}

type BorrowService interface {
	Issue(ctx context.Context, req model.IssueBookRequest) (model.BorrowRecord, error)
	Return(ctx context.Context, borrowID string) (model.ReturnResult, error)
	Renew(ctx context.Context, borrowID, memberID string) (model.RenewResult, error)
	GetBorrow(ctx context.Context, borrowID string) (model.BorrowDetails, error)
	ListBorrows(ctx context.Context, memberID string, status model.BorrowStatus, page, size int) (model.ListBorrows, error)
}

type RequestService interface {
	SubmitExtension(ctx context.Context, req model.SubmitExtensionRequest) (model.LendingRequest, error)
	SubmitRenewal(ctx context.Context, req model.SubmitRenewalRequest) (model.LendingRequest, error)
	Decide(ctx context.Context, kind model.RequestKind, req model.DecideRequest) (model.DecisionResult, error)
	ListRequests(ctx context.Context, kind model.RequestKind, status model.RequestStatus) ([]model.RequestDetails, error)
}

type NotifyService interface {
	Sweep(ctx context.Context, now time.Time) (model.SweepResult, error)
	Notifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

var (
	_ CatalogService = (*catalog.Service)(nil)
	_ BorrowService  = (*borrow.Service)(nil)
	_ RequestService = (*request.Service)(nil)
	_ NotifyService  = (*notify.Service)(nil)
)
