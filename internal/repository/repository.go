package repository

import (
	"context"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Repository interface {
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
	GetMemberPlan(ctx context.Context, memberID string) (*model.MembershipPlan, error)
	ListAdminIDs(ctx context.Context) ([]string, error)

	CountIssuedByMember(ctx context.Context, memberID string) (int, error)
	IssueBook(ctx context.Context, req model.IssueBookRequest, issueDate, dueDate time.Time, maxRenewals int) (model.BorrowRecord, error)
	GetBorrow(ctx context.Context, borrowID string) (model.BorrowDetails, error)
	ListBorrows(ctx context.Context, memberID string, status model.BorrowStatus, page, size int) (model.ListBorrows, error)
	ReturnBook(ctx context.Context, borrowID string, returnDate time.Time, fine float64) error
	RenewBook(ctx context.Context, borrowID string, newDueDate time.Time) error

	CreateExtensionRequest(ctx context.Context, req model.SubmitExtensionRequest) (model.LendingRequest, error)
	CreateRenewalRequest(ctx context.Context, req model.SubmitRenewalRequest) (model.LendingRequest, error)
	GetPendingRequest(ctx context.Context, kind model.RequestKind, requestID string) (model.RequestDetails, error)
	ListRequests(ctx context.Context, kind model.RequestKind, status model.RequestStatus) ([]model.RequestDetails, error)
	DecideRequest(ctx context.Context, kind model.RequestKind, req model.DecideRequest, newDueDate *time.Time, processedAt time.Time) error

	CreateNotification(ctx context.Context, n model.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID string) error
	DeleteNotification(ctx context.Context, userID, notificationID string) error

	ListOverdueIssued(ctx context.Context, now time.Time) ([]model.BorrowDetails, error)
	ListDueSoon(ctx context.Context, now, until time.Time) ([]model.BorrowDetails, error)
	ListLowStockBooks(ctx context.Context, threshold int) ([]model.Book, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName         = `books`
	categoriesTableName    = `categories`
	plansTableName         = `membership_plans`
	profilesTableName      = `profiles`
	userRolesTableName     = `user_roles`
	borrowsTableName       = `borrow_records`
	extensionsTableName    = `extension_requests`
	renewalsTableName      = `renewal_requests`
	notificationsTableName = `notifications`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// runInTx commits when fn returns nil, rolls back otherwise.
func (r *repository) runInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func requestsTable(kind model.RequestKind) string {
	if kind == model.RequestKindRenewal {
		return renewalsTableName
	}
	return extensionsTableName
}
