package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func requestDetailColumns(kind model.RequestKind) []string {
	cols := []string{
		"r.id", "r.borrow_record_id", "r.member_id", "r.status",
		"r.librarian_id::text as librarian_id", "r.librarian_reason", "r.processed_at", "r.created_at",
		"b.title as book_title", "br.due_date", "br.renewal_count", "br.max_renewals",
	}
	if kind == model.RequestKindExtension {
		cols = append(cols, "r.requested_days", "r.reason")
	} else {
		cols = append(cols, "0 as requested_days", "'' as reason")
	}
	return cols
}

func (r *repository) requestDetailsQuery(kind model.RequestKind) sq.SelectBuilder {
	return qb.Select(requestDetailColumns(kind)...).
		From(requestsTable(kind) + " r").
		Join(borrowsTableName + " br on br.id = r.borrow_record_id").
		Join(booksTableName + " b on b.id = br.book_id")
}

// CreateExtensionRequest relies on the partial unique index to enforce a
// single pending request per borrow record.
func (r *repository) CreateExtensionRequest(ctx context.Context, req model.SubmitExtensionRequest) (model.LendingRequest, error) {
	q, args, err := qb.Insert(extensionsTableName).
		Columns("id", "borrow_record_id", "member_id", "requested_days", "reason", "status").
		Values(uuid.New(), req.BorrowRecordID, req.MemberID, req.RequestedDays, req.Reason, model.RequestStatusPending).
		Suffix("returning id, borrow_record_id, member_id, requested_days, reason, status, librarian_id::text as librarian_id, librarian_reason, processed_at, created_at").
		ToSql()
	if err != nil {
		return model.LendingRequest{}, err
	}
	var created model.LendingRequest
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.LendingRequest{}, errs.ErrAlreadyPending
		}
		r.log.Error("CreateExtensionRequest", zap.String("q", q), zap.Any("args", args))
		return model.LendingRequest{}, err
	}
	created.Kind = model.RequestKindExtension
	return created, nil
}

func (r *repository) CreateRenewalRequest(ctx context.Context, req model.SubmitRenewalRequest) (model.LendingRequest, error) {
	q, args, err := qb.Insert(renewalsTableName).
		Columns("id", "borrow_record_id", "member_id", "status").
		Values(uuid.New(), req.BorrowRecordID, req.MemberID, model.RequestStatusPending).
		Suffix("returning id, borrow_record_id, member_id, 0 as requested_days, '' as reason, status, librarian_id::text as librarian_id, librarian_reason, processed_at, created_at").
		ToSql()
	if err != nil {
		return model.LendingRequest{}, err
	}
	var created model.LendingRequest
	if err := r.db.GetContext(ctx, &created, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.LendingRequest{}, errs.ErrAlreadyPending
		}
		r.log.Error("CreateRenewalRequest", zap.String("q", q), zap.Any("args", args))
		return model.LendingRequest{}, err
	}
	created.Kind = model.RequestKindRenewal
	return created, nil
}

// GetPendingRequest reports not found for resolved requests as well: the
// caller cannot tell "never existed" from "already processed".
func (r *repository) GetPendingRequest(ctx context.Context, kind model.RequestKind, requestID string) (model.RequestDetails, error) {
	q, args, err := r.requestDetailsQuery(kind).
		Where(sq.Eq{"r.id": requestID}).
		Where(sq.Eq{"r.status": model.RequestStatusPending}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.RequestDetails{}, err
	}
	var req model.RequestDetails
	if err := r.db.GetContext(ctx, &req, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RequestDetails{}, errs.ErrNotFound
		}
		return model.RequestDetails{}, err
	}
	req.Kind = kind
	return req, nil
}

func (r *repository) ListRequests(ctx context.Context, kind model.RequestKind, status model.RequestStatus) ([]model.RequestDetails, error) {
	q := r.requestDetailsQuery(kind).OrderBy("r.created_at desc")
	if status != "" {
		q = q.Where(sq.Eq{"r.status": status})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.RequestDetails
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Kind = kind
	}
	return items, nil
}

// DecideRequest resolves a pending request and, on approval, advances the
// borrow record in the same transaction. The pending-only condition makes the
// first decision win; later ones report not found.
func (r *repository) DecideRequest(ctx context.Context, kind model.RequestKind, req model.DecideRequest, newDueDate *time.Time, processedAt time.Time) error {
	return r.runInTx(ctx, func(tx *sqlx.Tx) error {
		q := fmt.Sprintf(`update %s
			set status = $2, librarian_id = $3, librarian_reason = nullif($4, ''), processed_at = $5
			where id = $1 and status = 'pending'
			returning borrow_record_id`, requestsTable(kind))

		var borrowID string
		err := tx.QueryRowContext(ctx, q, req.RequestID, req.Status, req.LibrarianID, req.Reason, processedAt).Scan(&borrowID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}

		if req.Status != model.RequestStatusApproved {
			return nil
		}
		if newDueDate == nil {
			return errors.New("approved decision without a new due date")
		}

		upd := qb.Update(borrowsTableName).
			Set("due_date", *newDueDate).
			Where(sq.Eq{"id": borrowID})
		if kind == model.RequestKindRenewal {
			upd = upd.Set("renewal_count", sq.Expr("renewal_count + 1"))
		}
		query, args, err := upd.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		return nil
	})
}
