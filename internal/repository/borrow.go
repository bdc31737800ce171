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

var borrowDetailColumns = []string{
	"br.id", "br.book_id", "br.member_id", "coalesce(br.issued_by::text, '') as issued_by",
	"br.issue_date", "br.due_date", "br.return_date", "br.status", "br.fine_amount",
	"br.renewal_count", "br.max_renewals",
	"b.title as book_title", "p.full_name as member_name", "mp.fine_per_day",
}

func (r *repository) borrowDetailsQuery() sq.SelectBuilder {
	return qb.Select(borrowDetailColumns...).
		From(borrowsTableName + " br").
		Join(booksTableName + " b on b.id = br.book_id").
		Join(profilesTableName + " p on p.id = br.member_id").
		LeftJoin(plansTableName + " mp on mp.id = p.membership_plan_id")
}

func (r *repository) CountIssuedByMember(ctx context.Context, memberID string) (int, error) {
	q := fmt.Sprintf(`select count(*) from %s where member_id = $1 and status = 'issued'`, borrowsTableName)
	var count int
	if err := r.db.QueryRowContext(ctx, q, memberID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// IssueBook decrements the book stock and creates the borrow record in one
// transaction. The conditional update is the out-of-stock guard.
func (r *repository) IssueBook(ctx context.Context, req model.IssueBookRequest, issueDate, dueDate time.Time, maxRenewals int) (model.BorrowRecord, error) {
	var record model.BorrowRecord
	err := r.runInTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`update %s set available_copies = available_copies - 1
				where id = $1 and available_copies > 0`, booksTableName), req.BookID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errs.ErrOutOfStock
		}

		q, args, err := qb.Insert(borrowsTableName).
			Columns("id", "book_id", "member_id", "issued_by", "issue_date", "due_date", "status", "max_renewals").
			Values(uuid.New(), req.BookID, req.MemberID, req.IssuedBy, issueDate, dueDate, model.BorrowStatusIssued, maxRenewals).
			Suffix("returning id, book_id, member_id, coalesce(issued_by::text, '') as issued_by, issue_date, due_date, return_date, status, fine_amount, renewal_count, max_renewals").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &record, q, args...); err != nil {
			r.log.Error("IssueBook", zap.String("q", q), zap.Any("args", args))
			return err
		}
		return nil
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return record, nil
}

func (r *repository) GetBorrow(ctx context.Context, borrowID string) (model.BorrowDetails, error) {
	q, args, err := r.borrowDetailsQuery().
		Where(sq.Eq{"br.id": borrowID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BorrowDetails{}, err
	}
	var rec model.BorrowDetails
	if err := r.db.GetContext(ctx, &rec, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowDetails{}, errs.ErrNotFound
		}
		return model.BorrowDetails{}, err
	}
	return rec, nil
}

func (r *repository) ListBorrows(ctx context.Context, memberID string, status model.BorrowStatus, page, size int) (model.ListBorrows, error) {
	q := r.borrowDetailsQuery().OrderBy("br.due_date")

	if memberID != "" {
		q = q.Where(sq.Eq{"br.member_id": memberID})
	}
	// overdue is derived, never stored
	switch status {
	case "":
	case model.BorrowStatusOverdue:
		q = q.Where(sq.Eq{"br.status": model.BorrowStatusIssued}).
			Where(sq.Lt{"br.due_date": time.Now()})
	default:
		q = q.Where(sq.Eq{"br.status": status})
	}
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBorrows{}, err
	}
	r.log.Debug("ListBorrows", zap.String("query", query), zap.Any("args", args))

	var records []model.BorrowDetails
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return model.ListBorrows{}, err
	}

	return model.ListBorrows{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: len(records),
		},
		Items: records,
	}, nil
}

// ReturnBook finalizes an issued record and restores the book stock in one
// transaction. A record not in the issued state reports not found.
func (r *repository) ReturnBook(ctx context.Context, borrowID string, returnDate time.Time, fine float64) error {
	return r.runInTx(ctx, func(tx *sqlx.Tx) error {
		q := fmt.Sprintf(`update %s
			set status = 'returned', return_date = $2, fine_amount = $3
			where id = $1 and status = 'issued'
			returning book_id`, borrowsTableName)

		var bookID string
		if err := tx.QueryRowContext(ctx, q, borrowID, returnDate, fine).Scan(&bookID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}

		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`update %s set available_copies = available_copies + 1 where id = $1`, booksTableName), bookID)
		return err
	})
}

func (r *repository) RenewBook(ctx context.Context, borrowID string, newDueDate time.Time) error {
	q := fmt.Sprintf(`update %s
		set due_date = $2, renewal_count = renewal_count + 1
		where id = $1 and status = 'issued' and renewal_count < max_renewals`, borrowsTableName)

	res, err := r.db.ExecContext(ctx, q, borrowID, newDueDate)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) ListOverdueIssued(ctx context.Context, now time.Time) ([]model.BorrowDetails, error) {
	q, args, err := r.borrowDetailsQuery().
		Where(sq.Eq{"br.status": model.BorrowStatusIssued}).
		Where(sq.Lt{"br.due_date": now}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var records []model.BorrowDetails
	if err := r.db.SelectContext(ctx, &records, q, args...); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) ListDueSoon(ctx context.Context, now, until time.Time) ([]model.BorrowDetails, error) {
	q, args, err := r.borrowDetailsQuery().
		Where(sq.Eq{"br.status": model.BorrowStatusIssued}).
		Where(sq.GtOrEq{"br.due_date": now}).
		Where(sq.LtOrEq{"br.due_date": until}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var records []model.BorrowDetails
	if err := r.db.SelectContext(ctx, &records, q, args...); err != nil {
		return nil, err
	}
	return records, nil
}
