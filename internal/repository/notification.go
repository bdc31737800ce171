package repository

import (
	"context"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateNotification inserts an inbox row. The dedup index swallows repeats
// of the same user/type/related notice within a day.
func (r *repository) CreateNotification(ctx context.Context, n model.Notification) error {
	q, args, err := qb.Insert(notificationsTableName).
		Columns("id", "user_id", "type", "title", "message", "related_id").
		Values(uuid.New(), n.UserID, n.Type, n.Title, n.Message, n.RelatedID).
		Suffix("on conflict do nothing").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		r.log.Error("CreateNotification", zap.String("q", q), zap.Any("args", args))
		return err
	}
	return nil
}

func (r *repository) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	q, args, err := qb.Select("id", "user_id", "type", "title", "message", "read", "related_id::text as related_id", "created_at").
		From(notificationsTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Notification
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	q, args, err := qb.Update(notificationsTableName).
		Set("read", true).
		Where(sq.Eq{"id": notificationID}).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	q, args, err := qb.Delete(notificationsTableName).
		Where(sq.Eq{"id": notificationID}).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
