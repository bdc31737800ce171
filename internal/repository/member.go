package repository

import (
	"context"
	"database/sql"

	"github.com/Adhi509/admin-librarian-portal/internal/errs"
	"github.com/Adhi509/admin-librarian-portal/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var planColumns = []string{"id", "name", "max_books_allowed", "fine_per_day", "duration_days", "annual_fee", "created_at"}

func (r *repository) ListPlans(ctx context.Context) ([]model.MembershipPlan, error) {
	q, args, err := qb.Select(planColumns...).
		From(plansTableName).
		OrderBy("annual_fee").
		ToSql()
	if err != nil {
		return nil, err
	}
	var plans []model.MembershipPlan
	if err := r.db.SelectContext(ctx, &plans, q, args...); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repository) CreatePlan(ctx context.Context, req model.CreatePlanRequest) (model.MembershipPlan, error) {
	q, args, err := qb.Insert(plansTableName).
		Columns("id", "name", "max_books_allowed", "fine_per_day", "duration_days", "annual_fee").
		Values(uuid.New(), req.Name, req.MaxBooksAllowed, req.FinePerDay, req.DurationDays, req.AnnualFee).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.MembershipPlan{}, err
	}
	var plan model.MembershipPlan
	if err := r.db.GetContext(ctx, &plan, q, args...); err != nil {
		return model.MembershipPlan{}, err
	}
	return plan, nil
}

var profileColumns = []string{
	"id", "email", "full_name", "phone", "address",
	"membership_plan_id", "membership_start_date", "membership_expiry_date", "created_at",
}

func (r *repository) ListMembers(ctx context.Context) ([]model.Profile, error) {
	q, args, err := qb.Select(profileColumns...).
		From(profilesTableName).
		OrderBy("full_name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var members []model.Profile
	if err := r.db.SelectContext(ctx, &members, q, args...); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) GetMember(ctx context.Context, memberID string) (model.Profile, error) {
	q, args, err := qb.Select(profileColumns...).
		From(profilesTableName).
		Where(sq.Eq{"id": memberID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	var member model.Profile
	if err := r.db.GetContext(ctx, &member, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, errs.ErrNotFound
		}
		return model.Profile{}, err
	}
	return member, nil
}

// GetMemberPlan resolves the member's plan; nil when the member has none.
func (r *repository) GetMemberPlan(ctx context.Context, memberID string) (*model.MembershipPlan, error) {
	q, args, err := qb.Select(
		"mp.id", "mp.name", "mp.max_books_allowed", "mp.fine_per_day",
		"mp.duration_days", "mp.annual_fee", "mp.created_at").
		From(plansTableName + " mp").
		Join(profilesTableName + " p on p.membership_plan_id = mp.id").
		Where(sq.Eq{"p.id": memberID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	var plan model.MembershipPlan
	if err := r.db.GetContext(ctx, &plan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repository) ListAdminIDs(ctx context.Context) ([]string, error) {
	q, args, err := qb.Select("user_id").
		From(userRolesTableName).
		Where(sq.Eq{"role": "admin"}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, q, args...); err != nil {
		return nil, err
	}
	return ids, nil
}
