package team

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTeamNotFound = errors.New("team not found")

const teamColumns = `id, name, owner_id, invite_code, subscription_tier, credit_value_cents,
	recurring_enabled, recurring_weekday, recurring_time,
	max_cancellations_per_month, min_hours_before, refund_percent,
	refund_deadline_hours, early_refund_percent, allow_owner_override, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTeam(ctx context.Context, name string, ownerID int, inviteCode string) (*Team, error) {
	query := `
		INSERT INTO teams (name, owner_id, invite_code)
		VALUES ($1, $2, $3)
		RETURNING ` + teamColumns

	var team Team
	err := r.db.GetContext(ctx, &team, query, name, ownerID, inviteCode)
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *repository) GetTeamByID(ctx context.Context, id int) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	var team Team
	err := r.db.GetContext(ctx, &team, query, id)
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *repository) GetTeamByInviteCode(ctx context.Context, code string) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE invite_code = $1`

	var team Team
	err := r.db.GetContext(ctx, &team, query, code)
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *repository) UpdatePolicy(ctx context.Context, teamID int, req UpdatePolicyRequest) (*Team, error) {
	query := `
		UPDATE teams
		SET max_cancellations_per_month = $1,
		    min_hours_before = $2,
		    refund_percent = $3,
		    refund_deadline_hours = $4,
		    early_refund_percent = $5,
		    allow_owner_override = $6
		WHERE id = $7
		RETURNING ` + teamColumns

	var team Team
	err := r.db.GetContext(ctx, &team, query,
		req.MaxCancellationsPerMonth,
		req.MinHoursBefore,
		req.RefundPercent,
		req.RefundDeadlineHours,
		req.EarlyRefundPercent,
		req.AllowOwnerOverride,
		teamID,
	)
	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (r *repository) RegenerateInviteCode(ctx context.Context, teamID int, code string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET invite_code = $1 WHERE id = $2`, code, teamID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}

	return nil
}
