package cancellation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/credits"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotRegistered    = errors.New("player is not registered for this booking")
	ErrAlreadyCancelled = errors.New("registration already cancelled")
	ErrBookingCancelled = errors.New("booking already cancelled")
)

type repository struct {
	db          *sqlx.DB
	creditsRepo credits.Repository
}

func NewRepository(db *sqlx.DB, creditsRepo credits.Repository) Repository {
	return &repository{db: db, creditsRepo: creditsRepo}
}

func (r *repository) GetPlayerBooking(ctx context.Context, bookingID, playerID int) (*booking.PlayerBooking, error) {
	query := `
		SELECT id, booking_id, player_id, status, cancellation_reason, refund_amount,
			cancelled_at, reminder_sent, created_at
		FROM player_bookings
		WHERE booking_id = $1 AND player_id = $2
	`

	var pb booking.PlayerBooking
	err := r.db.GetContext(ctx, &pb, query, bookingID, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotRegistered
		}
		return nil, err
	}

	return &pb, nil
}

func (r *repository) MonthlyCancellationCount(ctx context.Context, playerID int, monthStart, monthEnd time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM player_bookings
		WHERE player_id = $1 AND status = 'cancelled'
			AND cancelled_at >= $2 AND cancelled_at < $3
	`, playerID, monthStart, monthEnd)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CancelPlayerBooking runs the three-step cancellation in a single
// transaction: flip the registration, refund, release the slot. The
// conditional UPDATE makes a concurrent duplicate request lose.
func (r *repository) CancelPlayerBooking(ctx context.Context, bookingID, playerID, refund int, reason string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE player_bookings
		SET status = 'cancelled', cancellation_reason = $1, refund_amount = $2, cancelled_at = NOW()
		WHERE booking_id = $3 AND player_id = $4 AND status IN ('confirmed', 'pending')
	`, reason, refund, bookingID, playerID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCancelled
	}

	if refund > 0 {
		if err := r.creditsRepo.RefundInTx(ctx, tx, playerID, refund, bookingID, "cancellation refund"); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET available_slots = LEAST(available_slots + 1, total_slots)
		WHERE id = $1
	`, bookingID); err != nil {
		return err
	}

	return tx.Commit()
}

// CancelBooking cancels the whole match: every live registration gets
// the full credit cost back exactly once. Slots stay where they are
// since the match is gone. Returns the refunded player IDs so the
// caller can notify them.
func (r *repository) CancelBooking(ctx context.Context, bookingID, creditCost int, reason string) ([]int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'active'
	`, bookingID)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrBookingCancelled
	}

	var playerIDs []int
	err = tx.SelectContext(ctx, &playerIDs, `
		SELECT player_id
		FROM player_bookings
		WHERE booking_id = $1 AND status != 'cancelled'
		ORDER BY player_id
		FOR UPDATE
	`, bookingID)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE player_bookings
		SET status = 'cancelled', cancellation_reason = $1, refund_amount = $2, cancelled_at = NOW()
		WHERE booking_id = $3 AND status != 'cancelled'
	`, reason, creditCost, bookingID); err != nil {
		return nil, err
	}

	if creditCost > 0 {
		for _, playerID := range playerIDs {
			if err := r.creditsRepo.RefundInTx(ctx, tx, playerID, creditCost, bookingID, "booking cancelled"); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return playerIDs, nil
}
