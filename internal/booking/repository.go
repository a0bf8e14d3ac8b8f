package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrBookingFull     = errors.New("booking is full")
	ErrAlreadyJoined   = errors.New("player already registered for this booking")
	ErrNotRegistered   = errors.New("player is not registered for this booking")
)

const bookingColumns = `id, team_id, title, location, starts_at, ends_at, format,
	total_slots, available_slots, credit_cost, status, weather_temp, weather_code,
	weather_at, created_at`

const playerBookingColumns = `pb.id, pb.booking_id, pb.player_id, pb.status,
	pb.cancellation_reason, pb.refund_amount, pb.cancelled_at, pb.reminder_sent, pb.created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (team_id, title, location, starts_at, ends_at, format, total_slots, available_slots, credit_cost, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8, 'active')
		RETURNING ` + bookingColumns

	var created Booking
	err := r.db.GetContext(ctx, &created, query,
		b.TeamID, b.Title, b.Location, b.StartsAt, b.EndsAt, b.Format, b.TotalSlots, b.CreditCost)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) ListByTeam(ctx context.Context, teamID int, upcomingOnly bool) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE team_id = $1`
	if upcomingOnly {
		query += ` AND starts_at > NOW() AND status = 'active'`
	}
	query += ` ORDER BY starts_at ASC`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, teamID); err != nil {
		return nil, err
	}

	return bookings, nil
}

// AddPlayer decrements a slot and inserts the registration in one
// transaction. The conditional UPDATE is the capacity gate: two racing
// joins for the last slot cannot both pass it.
func (r *repository) AddPlayer(ctx context.Context, bookingID, playerID int) (*PlayerBooking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE bookings
		SET available_slots = available_slots - 1
		WHERE id = $1 AND status = 'active' AND available_slots > 0
	`, bookingID)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrBookingFull
	}

	// One row per (booking, player) for the whole lifecycle: a cancelled
	// registration is revived in place, an active one makes the upsert a
	// no-op and scan no rows.
	var pb PlayerBooking
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO player_bookings (booking_id, player_id, status)
		VALUES ($1, $2, 'confirmed')
		ON CONFLICT (booking_id, player_id) DO UPDATE
		SET status = 'confirmed', cancellation_reason = NULL, refund_amount = NULL,
			cancelled_at = NULL, reminder_sent = FALSE
		WHERE player_bookings.status = 'cancelled'
		RETURNING id, booking_id, player_id, status, cancellation_reason, refund_amount, cancelled_at, reminder_sent, created_at
	`, bookingID, playerID).StructScan(&pb)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &pb, nil
}

func (r *repository) RemovePlayer(ctx context.Context, bookingID, playerID int, restoreSlot bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM player_bookings
		WHERE booking_id = $1 AND player_id = $2 AND status != 'cancelled'
	`, bookingID, playerID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotRegistered
	}

	if restoreSlot {
		if _, err := tx.ExecContext(ctx, `
			UPDATE bookings
			SET available_slots = LEAST(available_slots + 1, total_slots)
			WHERE id = $1
		`, bookingID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) HasPlayer(ctx context.Context, bookingID, playerID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM player_bookings
			WHERE booking_id = $1 AND player_id = $2 AND status != 'cancelled'
		)
	`, bookingID, playerID)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) ListPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error) {
	query := `
		SELECT ` + playerBookingColumns + `,
			u.name AS player_name,
			u.email AS player_email,
			u.skill_rating,
			u.position
		FROM player_bookings pb
		JOIN users u ON pb.player_id = u.id
		WHERE pb.booking_id = $1
		ORDER BY pb.created_at ASC
	`

	var players []PlayerBookingWithUser
	if err := r.db.SelectContext(ctx, &players, query, bookingID); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *repository) ListUserBookings(ctx context.Context, playerID int) ([]Booking, error) {
	query := `
		SELECT b.id, b.team_id, b.title, b.location, b.starts_at, b.ends_at, b.format,
			b.total_slots, b.available_slots, b.credit_cost, b.status, b.weather_temp,
			b.weather_code, b.weather_at, b.created_at
		FROM bookings b
		JOIN player_bookings pb ON pb.booking_id = b.id
		WHERE pb.player_id = $1 AND pb.status != 'cancelled'
		ORDER BY b.starts_at DESC
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, playerID); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active' AND starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at ASC
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, from, to); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ListUnremindedPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error) {
	query := `
		SELECT ` + playerBookingColumns + `,
			u.name AS player_name,
			u.email AS player_email,
			u.skill_rating,
			u.position
		FROM player_bookings pb
		JOIN users u ON pb.player_id = u.id
		WHERE pb.booking_id = $1 AND pb.status = 'confirmed' AND pb.reminder_sent = FALSE
	`

	var players []PlayerBookingWithUser
	if err := r.db.SelectContext(ctx, &players, query, bookingID); err != nil {
		return nil, err
	}

	return players, nil
}

func (r *repository) MarkReminderSent(ctx context.Context, playerBookingID int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE player_bookings SET reminder_sent = TRUE WHERE id = $1`,
		playerBookingID)
	return err
}

func (r *repository) UpdateWeather(ctx context.Context, bookingID int, temp float64, code string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET weather_temp = $1, weather_code = $2, weather_at = $3 WHERE id = $4`,
		temp, code, at, bookingID)
	return err
}
