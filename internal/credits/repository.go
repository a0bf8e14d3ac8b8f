package credits

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrUserNotFound        = errors.New("user not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrPurchaseNotPending  = errors.New("purchase is not pending")
)

const txColumns = `id, user_id, amount, type, description, booking_id, beneficiary_id, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// applyEntry is the single write path for completed ledger entries: it
// locks the user's row, moves the balance and appends the transaction.
// The row lock makes the check-then-mutate sequence safe against
// concurrent debits of the same user.
func applyEntry(ctx context.Context, tx *sqlx.Tx, userID, amount int, txType, description string, bookingID, beneficiaryID *int) (*Transaction, error) {
	var balance int
	err := tx.QueryRowxContext(ctx,
		`SELECT credits FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newBalance := balance + amount
	if newBalance < 0 {
		return nil, ErrInsufficientCredits
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET credits = $1 WHERE id = $2`,
		newBalance, userID,
	); err != nil {
		return nil, err
	}

	var desc *string
	if description != "" {
		desc = &description
	}

	var entry Transaction
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, type, description, booking_id, beneficiary_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6, 'completed')
		 RETURNING `+txColumns,
		userID, amount, txType, desc, bookingID, beneficiaryID,
	).StructScan(&entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *repository) AddCredits(ctx context.Context, userID, amount int, txType, description string, beneficiaryID *int) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := applyEntry(ctx, tx, userID, amount, txType, description, nil, beneficiaryID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return entry, nil
}

// UseCredits debits the payer and credits the booking's team owner in
// one database transaction: either all four writes land or none do.
func (r *repository) UseCredits(ctx context.Context, userID, amount, bookingID int, description string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var ownerID int
	err = tx.QueryRowxContext(ctx,
		`SELECT t.owner_id
		 FROM bookings b
		 JOIN teams t ON b.team_id = t.id
		 WHERE b.id = $1`,
		bookingID,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	if _, err := applyEntry(ctx, tx, userID, -amount, TxBooking, description, &bookingID, &ownerID); err != nil {
		return err
	}

	// Marketplace pass-through: the spent credits land with the team owner.
	if _, err := applyEntry(ctx, tx, ownerID, amount, TxBookingPayment, description, &bookingID, &userID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) GetBalance(ctx context.Context, userID int) (int, error) {
	var balance int
	err := r.db.GetContext(ctx, &balance, `SELECT credits FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unknown user reads as zero rather than erroring.
			return 0, nil
		}
		return 0, err
	}
	return balance, nil
}

func (r *repository) GetTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT `+txColumns+`
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *repository) CreatePurchase(ctx context.Context, userID, amount int) (*Transaction, error) {
	var entry Transaction
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO credit_transactions (user_id, amount, type, status)
		 VALUES ($1, $2, 'purchase', 'pending')
		 RETURNING `+txColumns,
		userID, amount,
	).StructScan(&entry)
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *repository) CompletePurchase(ctx context.Context, transactionID int) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var entry Transaction
	err = tx.QueryRowxContext(ctx,
		`UPDATE credit_transactions
		 SET status = 'completed'
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+txColumns,
		transactionID,
	).StructScan(&entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPurchaseNotPending
		}
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE users SET credits = credits + $1 WHERE id = $2`,
		entry.Amount, entry.UserID,
	)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (r *repository) FailPurchase(ctx context.Context, transactionID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE credit_transactions SET status = 'failed' WHERE id = $1 AND status = 'pending'`,
		transactionID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrPurchaseNotPending
	}

	return nil
}

func (r *repository) RefundInTx(ctx context.Context, tx *sqlx.Tx, userID, amount, bookingID int, description string) error {
	_, err := applyEntry(ctx, tx, userID, amount, TxRefund, description, &bookingID, nil)
	return err
}
