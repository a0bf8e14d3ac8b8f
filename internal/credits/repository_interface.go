package credits

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	AddCredits(ctx context.Context, userID, amount int, txType, description string, beneficiaryID *int) (*Transaction, error)
	UseCredits(ctx context.Context, userID, amount, bookingID int, description string) error
	GetBalance(ctx context.Context, userID int) (int, error)
	GetTransactions(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
	CreatePurchase(ctx context.Context, userID, amount int) (*Transaction, error)
	CompletePurchase(ctx context.Context, transactionID int) (*Transaction, error)
	FailPurchase(ctx context.Context, transactionID int) error

	// RefundInTx applies a refund inside a caller-owned transaction so a
	// compound mutation (cancellation) can commit or roll back as one unit.
	RefundInTx(ctx context.Context, tx *sqlx.Tx, userID, amount, bookingID int, description string) error
}
