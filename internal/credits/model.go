package credits

import "time"

// Transaction types. Negative amounts are debits, positive are credits;
// the sign is set by the operation, never by the caller.
const (
	TxPurchase       = "purchase"
	TxBooking        = "booking"
	TxBookingPayment = "booking_payment"
	TxRefund         = "refund"
	TxAdjustment     = "adjustment"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Transaction is an immutable ledger entry. The ledger is append-only:
// the only mutation ever applied is the pending -> completed/failed
// status transition on purchases.
type Transaction struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	Amount        int       `db:"amount" json:"amount"`
	Type          string    `db:"type" json:"type"`
	Description   *string   `db:"description" json:"description,omitempty"`
	BookingID     *int      `db:"booking_id" json:"booking_id,omitempty"`
	BeneficiaryID *int      `db:"beneficiary_id" json:"beneficiary_id,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Balance struct {
	UserID  int `json:"user_id"`
	Credits int `json:"credits"`
}

type PurchaseRequest struct {
	Amount int `json:"amount" binding:"required,gte=5,lte=1000"`
}

type UseRequest struct {
	Amount    int    `json:"amount" binding:"required,gt=0"`
	BookingID int    `json:"booking_id" binding:"required"`
	Reason    string `json:"reason"`
}

type WebhookRequest struct {
	TransactionID int    `json:"transaction_id" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=completed failed"`
}
