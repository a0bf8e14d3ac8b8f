package cancellation

import (
	"context"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
)

type Repository interface {
	GetPlayerBooking(ctx context.Context, bookingID, playerID int) (*booking.PlayerBooking, error)
	MonthlyCancellationCount(ctx context.Context, playerID int, monthStart, monthEnd time.Time) (int, error)
	CancelPlayerBooking(ctx context.Context, bookingID, playerID, refund int, reason string) error
	CancelBooking(ctx context.Context, bookingID, creditCost int, reason string) ([]int, error)
}
