package booking

import (
	"context"
	"time"
)

type Repository interface {
	CreateBooking(ctx context.Context, b *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	ListByTeam(ctx context.Context, teamID int, upcomingOnly bool) ([]Booking, error)
	AddPlayer(ctx context.Context, bookingID, playerID int) (*PlayerBooking, error)
	RemovePlayer(ctx context.Context, bookingID, playerID int, restoreSlot bool) error
	HasPlayer(ctx context.Context, bookingID, playerID int) (bool, error)
	ListPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error)
	ListUserBookings(ctx context.Context, playerID int) ([]Booking, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error)
	ListUnremindedPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error)
	MarkReminderSent(ctx context.Context, playerBookingID int) error
	UpdateWeather(ctx context.Context, bookingID int, temp float64, code string, at time.Time) error
}
