package booking

import "time"

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	PlayerStatusConfirmed = "confirmed"
	PlayerStatusPending   = "pending"
	PlayerStatusCancelled = "cancelled"
)

type Booking struct {
	ID             int        `db:"id" json:"id"`
	TeamID         int        `db:"team_id" json:"team_id"`
	Title          string     `db:"title" json:"title"`
	Location       string     `db:"location" json:"location"`
	StartsAt       time.Time  `db:"starts_at" json:"starts_at"`
	EndsAt         time.Time  `db:"ends_at" json:"ends_at"`
	Format         int        `db:"format" json:"format"`
	TotalSlots     int        `db:"total_slots" json:"total_slots"`
	AvailableSlots int        `db:"available_slots" json:"available_slots"`
	CreditCost     int        `db:"credit_cost" json:"credit_cost"`
	Status         string     `db:"status" json:"status"`
	WeatherTemp    *float64   `db:"weather_temp" json:"weather_temp,omitempty"`
	WeatherCode    *string    `db:"weather_code" json:"weather_code,omitempty"`
	WeatherAt      *time.Time `db:"weather_at" json:"weather_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type PlayerBooking struct {
	ID                 int        `db:"id" json:"id"`
	BookingID          int        `db:"booking_id" json:"booking_id"`
	PlayerID           int        `db:"player_id" json:"player_id"`
	Status             string     `db:"status" json:"status"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	RefundAmount       *int       `db:"refund_amount" json:"refund_amount,omitempty"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	ReminderSent       bool       `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// PlayerBookingWithUser joins the registration with the player's
// identity for roster style listings.
type PlayerBookingWithUser struct {
	PlayerBooking
	PlayerName  string `db:"player_name" json:"player_name"`
	PlayerEmail string `db:"player_email" json:"player_email"`
	SkillRating int    `db:"skill_rating" json:"skill_rating"`
	Position    string `db:"position" json:"position"`
}

type CreateBookingRequest struct {
	TeamID     int       `json:"team_id" binding:"required"`
	Title      string    `json:"title" binding:"required"`
	Location   string    `json:"location"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	EndsAt     time.Time `json:"ends_at" binding:"required"`
	Format     int       `json:"format" binding:"required,oneof=5 7 11"`
	TotalSlots int       `json:"total_slots" binding:"required,gt=0"`
	CreditCost int       `json:"credit_cost" binding:"gte=0"`
}
