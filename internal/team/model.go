package team

import "time"

type Team struct {
	ID               int    `db:"id" json:"id"`
	Name             string `db:"name" json:"name"`
	OwnerID          int    `db:"owner_id" json:"owner_id"`
	InviteCode       string `db:"invite_code" json:"invite_code"`
	SubscriptionTier string `db:"subscription_tier" json:"subscription_tier"`

	// Price of one credit in minor currency units, used when purchasing.
	CreditValueCents int `db:"credit_value_cents" json:"credit_value_cents"`

	RecurringEnabled bool    `db:"recurring_enabled" json:"recurring_enabled"`
	RecurringWeekday *int    `db:"recurring_weekday" json:"recurring_weekday,omitempty"`
	RecurringTime    *string `db:"recurring_time" json:"recurring_time,omitempty"`

	// Optional overrides of the default cancellation policy. Null means
	// "use the platform default" per field.
	MaxCancellationsPerMonth *int  `db:"max_cancellations_per_month" json:"max_cancellations_per_month,omitempty"`
	MinHoursBefore           *int  `db:"min_hours_before" json:"min_hours_before,omitempty"`
	RefundPercent            *int  `db:"refund_percent" json:"refund_percent,omitempty"`
	RefundDeadlineHours      *int  `db:"refund_deadline_hours" json:"refund_deadline_hours,omitempty"`
	EarlyRefundPercent       *int  `db:"early_refund_percent" json:"early_refund_percent,omitempty"`
	AllowOwnerOverride       *bool `db:"allow_owner_override" json:"allow_owner_override,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required"`
}

type JoinTeamRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

type UpdatePolicyRequest struct {
	MaxCancellationsPerMonth *int  `json:"max_cancellations_per_month" binding:"omitempty,gte=0"`
	MinHoursBefore           *int  `json:"min_hours_before" binding:"omitempty,gte=0"`
	RefundPercent            *int  `json:"refund_percent" binding:"omitempty,gte=0,lte=100"`
	RefundDeadlineHours      *int  `json:"refund_deadline_hours" binding:"omitempty,gte=0"`
	EarlyRefundPercent       *int  `json:"early_refund_percent" binding:"omitempty,gte=0,lte=100"`
	AllowOwnerOverride       *bool `json:"allow_owner_override"`
}
