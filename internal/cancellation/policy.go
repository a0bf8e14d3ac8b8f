package cancellation

import (
	"math"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/team"
)

// Policy controls when a player may cancel a registration and how much
// of the match fee comes back.
type Policy struct {
	MaxCancellationsPerMonth int  `json:"max_cancellations_per_month"`
	MinHoursBefore           int  `json:"min_hours_before"`
	RefundPercent            int  `json:"refund_percent"`
	RefundDeadlineHours      int  `json:"refund_deadline_hours"`
	EarlyRefundPercent       int  `json:"early_refund_percent"`
	AllowOwnerOverride       bool `json:"allow_owner_override"`
}

// Default is the platform-wide policy applied when a team sets no
// override: two cancellations a month, at least six hours notice, full
// refund a day or more out, half refund inside that.
var Default = Policy{
	MaxCancellationsPerMonth: 2,
	MinHoursBefore:           6,
	RefundPercent:            50,
	RefundDeadlineHours:      24,
	EarlyRefundPercent:       100,
	AllowOwnerOverride:       true,
}

// Resolve merges a team's per-field overrides onto the default. A nil
// field means the default applies.
func Resolve(t *team.Team) Policy {
	p := Default
	if t == nil {
		return p
	}
	if t.MaxCancellationsPerMonth != nil {
		p.MaxCancellationsPerMonth = *t.MaxCancellationsPerMonth
	}
	if t.MinHoursBefore != nil {
		p.MinHoursBefore = *t.MinHoursBefore
	}
	if t.RefundPercent != nil {
		p.RefundPercent = *t.RefundPercent
	}
	if t.RefundDeadlineHours != nil {
		p.RefundDeadlineHours = *t.RefundDeadlineHours
	}
	if t.EarlyRefundPercent != nil {
		p.EarlyRefundPercent = *t.EarlyRefundPercent
	}
	if t.AllowOwnerOverride != nil {
		p.AllowOwnerOverride = *t.AllowOwnerOverride
	}
	return p
}

// Decision is the outcome of evaluating a cancellation request. A
// rejected request carries the reason; an approved one carries the
// refund in credits.
type Decision struct {
	Allowed      bool   `json:"allowed"`
	Reason       string `json:"reason,omitempty"`
	RefundAmount int    `json:"refund_amount"`
}

// Evaluate applies the policy to a single registration. Pure: all
// state it needs arrives as arguments, including the clock.
func Evaluate(startsAt time.Time, creditCost int, p Policy, monthlyCancellations int, now time.Time) Decision {
	if !startsAt.After(now) {
		return Decision{Allowed: false, Reason: "booking has already started"}
	}

	hoursBefore := startsAt.Sub(now).Hours()
	if hoursBefore < float64(p.MinHoursBefore) {
		return Decision{Allowed: false, Reason: "too close to kick-off to cancel"}
	}

	if monthlyCancellations >= p.MaxCancellationsPerMonth {
		return Decision{Allowed: false, Reason: "monthly cancellation limit reached"}
	}

	percent := p.RefundPercent
	if hoursBefore >= float64(p.RefundDeadlineHours) {
		percent = p.EarlyRefundPercent
	}

	refund := int(math.Round(float64(creditCost) * float64(percent) / 100))
	return Decision{Allowed: true, RefundAmount: refund}
}
