package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/logger"
	"github.com/ifex-stack/kickbook-sub000/internal/metrics"
	"github.com/ifex-stack/kickbook-sub000/internal/team"
)

var ErrNotAllowed = errors.New("not allowed to cancel this booking")

type Service interface {
	CanCancel(ctx context.Context, playerID, bookingID int) (*Decision, error)
	ProcessCancellation(ctx context.Context, playerID, bookingID int, reason string) (*Result, error)
	CancelEntireBooking(ctx context.Context, actorID int, isAdmin bool, bookingID int, reason string) (*Result, error)
}

type service struct {
	repo        Repository
	bookingRepo booking.Repository
	teamRepo    team.Repository
	notifier    booking.Notifier
}

func NewService(repo Repository, bookingRepo booking.Repository, teamRepo team.Repository, notifier booking.Notifier) Service {
	return &service{
		repo:        repo,
		bookingRepo: bookingRepo,
		teamRepo:    teamRepo,
		notifier:    notifier,
	}
}

// decide resolves everything Evaluate needs: the booking, the team's
// policy and the player's cancellation count for the current calendar
// month.
func (s *service) decide(ctx context.Context, playerID, bookingID int, now time.Time) (*booking.Booking, Decision, error) {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, Decision{}, err
	}

	pb, err := s.repo.GetPlayerBooking(ctx, bookingID, playerID)
	if err != nil {
		return nil, Decision{}, err
	}
	if pb.Status == booking.PlayerStatusCancelled {
		return nil, Decision{}, ErrAlreadyCancelled
	}

	t, err := s.teamRepo.GetTeamByID(ctx, b.TeamID)
	if err != nil {
		return nil, Decision{}, err
	}
	policy := Resolve(t)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	count, err := s.repo.MonthlyCancellationCount(ctx, playerID, monthStart, monthEnd)
	if err != nil {
		return nil, Decision{}, err
	}

	return b, Evaluate(b.StartsAt, b.CreditCost, policy, count, now), nil
}

func (s *service) CanCancel(ctx context.Context, playerID, bookingID int) (*Decision, error) {
	_, decision, err := s.decide(ctx, playerID, bookingID, time.Now())
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

func (s *service) ProcessCancellation(ctx context.Context, playerID, bookingID int, reason string) (*Result, error) {
	_, decision, err := s.decide(ctx, playerID, bookingID, time.Now())
	if err != nil {
		return nil, err
	}

	if !decision.Allowed {
		return &Result{Success: false, Message: decision.Reason}, nil
	}

	err = s.repo.CancelPlayerBooking(ctx, bookingID, playerID, decision.RefundAmount, reason)
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			// Lost the race against a duplicate request. Nothing to undo.
			return &Result{Success: false, Message: "registration already cancelled"}, nil
		}
		return nil, err
	}

	metrics.RecordCancellation("player", decision.RefundAmount)

	return &Result{
		Success:      true,
		Message:      "cancellation processed",
		RefundAmount: decision.RefundAmount,
	}, nil
}

func (s *service) CancelEntireBooking(ctx context.Context, actorID int, isAdmin bool, bookingID int, reason string) (*Result, error) {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		t, err := s.teamRepo.GetTeamByID(ctx, b.TeamID)
		if err != nil {
			return nil, err
		}
		if t.OwnerID != actorID {
			return nil, ErrNotAllowed
		}
	}

	playerIDs, err := s.repo.CancelBooking(ctx, bookingID, b.CreditCost, reason)
	if err != nil {
		if errors.Is(err, ErrBookingCancelled) {
			return &Result{Success: true, Message: "booking already cancelled"}, nil
		}
		return nil, err
	}

	metrics.RecordCancellation("booking", b.CreditCost*len(playerIDs))

	if s.notifier != nil {
		body := fmt.Sprintf("%s on %s has been cancelled. Your %d credits are back on your balance.",
			b.Title, b.StartsAt.Format("Mon Jan 2 at 15:04"), b.CreditCost)
		for _, playerID := range playerIDs {
			if err := s.notifier.Notify(ctx, playerID, "booking_cancelled", "Match cancelled", body); err != nil {
				logger.Warn("cancellation notification failed", "player_id", playerID, "error", err)
			}
		}
	}

	return &Result{
		Success:      true,
		Message:      fmt.Sprintf("booking cancelled, %d players refunded", len(playerIDs)),
		RefundAmount: b.CreditCost * len(playerIDs),
	}, nil
}
