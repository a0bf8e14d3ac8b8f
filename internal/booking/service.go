package booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/credits"
	"github.com/ifex-stack/kickbook-sub000/internal/logger"
	"github.com/ifex-stack/kickbook-sub000/internal/metrics"
	"github.com/ifex-stack/kickbook-sub000/internal/team"
	"github.com/ifex-stack/kickbook-sub000/internal/user"
)

var (
	ErrBookingStarted = errors.New("booking has already started")
	ErrNotTeamMember  = errors.New("player does not belong to the booking's team")
	ErrNotTeamOwner   = errors.New("only the team owner can do this")
)

// Notifier delivers a user-facing notification. Kept as a narrow
// interface so booking does not depend on the notification transport.
type Notifier interface {
	Notify(ctx context.Context, userID int, notifType, title, body string) error
}

type Service interface {
	Create(ctx context.Context, actorID int, isAdmin bool, req CreateBookingRequest) (*Booking, error)
	GetByID(ctx context.Context, bookingID int) (*Booking, error)
	ListTeamBookings(ctx context.Context, teamID int, upcomingOnly bool) ([]Booking, error)
	ListMyBookings(ctx context.Context, playerID int) ([]Booking, error)
	Join(ctx context.Context, playerID, bookingID int) (*PlayerBooking, error)
	RemovePlayer(ctx context.Context, actorID int, isAdmin bool, bookingID, playerID int) error
	ListPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error)
}

type service struct {
	repo        Repository
	teamRepo    team.Repository
	userRepo    user.Repository
	creditsServ credits.Service
	notifier    Notifier
}

func NewService(repo Repository, teamRepo team.Repository, userRepo user.Repository, creditsServ credits.Service, notifier Notifier) Service {
	return &service{
		repo:        repo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		creditsServ: creditsServ,
		notifier:    notifier,
	}
}

func (s *service) Create(ctx context.Context, actorID int, isAdmin bool, req CreateBookingRequest) (*Booking, error) {
	t, err := s.teamRepo.GetTeamByID(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && t.OwnerID != actorID {
		return nil, ErrNotTeamOwner
	}

	if req.StartsAt.Before(time.Now()) {
		return nil, errors.New("cannot create a booking in the past")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, errors.New("booking must end after it starts")
	}

	booking, err := s.repo.CreateBooking(ctx, &Booking{
		TeamID:     req.TeamID,
		Title:      req.Title,
		Location:   req.Location,
		StartsAt:   req.StartsAt,
		EndsAt:     req.EndsAt,
		Format:     req.Format,
		TotalSlots: req.TotalSlots,
		CreditCost: req.CreditCost,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBooking(strconv.Itoa(booking.Format))
	return booking, nil
}

func (s *service) GetByID(ctx context.Context, bookingID int) (*Booking, error) {
	return s.repo.GetBookingByID(ctx, bookingID)
}

func (s *service) ListTeamBookings(ctx context.Context, teamID int, upcomingOnly bool) ([]Booking, error) {
	return s.repo.ListByTeam(ctx, teamID, upcomingOnly)
}

func (s *service) ListMyBookings(ctx context.Context, playerID int) ([]Booking, error) {
	return s.repo.ListUserBookings(ctx, playerID)
}

// Join registers the player and charges the credit cost. Registration
// and payment are separate transactions; a failed payment compensates
// by releasing the slot again.
func (s *service) Join(ctx context.Context, playerID, bookingID int) (*PlayerBooking, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.StartsAt.Before(time.Now()) {
		return nil, ErrBookingStarted
	}

	player, err := s.userRepo.FindByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.TeamID == nil || *player.TeamID != booking.TeamID {
		return nil, ErrNotTeamMember
	}

	hasBooking, err := s.repo.HasPlayer(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}
	if hasBooking {
		return nil, ErrAlreadyJoined
	}

	pb, err := s.repo.AddPlayer(ctx, bookingID, playerID)
	if err != nil {
		return nil, err
	}

	if booking.CreditCost > 0 {
		desc := fmt.Sprintf("match fee: %s", booking.Title)
		if err := s.creditsServ.Use(ctx, playerID, booking.CreditCost, bookingID, desc); err != nil {
			if releaseErr := s.repo.RemovePlayer(ctx, bookingID, playerID, true); releaseErr != nil {
				logger.Error("failed to release slot after payment failure",
					"booking_id", bookingID, "player_id", playerID, "error", releaseErr)
			}
			return nil, err
		}
	}

	if s.notifier != nil {
		body := fmt.Sprintf("You're in for %s on %s.", booking.Title, booking.StartsAt.Format("Mon Jan 2 at 15:04"))
		if err := s.notifier.Notify(ctx, playerID, "booking_confirmation", "Spot confirmed", body); err != nil {
			logger.Warn("booking confirmation notification failed", "player_id", playerID, "error", err)
		}
	}

	metrics.RecordBookingJoin(booking.CreditCost)
	return pb, nil
}

func (s *service) RemovePlayer(ctx context.Context, actorID int, isAdmin bool, bookingID, playerID int) error {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !isAdmin {
		t, err := s.teamRepo.GetTeamByID(ctx, booking.TeamID)
		if err != nil {
			return err
		}
		if t.OwnerID != actorID {
			return ErrNotTeamOwner
		}
	}

	// Administrative removal frees the slot but issues no refund;
	// refunds go through the cancellation flow.
	return s.repo.RemovePlayer(ctx, bookingID, playerID, true)
}

func (s *service) ListPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error) {
	return s.repo.ListPlayers(ctx, bookingID)
}
