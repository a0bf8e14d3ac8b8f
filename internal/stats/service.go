package stats

import (
	"context"
	"errors"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/achievements"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/logger"
)

var ErrMatchNotStarted = errors.New("cannot record stats before the match starts")

type Service interface {
	Record(ctx context.Context, recordedBy, bookingID int, req RecordStatsRequest) (*MatchReport, error)
	GetReport(ctx context.Context, bookingID int) (*MatchReport, error)
	Leaderboard(ctx context.Context, teamID, limit int) ([]LeaderboardEntry, error)
}

type service struct {
	repo         Repository
	bookingRepo  booking.Repository
	achievements achievements.Service
}

func NewService(repo Repository, bookingRepo booking.Repository, achievementsServ achievements.Service) Service {
	return &service{
		repo:         repo,
		bookingRepo:  bookingRepo,
		achievements: achievementsServ,
	}
}

func (s *service) Record(ctx context.Context, recordedBy, bookingID int, req RecordStatsRequest) (*MatchReport, error) {
	b, err := s.bookingRepo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.StartsAt.After(time.Now()) {
		return nil, ErrMatchNotStarted
	}

	match, err := s.repo.UpsertMatch(ctx, bookingID, req.OurScore, req.OpponentScore, recordedBy)
	if err != nil {
		return nil, err
	}

	report := &MatchReport{Match: *match}
	for _, line := range req.Players {
		ps, err := s.repo.UpsertPlayerLine(ctx, bookingID, line)
		if err != nil {
			return nil, err
		}
		report.Players = append(report.Players, *ps)
	}

	// Unlocks are recomputed from full history, so a re-recorded match
	// cannot double-award anything.
	for _, line := range req.Players {
		if _, err := s.achievements.Evaluate(ctx, line.PlayerID); err != nil {
			logger.Warn("achievement evaluation failed", "player_id", line.PlayerID, "error", err)
		}
	}

	return report, nil
}

func (s *service) GetReport(ctx context.Context, bookingID int) (*MatchReport, error) {
	match, err := s.repo.GetMatch(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.ListPlayerLines(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &MatchReport{Match: *match, Players: lines}, nil
}

func (s *service) Leaderboard(ctx context.Context, teamID, limit int) ([]LeaderboardEntry, error) {
	return s.repo.Leaderboard(ctx, teamID, limit)
}
