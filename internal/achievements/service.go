package achievements

import (
	"context"

	"github.com/ifex-stack/kickbook-sub000/internal/metrics"
)

type Service interface {
	// Evaluate recomputes a player's unlocks over their full stat
	// history. Safe to call repeatedly; returns how many were new.
	Evaluate(ctx context.Context, playerID int) (int, error)
	ListForPlayer(ctx context.Context, playerID int) ([]PlayerAchievement, error)
	ListCatalog(ctx context.Context) ([]Achievement, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Evaluate(ctx context.Context, playerID int) (int, error) {
	totals, err := s.repo.GetTotals(ctx, playerID)
	if err != nil {
		return 0, err
	}

	codes := Unlocked(*totals)
	newUnlocks, err := s.repo.InsertUnlocks(ctx, playerID, codes)
	if err != nil {
		return 0, err
	}

	if newUnlocks > 0 {
		metrics.RecordAchievementUnlocks(newUnlocks)
	}

	return newUnlocks, nil
}

func (s *service) ListForPlayer(ctx context.Context, playerID int) ([]PlayerAchievement, error) {
	return s.repo.ListForPlayer(ctx, playerID)
}

func (s *service) ListCatalog(ctx context.Context) ([]Achievement, error) {
	return s.repo.ListCatalog(ctx)
}
