package achievements

import "context"

type Repository interface {
	GetTotals(ctx context.Context, playerID int) (*Totals, error)
	InsertUnlocks(ctx context.Context, playerID int, codes []string) (int, error)
	ListForPlayer(ctx context.Context, playerID int) ([]PlayerAchievement, error)
	ListCatalog(ctx context.Context) ([]Achievement, error)
}
