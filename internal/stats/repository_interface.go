package stats

import "context"

type Repository interface {
	UpsertMatch(ctx context.Context, bookingID, ourScore, opponentScore, recordedBy int) (*MatchStats, error)
	UpsertPlayerLine(ctx context.Context, bookingID int, line PlayerLine) (*PlayerStats, error)
	GetMatch(ctx context.Context, bookingID int) (*MatchStats, error)
	ListPlayerLines(ctx context.Context, bookingID int) ([]PlayerStats, error)
	Leaderboard(ctx context.Context, teamID, limit int) ([]LeaderboardEntry, error)
}
