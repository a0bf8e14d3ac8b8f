package achievements

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetTotals(ctx context.Context, playerID int) (*Totals, error) {
	query := `
		SELECT
			COUNT(*) AS matches_played,
			COALESCE(SUM(ps.goals), 0) AS total_goals,
			COALESCE(SUM(ps.assists), 0) AS total_assists,
			COALESCE(MAX(ps.goals), 0) AS best_goals_match,
			COALESCE(BOOL_OR(ps.clean_sheet), FALSE) AS has_clean_sheet,
			COALESCE(BOOL_OR(ms.our_score > ms.opponent_score), FALSE) AS has_win
		FROM player_stats ps
		JOIN match_stats ms ON ms.booking_id = ps.booking_id
		WHERE ps.player_id = $1
	`

	var totals Totals
	if err := r.db.GetContext(ctx, &totals, query, playerID); err != nil {
		return nil, err
	}

	return &totals, nil
}

// InsertUnlocks is idempotent: already-held achievements are skipped by
// the conflict clause. Returns how many unlocks were new.
func (r *repository) InsertUnlocks(ctx context.Context, playerID int, codes []string) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO player_achievements (player_id, achievement_id)
		SELECT $1, a.id FROM achievements a WHERE a.code = ANY($2)
		ON CONFLICT (player_id, achievement_id) DO NOTHING
	`, playerID, pq.Array(codes))
	if err != nil {
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rowsAffected), nil
}

func (r *repository) ListForPlayer(ctx context.Context, playerID int) ([]PlayerAchievement, error) {
	query := `
		SELECT a.id, a.code, a.name, a.description, pa.unlocked_at
		FROM player_achievements pa
		JOIN achievements a ON a.id = pa.achievement_id
		WHERE pa.player_id = $1
		ORDER BY pa.unlocked_at ASC
	`

	var unlocked []PlayerAchievement
	if err := r.db.SelectContext(ctx, &unlocked, query, playerID); err != nil {
		return nil, err
	}

	return unlocked, nil
}

func (r *repository) ListCatalog(ctx context.Context) ([]Achievement, error) {
	var catalog []Achievement
	err := r.db.SelectContext(ctx, &catalog,
		`SELECT id, code, name, description FROM achievements ORDER BY id`)
	if err != nil {
		return nil, err
	}

	return catalog, nil
}
