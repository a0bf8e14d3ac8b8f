package stats

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrNoStats = errors.New("no stats recorded for this booking")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UpsertMatch(ctx context.Context, bookingID, ourScore, opponentScore, recordedBy int) (*MatchStats, error) {
	query := `
		INSERT INTO match_stats (booking_id, our_score, opponent_score, recorded_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (booking_id) DO UPDATE
		SET our_score = EXCLUDED.our_score,
			opponent_score = EXCLUDED.opponent_score,
			recorded_by = EXCLUDED.recorded_by,
			recorded_at = NOW()
		RETURNING id, booking_id, our_score, opponent_score, recorded_by, recorded_at
	`

	var match MatchStats
	err := r.db.GetContext(ctx, &match, query, bookingID, ourScore, opponentScore, recordedBy)
	if err != nil {
		return nil, err
	}

	return &match, nil
}

func (r *repository) UpsertPlayerLine(ctx context.Context, bookingID int, line PlayerLine) (*PlayerStats, error) {
	query := `
		INSERT INTO player_stats (booking_id, player_id, goals, assists, yellow_cards, red_cards, minutes_played, clean_sheet)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (booking_id, player_id) DO UPDATE
		SET goals = EXCLUDED.goals,
			assists = EXCLUDED.assists,
			yellow_cards = EXCLUDED.yellow_cards,
			red_cards = EXCLUDED.red_cards,
			minutes_played = EXCLUDED.minutes_played,
			clean_sheet = EXCLUDED.clean_sheet
		RETURNING id, booking_id, player_id, goals, assists, yellow_cards, red_cards, minutes_played, clean_sheet, created_at
	`

	var ps PlayerStats
	err := r.db.GetContext(ctx, &ps, query, bookingID, line.PlayerID,
		line.Goals, line.Assists, line.YellowCards, line.RedCards, line.MinutesPlayed, line.CleanSheet)
	if err != nil {
		return nil, err
	}

	return &ps, nil
}

func (r *repository) GetMatch(ctx context.Context, bookingID int) (*MatchStats, error) {
	var match MatchStats
	err := r.db.GetContext(ctx, &match, `
		SELECT id, booking_id, our_score, opponent_score, recorded_by, recorded_at
		FROM match_stats
		WHERE booking_id = $1
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoStats
		}
		return nil, err
	}

	return &match, nil
}

func (r *repository) ListPlayerLines(ctx context.Context, bookingID int) ([]PlayerStats, error) {
	var lines []PlayerStats
	err := r.db.SelectContext(ctx, &lines, `
		SELECT id, booking_id, player_id, goals, assists, yellow_cards, red_cards, minutes_played, clean_sheet, created_at
		FROM player_stats
		WHERE booking_id = $1
		ORDER BY goals DESC, assists DESC
	`, bookingID)
	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *repository) Leaderboard(ctx context.Context, teamID, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			ps.player_id,
			u.name AS player_name,
			COUNT(*) AS matches_played,
			COALESCE(SUM(ps.goals), 0) AS goals,
			COALESCE(SUM(ps.assists), 0) AS assists
		FROM player_stats ps
		JOIN users u ON u.id = ps.player_id
		JOIN bookings b ON b.id = ps.booking_id
		WHERE b.team_id = $1
		GROUP BY ps.player_id, u.name
		ORDER BY goals DESC, assists DESC, matches_played DESC
		LIMIT $2
	`

	var entries []LeaderboardEntry
	if err := r.db.SelectContext(ctx, &entries, query, teamID, limit); err != nil {
		return nil, err
	}

	return entries, nil
}
