package stats

import "time"

// MatchStats is the team-level result for one booking.
type MatchStats struct {
	ID            int       `db:"id" json:"id"`
	BookingID     int       `db:"booking_id" json:"booking_id"`
	OurScore      int       `db:"our_score" json:"our_score"`
	OpponentScore int       `db:"opponent_score" json:"opponent_score"`
	RecordedBy    int       `db:"recorded_by" json:"recorded_by"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
}

// PlayerStats is one player's line for one match, upserted whole.
type PlayerStats struct {
	ID            int       `db:"id" json:"id"`
	BookingID     int       `db:"booking_id" json:"booking_id"`
	PlayerID      int       `db:"player_id" json:"player_id"`
	Goals         int       `db:"goals" json:"goals"`
	Assists       int       `db:"assists" json:"assists"`
	YellowCards   int       `db:"yellow_cards" json:"yellow_cards"`
	RedCards      int       `db:"red_cards" json:"red_cards"`
	MinutesPlayed int       `db:"minutes_played" json:"minutes_played"`
	CleanSheet    bool      `db:"clean_sheet" json:"clean_sheet"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type PlayerLine struct {
	PlayerID      int  `json:"player_id" binding:"required"`
	Goals         int  `json:"goals" binding:"gte=0"`
	Assists       int  `json:"assists" binding:"gte=0"`
	YellowCards   int  `json:"yellow_cards" binding:"gte=0,lte=2"`
	RedCards      int  `json:"red_cards" binding:"gte=0,lte=1"`
	MinutesPlayed int  `json:"minutes_played" binding:"gte=0,lte=120"`
	CleanSheet    bool `json:"clean_sheet"`
}

type RecordStatsRequest struct {
	OurScore      int          `json:"our_score" binding:"gte=0"`
	OpponentScore int          `json:"opponent_score" binding:"gte=0"`
	Players       []PlayerLine `json:"players" binding:"required,min=1,dive"`
}

type MatchReport struct {
	Match   MatchStats    `json:"match"`
	Players []PlayerStats `json:"players"`
}

type LeaderboardEntry struct {
	PlayerID      int    `db:"player_id" json:"player_id"`
	PlayerName    string `db:"player_name" json:"player_name"`
	MatchesPlayed int    `db:"matches_played" json:"matches_played"`
	Goals         int    `db:"goals" json:"goals"`
	Assists       int    `db:"assists" json:"assists"`
}
