package achievements

import "time"

type Achievement struct {
	ID          int    `db:"id" json:"id"`
	Code        string `db:"code" json:"code"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
}

type PlayerAchievement struct {
	Achievement
	UnlockedAt time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// Totals is a player's aggregated stat history, the input to the
// unlock rules.
type Totals struct {
	MatchesPlayed  int  `db:"matches_played"`
	TotalGoals     int  `db:"total_goals"`
	TotalAssists   int  `db:"total_assists"`
	BestGoalsMatch int  `db:"best_goals_match"`
	HasCleanSheet  bool `db:"has_clean_sheet"`
	HasWin         bool `db:"has_win"`
}

const (
	CodeFirstGoal = "first_goal"
	CodeHatTrick  = "hat_trick"
	CodePlaymaker = "playmaker"
	CodeVeteran   = "veteran"
	CodeWinner    = "winner"
	CodeWall      = "wall"
)

// Catalog is the static achievement seed. Codes are stable; the
// unlock rules in Unlocked key off them.
var Catalog = []Achievement{
	{Code: CodeFirstGoal, Name: "First Goal", Description: "Score your first goal"},
	{Code: CodeHatTrick, Name: "Hat-trick Hero", Description: "Score three or more goals in one match"},
	{Code: CodePlaymaker, Name: "Playmaker", Description: "Reach five assists in total"},
	{Code: CodeVeteran, Name: "Veteran", Description: "Play ten matches"},
	{Code: CodeWinner, Name: "Winner", Description: "Be on the winning side"},
	{Code: CodeWall, Name: "The Wall", Description: "Keep a clean sheet"},
}

// Unlocked returns the codes the given history qualifies for. Pure and
// monotone: adding history never removes a code.
func Unlocked(t Totals) []string {
	var codes []string
	if t.TotalGoals >= 1 {
		codes = append(codes, CodeFirstGoal)
	}
	if t.BestGoalsMatch >= 3 {
		codes = append(codes, CodeHatTrick)
	}
	if t.TotalAssists >= 5 {
		codes = append(codes, CodePlaymaker)
	}
	if t.MatchesPlayed >= 10 {
		codes = append(codes, CodeVeteran)
	}
	if t.HasWin {
		codes = append(codes, CodeWinner)
	}
	if t.HasCleanSheet {
		codes = append(codes, CodeWall)
	}
	return codes
}
