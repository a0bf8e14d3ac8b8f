package teamgen

import "sort"

type Player struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	SkillRating int    `json:"skill_rating"`
}

type Sides struct {
	TeamA      []Player `json:"team_a"`
	TeamB      []Player `json:"team_b"`
	SkillTeamA int      `json:"skill_team_a"`
	SkillTeamB int      `json:"skill_team_b"`
}

// Split divides players into two sides of near-equal strength using a
// snake draft: strongest to A, next two to B, next two to A and so on.
// Goalkeepers are drafted first so each side gets one when two exist.
// Deterministic for a given roster.
func Split(players []Player) Sides {
	ordered := make([]Player, len(players))
	copy(ordered, players)

	sort.SliceStable(ordered, func(i, j int) bool {
		gi, gj := ordered[i].Position == "goalkeeper", ordered[j].Position == "goalkeeper"
		if gi != gj {
			return gi
		}
		if ordered[i].SkillRating != ordered[j].SkillRating {
			return ordered[i].SkillRating > ordered[j].SkillRating
		}
		return ordered[i].ID < ordered[j].ID
	})

	var sides Sides
	for i, p := range ordered {
		// Snake order: A B B A A B B A ...
		if (i/2)%2 == (i % 2) {
			sides.TeamA = append(sides.TeamA, p)
			sides.SkillTeamA += p.SkillRating
		} else {
			sides.TeamB = append(sides.TeamB, p)
			sides.SkillTeamB += p.SkillRating
		}
	}

	return sides
}
