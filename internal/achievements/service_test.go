package achievements

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAchievementsRepo struct{ mock.Mock }

func (m *MockAchievementsRepo) GetTotals(ctx context.Context, playerID int) (*Totals, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Totals), args.Error(1)
}

func (m *MockAchievementsRepo) InsertUnlocks(ctx context.Context, playerID int, codes []string) (int, error) {
	args := m.Called(ctx, playerID, codes)
	return args.Int(0), args.Error(1)
}

func (m *MockAchievementsRepo) ListForPlayer(ctx context.Context, playerID int) ([]PlayerAchievement, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PlayerAchievement), args.Error(1)
}

func (m *MockAchievementsRepo) ListCatalog(ctx context.Context) ([]Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Achievement), args.Error(1)
}

func TestUnlockedRules(t *testing.T) {
	tests := []struct {
		name   string
		totals Totals
		want   []string
	}{
		{"empty history unlocks nothing", Totals{}, nil},
		{"single goal", Totals{MatchesPlayed: 1, TotalGoals: 1, BestGoalsMatch: 1}, []string{CodeFirstGoal}},
		{"hat trick implies first goal", Totals{MatchesPlayed: 1, TotalGoals: 3, BestGoalsMatch: 3}, []string{CodeFirstGoal, CodeHatTrick}},
		{"three goals across matches is no hat trick", Totals{MatchesPlayed: 3, TotalGoals: 3, BestGoalsMatch: 1}, []string{CodeFirstGoal}},
		{"five assists", Totals{MatchesPlayed: 2, TotalAssists: 5}, []string{CodePlaymaker}},
		{"four assists is not enough", Totals{MatchesPlayed: 2, TotalAssists: 4}, nil},
		{"ten matches", Totals{MatchesPlayed: 10}, []string{CodeVeteran}},
		{"win and clean sheet", Totals{MatchesPlayed: 1, HasWin: true, HasCleanSheet: true}, []string{CodeWinner, CodeWall}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unlocked(tt.totals))
		})
	}
}

func TestUnlockedIsMonotone(t *testing.T) {
	small := Totals{MatchesPlayed: 1, TotalGoals: 1, BestGoalsMatch: 1}
	big := Totals{MatchesPlayed: 12, TotalGoals: 9, TotalAssists: 6, BestGoalsMatch: 4, HasWin: true, HasCleanSheet: true}

	smallCodes := Unlocked(small)
	bigCodes := Unlocked(big)
	for _, code := range smallCodes {
		assert.Contains(t, bigCodes, code)
	}
}

func TestEvaluateInsertsOnlyQualifiedCodes(t *testing.T) {
	repo := new(MockAchievementsRepo)
	svc := NewService(repo)

	repo.On("GetTotals", mock.Anything, 2).
		Return(&Totals{MatchesPlayed: 1, TotalGoals: 3, BestGoalsMatch: 3, HasWin: true}, nil)
	repo.On("InsertUnlocks", mock.Anything, 2, []string{CodeFirstGoal, CodeHatTrick, CodeWinner}).
		Return(3, nil)

	newUnlocks, err := svc.Evaluate(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, 3, newUnlocks)
	repo.AssertExpectations(t)
}

func TestEvaluateSecondRunUnlocksNothing(t *testing.T) {
	repo := new(MockAchievementsRepo)
	svc := NewService(repo)

	totals := &Totals{MatchesPlayed: 1, TotalGoals: 1, BestGoalsMatch: 1}
	repo.On("GetTotals", mock.Anything, 2).Return(totals, nil)
	// The conflict clause swallows the duplicate insert.
	repo.On("InsertUnlocks", mock.Anything, 2, []string{CodeFirstGoal}).Return(0, nil)

	newUnlocks, err := svc.Evaluate(context.Background(), 2)
	assert.NoError(t, err)
	assert.Zero(t, newUnlocks)
}

func TestCatalogCodesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Catalog {
		assert.False(t, seen[a.Code], "duplicate code %s", a.Code)
		seen[a.Code] = true
	}
	assert.Len(t, Catalog, 6)
}
