package booking

import (
	"context"
	"testing"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/credits"
	"github.com/ifex-stack/kickbook-sub000/internal/team"
	"github.com/ifex-stack/kickbook-sub000/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct{ mock.Mock }
type MockTeamRepo struct{ mock.Mock }
type MockUserRepo struct{ mock.Mock }
type MockCreditsService struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }

func (m *MockBookingRepo) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByTeam(ctx context.Context, teamID int, upcomingOnly bool) ([]Booking, error) {
	args := m.Called(ctx, teamID, upcomingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) AddPlayer(ctx context.Context, bookingID, playerID int) (*PlayerBooking, error) {
	args := m.Called(ctx, bookingID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlayerBooking), args.Error(1)
}

func (m *MockBookingRepo) RemovePlayer(ctx context.Context, bookingID, playerID int, restoreSlot bool) error {
	return m.Called(ctx, bookingID, playerID, restoreSlot).Error(0)
}

func (m *MockBookingRepo) HasPlayer(ctx context.Context, bookingID, playerID int) (bool, error) {
	args := m.Called(ctx, bookingID, playerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) ListPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PlayerBookingWithUser), args.Error(1)
}

func (m *MockBookingRepo) ListUserBookings(ctx context.Context, playerID int) ([]Booking, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingRepo) ListUnremindedPlayers(ctx context.Context, bookingID int) ([]PlayerBookingWithUser, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PlayerBookingWithUser), args.Error(1)
}

func (m *MockBookingRepo) MarkReminderSent(ctx context.Context, playerBookingID int) error {
	return m.Called(ctx, playerBookingID).Error(0)
}

func (m *MockBookingRepo) UpdateWeather(ctx context.Context, bookingID int, temp float64, code string, at time.Time) error {
	return m.Called(ctx, bookingID, temp, code, at).Error(0)
}

func (m *MockTeamRepo) CreateTeam(ctx context.Context, name string, ownerID int, inviteCode string) (*team.Team, error) {
	args := m.Called(ctx, name, ownerID, inviteCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *MockTeamRepo) GetTeamByID(ctx context.Context, id int) (*team.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *MockTeamRepo) GetTeamByInviteCode(ctx context.Context, code string) (*team.Team, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *MockTeamRepo) UpdatePolicy(ctx context.Context, teamID int, req team.UpdatePolicyRequest) (*team.Team, error) {
	args := m.Called(ctx, teamID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Team), args.Error(1)
}

func (m *MockTeamRepo) RegenerateInviteCode(ctx context.Context, teamID int, code string) error {
	return m.Called(ctx, teamID, code).Error(0)
}

func (m *MockUserRepo) Create(ctx context.Context, name, email, passwordHash, role, position string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role, position)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepo) SetTeam(ctx context.Context, userID int, teamID *int) error {
	return m.Called(ctx, userID, teamID).Error(0)
}

func (m *MockUserRepo) ListByTeam(ctx context.Context, teamID int) ([]user.User, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockCreditsService) Purchase(ctx context.Context, userID, amount int) (*credits.Transaction, error) {
	args := m.Called(ctx, userID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credits.Transaction), args.Error(1)
}

func (m *MockCreditsService) ConfirmPurchase(ctx context.Context, transactionID int, status string) (*credits.Transaction, error) {
	args := m.Called(ctx, transactionID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credits.Transaction), args.Error(1)
}

func (m *MockCreditsService) Use(ctx context.Context, userID, amount, bookingID int, description string) error {
	return m.Called(ctx, userID, amount, bookingID, description).Error(0)
}

func (m *MockCreditsService) Grant(ctx context.Context, userID, amount int, description string) (*credits.Transaction, error) {
	args := m.Called(ctx, userID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credits.Transaction), args.Error(1)
}

func (m *MockCreditsService) Balance(ctx context.Context, userID int) (*credits.Balance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credits.Balance), args.Error(1)
}

func (m *MockCreditsService) History(ctx context.Context, userID, limit, offset int) ([]credits.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]credits.Transaction), args.Error(1)
}

func (m *MockNotifier) Notify(ctx context.Context, userID int, notifType, title, body string) error {
	return m.Called(ctx, userID, notifType, title, body).Error(0)
}

type serviceMocks struct {
	repo     *MockBookingRepo
	teams    *MockTeamRepo
	users    *MockUserRepo
	credits  *MockCreditsService
	notifier *MockNotifier
}

func newTestService() (Service, serviceMocks) {
	m := serviceMocks{
		repo:     new(MockBookingRepo),
		teams:    new(MockTeamRepo),
		users:    new(MockUserRepo),
		credits:  new(MockCreditsService),
		notifier: new(MockNotifier),
	}
	svc := NewService(m.repo, m.teams, m.users, m.credits, m.notifier)
	return svc, m
}

func upcomingBooking(teamID, cost int) *Booking {
	return &Booking{
		ID:             10,
		TeamID:         teamID,
		Title:          "Friday five a side",
		StartsAt:       time.Now().Add(48 * time.Hour),
		EndsAt:         time.Now().Add(49 * time.Hour),
		Format:         5,
		TotalSlots:     10,
		AvailableSlots: 4,
		CreditCost:     cost,
		Status:         StatusActive,
	}
}

func teamMember(teamID int) *user.User {
	return &user.User{ID: 2, Name: "Ben Striker", TeamID: &teamID}
}

func TestCreateRequiresOwner(t *testing.T) {
	svc, m := newTestService()

	m.teams.On("GetTeamByID", mock.Anything, 4).
		Return(&team.Team{ID: 4, OwnerID: 1}, nil)

	req := CreateBookingRequest{
		TeamID:     4,
		Title:      "Sunday league",
		StartsAt:   time.Now().Add(24 * time.Hour),
		EndsAt:     time.Now().Add(26 * time.Hour),
		Format:     11,
		TotalSlots: 22,
	}

	_, err := svc.Create(context.Background(), 99, false, req)
	assert.ErrorIs(t, err, ErrNotTeamOwner)
	m.repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateRejectsPastStart(t *testing.T) {
	svc, m := newTestService()

	m.teams.On("GetTeamByID", mock.Anything, 4).
		Return(&team.Team{ID: 4, OwnerID: 1}, nil)

	req := CreateBookingRequest{
		TeamID:     4,
		Title:      "Sunday league",
		StartsAt:   time.Now().Add(-time.Hour),
		EndsAt:     time.Now().Add(time.Hour),
		Format:     11,
		TotalSlots: 22,
	}

	_, err := svc.Create(context.Background(), 1, false, req)
	assert.Error(t, err)
}

func TestJoinChargesCreditCost(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.users.On("FindByID", mock.Anything, 2).Return(teamMember(4), nil)
	m.repo.On("HasPlayer", mock.Anything, 10, 2).Return(false, nil)
	m.repo.On("AddPlayer", mock.Anything, 10, 2).
		Return(&PlayerBooking{ID: 100, BookingID: 10, PlayerID: 2, Status: PlayerStatusConfirmed}, nil)
	m.credits.On("Use", mock.Anything, 2, 5, 10, mock.Anything).Return(nil)
	m.notifier.On("Notify", mock.Anything, 2, "booking_confirmation", mock.Anything, mock.Anything).Return(nil)

	pb, err := svc.Join(context.Background(), 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, PlayerStatusConfirmed, pb.Status)
	m.credits.AssertExpectations(t)
}

func TestJoinReleasesSlotWhenPaymentFails(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.users.On("FindByID", mock.Anything, 2).Return(teamMember(4), nil)
	m.repo.On("HasPlayer", mock.Anything, 10, 2).Return(false, nil)
	m.repo.On("AddPlayer", mock.Anything, 10, 2).
		Return(&PlayerBooking{ID: 100, BookingID: 10, PlayerID: 2}, nil)
	m.credits.On("Use", mock.Anything, 2, 5, 10, mock.Anything).
		Return(credits.ErrInsufficientCredits)
	m.repo.On("RemovePlayer", mock.Anything, 10, 2, true).Return(nil)

	_, err := svc.Join(context.Background(), 2, 10)
	assert.ErrorIs(t, err, credits.ErrInsufficientCredits)
	m.repo.AssertCalled(t, "RemovePlayer", mock.Anything, 10, 2, true)
	m.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinRejectsStartedBooking(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)
	b.StartsAt = time.Now().Add(-time.Hour)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)

	_, err := svc.Join(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrBookingStarted)
}

func TestJoinRejectsOutsider(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)
	otherTeam := 9

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.users.On("FindByID", mock.Anything, 2).
		Return(&user.User{ID: 2, TeamID: &otherTeam}, nil)

	_, err := svc.Join(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrNotTeamMember)
}

func TestJoinRejectsDuplicate(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.users.On("FindByID", mock.Anything, 2).Return(teamMember(4), nil)
	m.repo.On("HasPlayer", mock.Anything, 10, 2).Return(true, nil)

	_, err := svc.Join(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrAlreadyJoined)
	m.repo.AssertNotCalled(t, "AddPlayer", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinFreeBookingSkipsLedger(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 0)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.users.On("FindByID", mock.Anything, 2).Return(teamMember(4), nil)
	m.repo.On("HasPlayer", mock.Anything, 10, 2).Return(false, nil)
	m.repo.On("AddPlayer", mock.Anything, 10, 2).
		Return(&PlayerBooking{ID: 100, BookingID: 10, PlayerID: 2, Status: PlayerStatusConfirmed}, nil)
	m.notifier.On("Notify", mock.Anything, 2, "booking_confirmation", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Join(context.Background(), 2, 10)
	assert.NoError(t, err)
	m.credits.AssertNotCalled(t, "Use", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemovePlayerOwnerOnly(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.teams.On("GetTeamByID", mock.Anything, 4).
		Return(&team.Team{ID: 4, OwnerID: 1}, nil)

	err := svc.RemovePlayer(context.Background(), 3, false, 10, 2)
	assert.ErrorIs(t, err, ErrNotTeamOwner)
}

func TestRemovePlayerAsAdminRestoresSlot(t *testing.T) {
	svc, m := newTestService()
	b := upcomingBooking(4, 5)

	m.repo.On("GetBookingByID", mock.Anything, 10).Return(b, nil)
	m.repo.On("RemovePlayer", mock.Anything, 10, 2, true).Return(nil)

	err := svc.RemovePlayer(context.Background(), 99, true, 10, 2)
	assert.NoError(t, err)
	m.repo.AssertExpectations(t)
}
