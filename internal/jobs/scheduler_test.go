package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/weather"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }
type MockForecaster struct{ mock.Mock }

func (m *MockBookingRepo) CreateBooking(ctx context.Context, b *booking.Booking) (*booking.Booking, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetBookingByID(ctx context.Context, id int) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListByTeam(ctx context.Context, teamID int, upcomingOnly bool) ([]booking.Booking, error) {
	args := m.Called(ctx, teamID, upcomingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) AddPlayer(ctx context.Context, bookingID, playerID int) (*booking.PlayerBooking, error) {
	args := m.Called(ctx, bookingID, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.PlayerBooking), args.Error(1)
}

func (m *MockBookingRepo) RemovePlayer(ctx context.Context, bookingID, playerID int, restoreSlot bool) error {
	return m.Called(ctx, bookingID, playerID, restoreSlot).Error(0)
}

func (m *MockBookingRepo) HasPlayer(ctx context.Context, bookingID, playerID int) (bool, error) {
	args := m.Called(ctx, bookingID, playerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) ListPlayers(ctx context.Context, bookingID int) ([]booking.PlayerBookingWithUser, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.PlayerBookingWithUser), args.Error(1)
}

func (m *MockBookingRepo) ListUserBookings(ctx context.Context, playerID int) ([]booking.Booking, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListStartingBetween(ctx context.Context, from, to time.Time) ([]booking.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListUnremindedPlayers(ctx context.Context, bookingID int) ([]booking.PlayerBookingWithUser, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.PlayerBookingWithUser), args.Error(1)
}

func (m *MockBookingRepo) MarkReminderSent(ctx context.Context, playerBookingID int) error {
	return m.Called(ctx, playerBookingID).Error(0)
}

func (m *MockBookingRepo) UpdateWeather(ctx context.Context, bookingID int, temp float64, code string, at time.Time) error {
	return m.Called(ctx, bookingID, temp, code, at).Error(0)
}

func (m *MockNotifier) Notify(ctx context.Context, userID int, notifType, title, body string) error {
	return m.Called(ctx, userID, notifType, title, body).Error(0)
}

func (m *MockForecaster) Forecast(ctx context.Context, at time.Time) (*weather.Forecast, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weather.Forecast), args.Error(1)
}

func registration(id, playerID int) booking.PlayerBookingWithUser {
	return booking.PlayerBookingWithUser{
		PlayerBooking: booking.PlayerBooking{ID: id, BookingID: 10, PlayerID: playerID, Status: booking.PlayerStatusConfirmed},
		PlayerName:    "Player",
	}
}

func TestReminderScanNotifiesAndFlags(t *testing.T) {
	repo := new(MockBookingRepo)
	notifier := new(MockNotifier)
	s := New(repo, notifier, new(MockForecaster))

	soon := booking.Booking{ID: 10, Title: "Friday five a side", StartsAt: time.Now().Add(30 * time.Minute)}
	repo.On("ListStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]booking.Booking{soon}, nil)
	repo.On("ListUnremindedPlayers", mock.Anything, 10).
		Return([]booking.PlayerBookingWithUser{registration(100, 2), registration(101, 3)}, nil)
	notifier.On("Notify", mock.Anything, 2, "reminder", mock.Anything, mock.Anything).Return(nil)
	notifier.On("Notify", mock.Anything, 3, "reminder", mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkReminderSent", mock.Anything, 100).Return(nil)
	repo.On("MarkReminderSent", mock.Anything, 101).Return(nil)

	s.RunReminderScan(context.Background())

	notifier.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestReminderScanSkipsFlagOnNotifyFailure(t *testing.T) {
	repo := new(MockBookingRepo)
	notifier := new(MockNotifier)
	s := New(repo, notifier, new(MockForecaster))

	soon := booking.Booking{ID: 10, StartsAt: time.Now().Add(30 * time.Minute)}
	repo.On("ListStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]booking.Booking{soon}, nil)
	repo.On("ListUnremindedPlayers", mock.Anything, 10).
		Return([]booking.PlayerBookingWithUser{registration(100, 2)}, nil)
	notifier.On("Notify", mock.Anything, 2, "reminder", mock.Anything, mock.Anything).
		Return(assert.AnError)

	s.RunReminderScan(context.Background())

	// Flag untouched so the next scan retries.
	repo.AssertNotCalled(t, "MarkReminderSent", mock.Anything, mock.Anything)
}

func TestWeatherRefreshCachesSnapshot(t *testing.T) {
	repo := new(MockBookingRepo)
	forecaster := new(MockForecaster)
	s := New(repo, new(MockNotifier), forecaster)

	kickOff := time.Now().Add(48 * time.Hour)
	upcoming := booking.Booking{ID: 10, StartsAt: kickOff}
	repo.On("ListStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]booking.Booking{upcoming}, nil)
	forecaster.On("Forecast", mock.Anything, kickOff).
		Return(&weather.Forecast{Temperature: 11.5, Condition: "cloudy"}, nil)
	repo.On("UpdateWeather", mock.Anything, 10, 11.5, "cloudy", mock.Anything).Return(nil)

	s.RunWeatherRefresh(context.Background())

	repo.AssertExpectations(t)
}

func TestWeatherRefreshSkipsfailedForecast(t *testing.T) {
	repo := new(MockBookingRepo)
	forecaster := new(MockForecaster)
	s := New(repo, new(MockNotifier), forecaster)

	upcoming := booking.Booking{ID: 10, StartsAt: time.Now().Add(48 * time.Hour)}
	repo.On("ListStartingBetween", mock.Anything, mock.Anything, mock.Anything).
		Return([]booking.Booking{upcoming}, nil)
	forecaster.On("Forecast", mock.Anything, mock.Anything).
		Return(nil, weather.ErrNoForecast)

	s.RunWeatherRefresh(context.Background())

	repo.AssertNotCalled(t, "UpdateWeather", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
