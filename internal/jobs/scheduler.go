package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/logger"
	"github.com/ifex-stack/kickbook-sub000/internal/weather"

	"github.com/robfig/cron/v3"
)

// Forecaster is the slice of the weather client the scheduler needs.
type Forecaster interface {
	Forecast(ctx context.Context, at time.Time) (*weather.Forecast, error)
}

// Scheduler owns the background jobs: the hourly match reminder scan
// and the twice-daily weather refresh.
type Scheduler struct {
	cron        *cron.Cron
	bookingRepo booking.Repository
	notifier    booking.Notifier
	forecaster  Forecaster
}

func New(bookingRepo booking.Repository, notifier booking.Notifier, forecaster Forecaster) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		bookingRepo: bookingRepo,
		notifier:    notifier,
		forecaster:  forecaster,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", func() {
		s.RunReminderScan(context.Background())
	}); err != nil {
		return err
	}

	if _, err := s.cron.AddFunc("0 6,18 * * *", func() {
		s.RunWeatherRefresh(context.Background())
	}); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("job scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("job scheduler stopped")
}

// RunReminderScan notifies every confirmed registration of a booking
// starting within the next hour. The reminder flag on the registration
// keeps a rerun from notifying twice.
func (s *Scheduler) RunReminderScan(ctx context.Context) {
	now := time.Now()
	bookings, err := s.bookingRepo.ListStartingBetween(ctx, now, now.Add(time.Hour))
	if err != nil {
		logger.Error("reminder scan failed to list bookings", "error", err)
		return
	}

	for _, b := range bookings {
		players, err := s.bookingRepo.ListUnremindedPlayers(ctx, b.ID)
		if err != nil {
			logger.Error("reminder scan failed to list players", "booking_id", b.ID, "error", err)
			continue
		}

		for _, p := range players {
			body := fmt.Sprintf("%s kicks off at %s. See you there!",
				b.Title, b.StartsAt.Format("15:04"))
			if err := s.notifier.Notify(ctx, p.PlayerID, "reminder", "Match starting soon", body); err != nil {
				logger.Warn("reminder notification failed", "player_id", p.PlayerID, "error", err)
				continue
			}
			if err := s.bookingRepo.MarkReminderSent(ctx, p.ID); err != nil {
				logger.Error("failed to flag reminder as sent", "player_booking_id", p.ID, "error", err)
			}
		}
	}
}

// RunWeatherRefresh caches a forecast snapshot on every active booking
// in the next seven days.
func (s *Scheduler) RunWeatherRefresh(ctx context.Context) {
	now := time.Now()
	bookings, err := s.bookingRepo.ListStartingBetween(ctx, now, now.AddDate(0, 0, 7))
	if err != nil {
		logger.Error("weather refresh failed to list bookings", "error", err)
		return
	}

	for _, b := range bookings {
		forecast, err := s.forecaster.Forecast(ctx, b.StartsAt)
		if err != nil {
			logger.Debug("no forecast for booking", "booking_id", b.ID, "error", err)
			continue
		}

		if err := s.bookingRepo.UpdateWeather(ctx, b.ID, forecast.Temperature, forecast.Condition, now); err != nil {
			logger.Error("failed to cache weather snapshot", "booking_id", b.ID, "error", err)
		}
	}
}
