package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupBookingMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func playerBookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "booking_id", "player_id", "status", "cancellation_reason",
		"refund_amount", "cancelled_at", "reminder_sent", "created_at",
	})
}

func TestAddPlayer(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO player_bookings (booking_id, player_id, status)`)).
		WithArgs(10, 2).
		WillReturnRows(playerBookingRows().AddRow(100, 10, 2, "confirmed", nil, nil, nil, false, time.Now()))
	mock.ExpectCommit()

	pb, err := repo.AddPlayer(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Equal(t, PlayerStatusConfirmed, pb.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPlayerFullBooking(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.AddPlayer(context.Background(), 10, 2)
	require.ErrorIs(t, err, ErrBookingFull)
}

func TestAddPlayerAlreadyJoined(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// An active registration makes the guarded upsert return no row.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO player_bookings (booking_id, player_id, status)`)).
		WithArgs(10, 2).
		WillReturnRows(playerBookingRows())
	mock.ExpectRollback()

	_, err := repo.AddPlayer(context.Background(), 10, 2)
	require.ErrorIs(t, err, ErrAlreadyJoined)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddPlayerRevivesCancelledRegistration(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO player_bookings (booking_id, player_id, status)`)).
		WithArgs(10, 2).
		WillReturnRows(playerBookingRows().AddRow(100, 10, 2, "confirmed", nil, nil, nil, false, time.Now()))
	mock.ExpectCommit()

	pb, err := repo.AddPlayer(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Equal(t, PlayerStatusConfirmed, pb.Status)
	require.Nil(t, pb.CancelledAt)
	require.False(t, pb.ReminderSent)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemovePlayerRestoresSlot(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_bookings`)).
		WithArgs(10, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE bookings`)).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RemovePlayer(context.Background(), 10, 2, true)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemovePlayerNotRegistered(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM player_bookings`)).
		WithArgs(10, 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RemovePlayer(context.Background(), 10, 99, true)
	require.ErrorIs(t, err, ErrNotRegistered)
}

func TestGetBookingByIDNotFound(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery("SELECT .* FROM bookings WHERE id").
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetBookingByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkReminderSent(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE player_bookings SET reminder_sent = TRUE WHERE id = $1`)).
		WithArgs(100).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkReminderSent(context.Background(), 100)
	require.NoError(t, err)
}
