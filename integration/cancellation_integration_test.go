package booking_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"
	"github.com/ifex-stack/kickbook-sub000/internal/cancellation"
	"github.com/ifex-stack/kickbook-sub000/internal/credits"
	"github.com/ifex-stack/kickbook-sub000/internal/team"
)

func newCancellationRouter(db *sqlx.DB) *gin.Engine {
	creditsRepo := credits.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	teamRepo := team.NewRepository(db)
	service := cancellation.NewService(
		cancellation.NewRepository(db, creditsRepo),
		bookingRepo,
		teamRepo,
		newTestNotifier(db),
	)
	handler := cancellation.NewHandler(service)

	router := gin.New()
	authed := router.Group("/api", auth.AuthMiddleware("test-secret"))
	authed.GET("/bookings/:bookingID/can-cancel", handler.CanCancel)
	authed.POST("/bookings/:bookingID/cancel", handler.Cancel)
	authed.POST("/bookings/:bookingID/cancel-booking", handler.CancelBooking)
	return router
}

func registerTestPlayer(t *testing.T, db *sqlx.DB, bookingID, playerID int) {
	_, err := db.Exec(`
		INSERT INTO player_bookings (booking_id, player_id, status)
		VALUES ($1, $2, 'confirmed')
	`, bookingID, playerID)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE bookings SET available_slots = available_slots - 1 WHERE id = $1`, bookingID)
	require.NoError(t, err)
}

func postCancel(t *testing.T, router *gin.Engine, bookingID int, token string) (int, cancellation.Result) {
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/bookings/%d/cancel", bookingID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	var result cancellation.Result
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	}
	return w.Code, result
}

func TestCancelRegistrationIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	gin.SetMode(gin.TestMode)
	router := newCancellationRouter(db)

	t.Run("Early cancellation refunds the full fee", func(t *testing.T) {
		cleanDatabase(t, db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		playerID := createTestUser(t, db, "player@example.com", "Player", 0)
		joinTestTeam(t, db, teamID, playerID)
		bookingID := createTestBooking(t, db, teamID, time.Now().Add(72*time.Hour), 10, 4)
		registerTestPlayer(t, db, bookingID, playerID)

		token := generateTestToken(playerID, "player@example.com", "player", "test-secret")
		code, result := postCancel(t, router, bookingID, token)

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, result.Success)
		assert.Equal(t, 4, result.RefundAmount)
		assert.Equal(t, 4, getCredits(t, db, playerID))

		var status string
		require.NoError(t, db.Get(&status, `SELECT status FROM player_bookings WHERE booking_id = $1 AND player_id = $2`, bookingID, playerID))
		assert.Equal(t, "cancelled", status)

		var available int
		require.NoError(t, db.Get(&available, `SELECT available_slots FROM bookings WHERE id = $1`, bookingID))
		assert.Equal(t, 10, available)

		assertLedgerConsistent(t, db, playerID)
		assertLedgerConsistent(t, db, ownerID)
	})

	t.Run("Late cancellation refunds half", func(t *testing.T) {
		cleanDatabase(t, db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		playerID := createTestUser(t, db, "player@example.com", "Player", 0)
		joinTestTeam(t, db, teamID, playerID)
		bookingID := createTestBooking(t, db, teamID, time.Now().Add(10*time.Hour), 10, 4)
		registerTestPlayer(t, db, bookingID, playerID)

		token := generateTestToken(playerID, "player@example.com", "player", "test-secret")
		code, result := postCancel(t, router, bookingID, token)

		assert.Equal(t, http.StatusOK, code)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.RefundAmount)
		assert.Equal(t, 2, getCredits(t, db, playerID))

		assertLedgerConsistent(t, db, playerID)
	})

	t.Run("Too close to kickoff is rejected without mutation", func(t *testing.T) {
		cleanDatabase(t, db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		playerID := createTestUser(t, db, "player@example.com", "Player", 0)
		joinTestTeam(t, db, teamID, playerID)
		bookingID := createTestBooking(t, db, teamID, time.Now().Add(2*time.Hour), 10, 4)
		registerTestPlayer(t, db, bookingID, playerID)

		token := generateTestToken(playerID, "player@example.com", "player", "test-secret")
		code, result := postCancel(t, router, bookingID, token)

		assert.Equal(t, http.StatusOK, code)
		assert.False(t, result.Success)
		assert.Equal(t, 0, getCredits(t, db, playerID))

		var status string
		require.NoError(t, db.Get(&status, `SELECT status FROM player_bookings WHERE booking_id = $1 AND player_id = $2`, bookingID, playerID))
		assert.Equal(t, "confirmed", status)
	})

	t.Run("Monthly cancellation limit is enforced", func(t *testing.T) {
		cleanDatabase(t, db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		playerID := createTestUser(t, db, "player@example.com", "Player", 0)
		joinTestTeam(t, db, teamID, playerID)

		token := generateTestToken(playerID, "player@example.com", "player", "test-secret")

		// Two cancellations this month are allowed, the third is not.
		for i, wantSuccess := range []bool{true, true, false} {
			bookingID := createTestBooking(t, db, teamID, time.Now().Add(72*time.Hour), 10, 0)
			registerTestPlayer(t, db, bookingID, playerID)

			code, result := postCancel(t, router, bookingID, token)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, wantSuccess, result.Success, "cancellation %d", i+1)
		}
	})

	t.Run("Owner cancelling the whole booking refunds every player", func(t *testing.T) {
		cleanDatabase(t, db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		p1 := createTestUser(t, db, "p1@example.com", "Player One", 0)
		p2 := createTestUser(t, db, "p2@example.com", "Player Two", 0)
		joinTestTeam(t, db, teamID, p1)
		joinTestTeam(t, db, teamID, p2)
		bookingID := createTestBooking(t, db, teamID, time.Now().Add(2*time.Hour), 10, 3)
		registerTestPlayer(t, db, bookingID, p1)
		registerTestPlayer(t, db, bookingID, p2)

		ownerToken := generateTestToken(ownerID, "owner@example.com", "player", "test-secret")

		req := httptest.NewRequest("POST", fmt.Sprintf("/api/bookings/%d/cancel-booking", bookingID), nil)
		req.Header.Set("Authorization", "Bearer "+ownerToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, getCredits(t, db, p1))
		assert.Equal(t, 3, getCredits(t, db, p2))

		var status string
		require.NoError(t, db.Get(&status, `SELECT status FROM bookings WHERE id = $1`, bookingID))
		assert.Equal(t, "cancelled", status)

		var notifCount int
		require.NoError(t, db.Get(&notifCount, `SELECT COUNT(*) FROM notifications WHERE type = 'booking_cancelled'`))
		assert.Equal(t, 2, notifCount)

		assertLedgerConsistent(t, db, p1)
		assertLedgerConsistent(t, db, p2)
		assertLedgerConsistent(t, db, ownerID)
	})

	t.Run("Cancelled player can rejoin and is charged again", func(t *testing.T) {
		cleanDatabase(t, db)
		bookingRouter := newBookingRouter(db)

		ownerID := createTestUser(t, db, "owner@example.com", "Owner", 0)
		teamID := createTestTeam(t, db, ownerID, "Sunday FC")
		playerID := createTestUser(t, db, "player@example.com", "Player", 10)
		joinTestTeam(t, db, teamID, playerID)
		bookingID := createTestBooking(t, db, teamID, time.Now().Add(72*time.Hour), 10, 2)

		token := generateTestToken(playerID, "player@example.com", "player", "test-secret")

		joinReq := httptest.NewRequest("POST", fmt.Sprintf("/api/bookings/%d/join", bookingID), nil)
		joinReq.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		bookingRouter.ServeHTTP(w, joinReq)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 8, getCredits(t, db, playerID))

		code, result := postCancel(t, router, bookingID, token)
		require.Equal(t, http.StatusOK, code)
		require.True(t, result.Success)
		assert.Equal(t, 10, getCredits(t, db, playerID))

		rejoinReq := httptest.NewRequest("POST", fmt.Sprintf("/api/bookings/%d/join", bookingID), nil)
		rejoinReq.Header.Set("Authorization", "Bearer "+token)
		w = httptest.NewRecorder()
		bookingRouter.ServeHTTP(w, rejoinReq)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 8, getCredits(t, db, playerID))

		// The registration lives in a single row that flips back to confirmed.
		var rowCount int
		require.NoError(t, db.Get(&rowCount, `SELECT COUNT(*) FROM player_bookings WHERE booking_id = $1 AND player_id = $2`, bookingID, playerID))
		assert.Equal(t, 1, rowCount)

		var status string
		require.NoError(t, db.Get(&status, `SELECT status FROM player_bookings WHERE booking_id = $1 AND player_id = $2`, bookingID, playerID))
		assert.Equal(t, "confirmed", status)

		assertLedgerConsistent(t, db, playerID)
		assertLedgerConsistent(t, db, ownerID)
	})
}
