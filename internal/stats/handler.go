package stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Record godoc
// @Summary      Record match stats
// @Description  Records the result and per-player lines for a finished match. Re-recording overwrites the previous lines. Admin only.
// @Tags         stats
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                 true  "Booking ID"
// @Param        request    body      RecordStatsRequest  true  "Match result and player lines"
// @Success      200        {object}  MatchReport
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /api/admin/bookings/{bookingID}/stats [post]
func (h *Handler) Record(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	var req RecordStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	report, err := h.service.Record(c.Request.Context(), userID, bookingID, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrMatchNotStarted):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Match has not started yet"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to record stats"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetReport godoc
// @Summary      Get match stats
// @Tags         stats
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  MatchReport
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/stats [get]
func (h *Handler) GetReport(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrNoStats) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "No stats recorded for this booking"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Leaderboard godoc
// @Summary      Team leaderboard
// @Description  Top players of the team ordered by goals, then assists.
// @Tags         stats
// @Security     BearerAuth
// @Produce      json
// @Param        teamID  path      int  true   "Team ID"
// @Param        limit   query     int  false  "Max entries (default 10)"
// @Success      200     {array}   LeaderboardEntry
// @Router       /api/teams/{teamID}/leaderboard [get]
func (h *Handler) Leaderboard(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.service.Leaderboard(c.Request.Context(), teamID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
