package calendar

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo        Repository
	bookingRepo booking.Repository
}

func NewHandler(repo Repository, bookingRepo booking.Repository) *Handler {
	return &Handler{repo: repo, bookingRepo: bookingRepo}
}

// GetToken godoc
// @Summary      Get the caller's calendar feed token
// @Description  Returns the token for the personal ICS subscription URL. Created on first request.
// @Tags         calendar
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/calendar/token [get]
func (h *Handler) GetToken(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	token, err := h.repo.GetOrCreateToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create calendar token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"feed":  "/calendar/" + token + ".ics",
	})
}

// Feed godoc
// @Summary      ICS calendar feed
// @Description  Public feed authenticated by the token in the path. Lists the player's matches.
// @Tags         calendar
// @Produce      plain
// @Param        token  path      string  true  "Feed token"
// @Success      200    {string}  string  "iCalendar document"
// @Failure      404    {object}  api.ErrorResponse
// @Router       /calendar/{token}.ics [get]
func (h *Handler) Feed(c *gin.Context) {
	token := strings.TrimSuffix(c.Param("token"), ".ics")

	userID, err := h.repo.FindUserByToken(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Unknown calendar feed"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load calendar"})
		return
	}

	bookings, err := h.bookingRepo.ListUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load bookings"})
		return
	}

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="kickbook.ics"`)
	c.String(http.StatusOK, Feed(bookings, time.Now()))
}
