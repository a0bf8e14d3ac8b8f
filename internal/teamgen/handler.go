package teamgen

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/booking"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	bookingService booking.Service
}

func NewHandler(bookingService booking.Service) *Handler {
	return &Handler{bookingService: bookingService}
}

// Generate godoc
// @Summary      Generate balanced sides
// @Description  Splits the booking's confirmed players into two sides of near-equal total skill.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Sides
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/generate-teams [post]
func (h *Handler) Generate(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	registrations, err := h.bookingService.ListPlayers(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load players"})
		return
	}

	var players []Player
	for _, reg := range registrations {
		if reg.Status != booking.PlayerStatusConfirmed {
			continue
		}
		players = append(players, Player{
			ID:          reg.PlayerID,
			Name:        reg.PlayerName,
			Position:    reg.Position,
			SkillRating: reg.SkillRating,
		})
	}

	if len(players) < 2 {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Need at least two confirmed players"})
		return
	}

	c.JSON(http.StatusOK, Split(players))
}
