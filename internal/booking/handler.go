package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/credits"
	"github.com/ifex-stack/kickbook-sub000/internal/team"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a booking
// @Description  Creates a match booking for a team. Only the team owner or an admin may create bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking details"
// @Success      201      {object}  Booking
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Router       /api/bookings [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.service.Create(c.Request.Context(), userID, auth.IsAdmin(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotTeamOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Only the team owner can create bookings"})
		case errors.Is(err, team.ErrTeamNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Team not found"})
		default:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// Get godoc
// @Summary      Get a booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Booking
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID} [get]
func (h *Handler) Get(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	booking, err := h.service.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load booking"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListTeamBookings godoc
// @Summary      List a team's bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        teamID    path      int   true   "Team ID"
// @Param        upcoming  query     bool  false  "Only upcoming active bookings"
// @Success      200       {array}   Booking
// @Router       /api/teams/{teamID}/bookings [get]
func (h *Handler) ListTeamBookings(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	upcomingOnly := c.DefaultQuery("upcoming", "false") == "true"

	bookings, err := h.service.ListTeamBookings(c.Request.Context(), teamID, upcomingOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListMyBookings godoc
// @Summary      List the caller's bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Booking
// @Router       /api/me/bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.ListMyBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// Join godoc
// @Summary      Join a booking
// @Description  Registers the caller for the match and charges the credit cost to their balance.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      201        {object}  PlayerBooking
// @Failure      402        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/join [post]
func (h *Handler) Join(c *gin.Context) {
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

	pb, err := h.service.Join(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrBookingStarted):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking has already started"})
		case errors.Is(err, ErrBookingFull):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Booking is full"})
		case errors.Is(err, ErrAlreadyJoined):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already registered for this booking"})
		case errors.Is(err, ErrNotTeamMember):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "You are not a member of this team"})
		case errors.Is(err, credits.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient credits"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to join booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, pb)
}

// ListPlayers godoc
// @Summary      List registered players
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path     int  true  "Booking ID"
// @Success      200        {array}  PlayerBookingWithUser
// @Router       /api/bookings/{bookingID}/players [get]
func (h *Handler) ListPlayers(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid booking ID"})
		return
	}

	players, err := h.service.ListPlayers(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load players"})
		return
	}

	c.JSON(http.StatusOK, players)
}

// RemovePlayer godoc
// @Summary      Remove a player from a booking
// @Description  Frees the slot without issuing a refund. Team owner or admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Param        playerID   path      int  true  "Player ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/players/{playerID} [delete]
func (h *Handler) RemovePlayer(c *gin.Context) {
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
	playerID, err := strconv.Atoi(c.Param("playerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid player ID"})
		return
	}

	err = h.service.RemovePlayer(c.Request.Context(), userID, auth.IsAdmin(c), bookingID, playerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrNotRegistered):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Player is not registered"})
		case errors.Is(err, ErrNotTeamOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Only the team owner can remove players"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to remove player"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "player removed"})
}
