package cancellation

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

// CanCancel godoc
// @Summary      Check whether the caller may cancel
// @Description  Dry run of the cancellation policy. Returns the decision and the refund without changing anything.
// @Tags         cancellations
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  Decision
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/can-cancel [get]
func (h *Handler) CanCancel(c *gin.Context) {
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

	decision, err := h.service.CanCancel(c.Request.Context(), userID, bookingID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Cancel godoc
// @Summary      Cancel the caller's registration
// @Description  Applies the cancellation policy. A policy rejection comes back with success false, not an error status.
// @Tags         cancellations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int            true   "Booking ID"
// @Param        request    body      CancelRequest  false  "Cancellation reason"
// @Success      200        {object}  Result
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
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

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.ProcessCancellation(c.Request.Context(), userID, bookingID, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CancelBooking godoc
// @Summary      Cancel a whole booking
// @Description  Team owner or admin only. Every registered player gets the full match fee back.
// @Tags         cancellations
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int            true   "Booking ID"
// @Param        request    body      CancelRequest  false  "Cancellation reason"
// @Success      200        {object}  Result
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /api/bookings/{bookingID}/cancel-booking [post]
func (h *Handler) CancelBooking(c *gin.Context) {
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

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.CancelEntireBooking(c.Request.Context(), userID, auth.IsAdmin(c), bookingID, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
	case errors.Is(err, ErrNotRegistered):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "You are not registered for this booking"})
	case errors.Is(err, ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Registration already cancelled"})
	case errors.Is(err, ErrNotAllowed):
		c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Only the team owner or an admin can cancel a booking"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to process cancellation"})
	}
}
