package credits

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"
	"github.com/ifex-stack/kickbook-sub000/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service       Service
	webhookSecret string
}

func NewHandler(service Service, webhookSecret string) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret}
}

// Purchase godoc
// @Summary      Start a credit purchase
// @Description  Creates a pending purchase transaction. Credits land on the balance once the payment webhook confirms it.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      PurchaseRequest  true  "Purchase amount (5 to 1000 credits)"
// @Success      201      {object}  Transaction
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Router       /api/credits/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount must be between 5 and 1000"})
		return
	}

	tx, err := h.service.Purchase(c.Request.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create purchase"})
		return
	}

	metrics.RecordCreditPurchase(StatusPending)
	c.JSON(http.StatusCreated, tx)
}

// PaymentWebhook godoc
// @Summary      Payment provider webhook
// @Description  Marks a pending purchase as completed or failed. Completion credits the buyer's balance exactly once.
// @Tags         credits
// @Accept       json
// @Produce      json
// @Param        request  body      WebhookRequest  true  "Payment result"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      401      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /webhooks/payment [post]
func (h *Handler) PaymentWebhook(c *gin.Context) {
	// The route is unauthenticated; the payment provider proves itself
	// with the shared secret configured at both ends.
	if h.webhookSecret != "" {
		given := c.GetHeader("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.webhookSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid webhook secret"})
			return
		}
	}

	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	_, err := h.service.ConfirmPurchase(c.Request.Context(), req.TransactionID, req.Status)
	if err != nil {
		if errors.Is(err, ErrPurchaseNotPending) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Purchase already settled"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to settle purchase"})
		return
	}

	metrics.RecordCreditPurchase(req.Status)
	c.JSON(http.StatusOK, api.MessageResponse{Message: "purchase " + req.Status})
}

// Use godoc
// @Summary      Spend credits on a booking
// @Description  Debits the caller and credits the booking's team owner in a single transaction.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      UseRequest  true  "Spend details"
// @Success      200      {object}  api.MessageResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      402      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /api/credits/use [post]
func (h *Handler) Use(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req UseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	err := h.service.Use(c.Request.Context(), userID, req.Amount, req.BookingID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "Insufficient credits"})
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Booking not found"})
		case errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount must be positive"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to spend credits"})
		}
		return
	}

	metrics.CreditsSpentTotal.Add(float64(req.Amount))
	c.JSON(http.StatusOK, api.MessageResponse{Message: "credits spent"})
}

// GetBalance godoc
// @Summary      Get credit balance
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Balance
// @Failure      401  {object}  api.ErrorResponse
// @Router       /api/credits [get]
func (h *Handler) GetBalance(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	balance, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, balance)
}

// ListTransactions godoc
// @Summary      List credit transactions
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 50)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {array}   Transaction
// @Failure      401     {object}  api.ErrorResponse
// @Router       /api/credits/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.service.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}
