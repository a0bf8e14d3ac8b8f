package achievements

import (
	"net/http"
	"strconv"

	"github.com/ifex-stack/kickbook-sub000/internal/api"
	"github.com/ifex-stack/kickbook-sub000/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListCatalog godoc
// @Summary      List all achievements
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Achievement
// @Router       /api/achievements [get]
func (h *Handler) ListCatalog(c *gin.Context) {
	catalog, err := h.service.ListCatalog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// ListMine godoc
// @Summary      List the caller's unlocked achievements
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  PlayerAchievement
// @Router       /api/me/achievements [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	unlocked, err := h.service.ListForPlayer(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, unlocked)
}

// ListForPlayer godoc
// @Summary      List a player's unlocked achievements
// @Tags         achievements
// @Security     BearerAuth
// @Produce      json
// @Param        playerID  path     int  true  "Player ID"
// @Success      200       {array}  PlayerAchievement
// @Router       /api/players/{playerID}/achievements [get]
func (h *Handler) ListForPlayer(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("playerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid player ID"})
		return
	}

	unlocked, err := h.service.ListForPlayer(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load achievements"})
		return
	}

	c.JSON(http.StatusOK, unlocked)
}
