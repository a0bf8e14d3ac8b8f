package team

import (
	"errors"
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

// @Summary      Create a team
// @Description  Creates a team owned by the caller and assigns them to it.
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTeamRequest true "Team payload"
// @Success      201 {object} Team
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/teams [post]
func (h *Handler) CreateTeam(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyInTeam) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already a member of a team"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// @Summary      Join a team by invite code
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body JoinTeamRequest true "Invite code"
// @Success      200 {object} Team
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/teams/join [post]
func (h *Handler) JoinTeam(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.service.JoinTeam(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInviteCode):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Invalid invite code"})
		case errors.Is(err, ErrAlreadyInTeam):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Already a member of a team"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to join team"})
		}
		return
	}

	c.JSON(http.StatusOK, team)
}

// @Summary      Get a team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        teamID path int true "Team ID"
// @Success      200 {object} Team
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/teams/{teamID} [get]
func (h *Handler) GetTeam(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	team, err := h.service.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Team not found"})
		return
	}

	c.JSON(http.StatusOK, team)
}

// @Summary      List team roster
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        teamID path int true "Team ID"
// @Success      200 {array} user.User
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/teams/{teamID}/roster [get]
func (h *Handler) GetRoster(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	roster, err := h.service.GetRoster(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch roster"})
		return
	}

	c.JSON(http.StatusOK, roster)
}

// @Summary      Leave current team
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /api/teams/leave [post]
func (h *Handler) LeaveTeam(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	if err := h.service.LeaveTeam(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, ErrNotTeamOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Team owner cannot leave the team"})
		case errors.Is(err, ErrTeamNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Not in a team"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to leave team"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Left the team"})
}

// @Summary      Remove a team member
// @Tags         teams
// @Produce      json
// @Security     BearerAuth
// @Param        teamID path int true "Team ID"
// @Param        memberID path int true "Member user ID"
// @Success      200 {object} api.MessageResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/teams/{teamID}/members/{memberID} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}
	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), actorID, teamID, memberID); err != nil {
		switch {
		case errors.Is(err, ErrNotTeamOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Only the team owner can remove members"})
		case errors.Is(err, ErrTeamNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Team not found"})
		default:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found in this team"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member removed"})
}

// @Summary      Update the team cancellation policy
// @Tags         teams
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        teamID path int true "Team ID"
// @Param        request body UpdatePolicyRequest true "Policy overrides"
// @Success      200 {object} Team
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/teams/{teamID}/policy [put]
func (h *Handler) UpdatePolicy(c *gin.Context) {
	actorID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	teamID, err := strconv.Atoi(c.Param("teamID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid team ID"})
		return
	}

	var req UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.service.UpdatePolicy(c.Request.Context(), actorID, teamID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotTeamOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "Only the team owner can update the policy"})
		case errors.Is(err, ErrTeamNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Team not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update policy"})
		}
		return
	}

	c.JSON(http.StatusOK, team)
}
