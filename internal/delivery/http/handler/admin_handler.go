package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/techmate-hunt/internal/usecase/auth"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/matchmaking"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/participant"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	matchUseCase       *matchmaking.MatchUseCase
	participantUseCase *participant.ParticipantUseCase
	authUseCase        *auth.AuthUseCase
}

func NewAdminHandler(
	matchUseCase *matchmaking.MatchUseCase,
	participantUseCase *participant.ParticipantUseCase,
	authUseCase *auth.AuthUseCase,
) *AdminHandler {
	return &AdminHandler{
		matchUseCase:       matchUseCase,
		participantUseCase: participantUseCase,
		authUseCase:        authUseCase,
	}
}

// ManualMatchRequest names the two participants to pair
type ManualMatchRequest struct {
	User1ID string `json:"user1Id" binding:"required"`
	User2ID string `json:"user2Id" binding:"required,nefield=User1ID"`
}

// ListUsers handles GET /admin/users
// @Summary List participants
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} domain.Participant
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.participantUseCase.ListUsers(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser handles DELETE /admin/users/:id
// @Summary Delete a participant
// @Description Releases the partner, cancels deferred matching and revokes sessions
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.participantUseCase.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err, "failed to delete user")
		return
	}
	if err := h.authUseCase.RevokeAll(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "user deleted",
	})
}

// ResetUser handles POST /admin/users/:id/reset
// @Summary Reset a participant's pairing
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Participant ID"
// @Success 200 {object} domain.Participant
// @Failure 404 {object} ErrorResponse
// @Router /admin/users/{id}/reset [post]
func (h *AdminHandler) ResetUser(c *gin.Context) {
	p, err := h.matchUseCase.ResetMatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "failed to reset match")
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateMatch handles POST /admin/matches
// @Summary Pair two participants manually
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ManualMatchRequest true "Participants"
// @Success 201 {object} domain.Match
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /admin/matches [post]
func (h *AdminHandler) CreateMatch(c *gin.Context) {
	var req ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "exactly two different user ids are required",
		})
		return
	}

	match, err := h.matchUseCase.ManualMatch(c.Request.Context(), req.User1ID, req.User2ID)
	if err != nil {
		respondError(c, err, "failed to create match")
		return
	}

	c.JSON(http.StatusCreated, match)
}

// Reconcile handles POST /admin/reconcile
// @Summary Find and optionally repair one-sided pairings
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param repair query bool false "Reset orphaned participants"
// @Success 200 {object} matchmaking.ReconcileReport
// @Failure 400 {object} ErrorResponse
// @Router /admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *gin.Context) {
	repair := false
	if raw := c.Query("repair"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid repair flag"})
			return
		}
		repair = parsed
	}

	report, err := h.matchUseCase.Reconcile(c.Request.Context(), repair)
	if err != nil {
		respondError(c, err, "reconcile failed")
		return
	}

	c.JSON(http.StatusOK, report)
}
