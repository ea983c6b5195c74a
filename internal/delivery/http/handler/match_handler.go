package handler

import (
	"net/http"

	"github.com/gdugdh24/techmate-hunt/internal/usecase/matchmaking"
	"github.com/gdugdh24/techmate-hunt/internal/usecase/participant"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase       *matchmaking.MatchUseCase
	participantUseCase *participant.ParticipantUseCase
}

func NewMatchHandler(matchUseCase *matchmaking.MatchUseCase, participantUseCase *participant.ParticipantUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase:       matchUseCase,
		participantUseCase: participantUseCase,
	}
}

// AttemptMatchRequest optionally narrows the candidate pool
type AttemptMatchRequest struct {
	TechStack string `json:"techStack" binding:"omitempty,techstack"`
}

// VerifyRequest carries the code the partner showed
type VerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// AttemptMatchResponse reports whether a pairing was made
type AttemptMatchResponse struct {
	Matched bool                     `json:"matched"`
	Status  *participant.MatchStatus `json:"status"`
}

// GetStatus handles GET /match/status
// @Summary Get my match status
// @Tags match
// @Security BearerAuth
// @Produce json
// @Success 200 {object} participant.MatchStatus
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /match/status [get]
func (h *MatchHandler) GetStatus(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	status, err := h.participantUseCase.GetUserMatchStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get match status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// Attempt handles POST /match/attempt
// @Summary Try to find a partner now
// @Tags match
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AttemptMatchRequest false "Optional tech stack filter"
// @Success 200 {object} AttemptMatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /match/attempt [post]
func (h *MatchHandler) Attempt(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AttemptMatchRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	match, err := h.matchUseCase.AttemptMatch(c.Request.Context(), userID, req.TechStack)
	if err != nil {
		respondError(c, err, "failed to attempt match")
		return
	}

	status, err := h.participantUseCase.GetUserMatchStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "failed to get match status")
		return
	}

	c.JSON(http.StatusOK, AttemptMatchResponse{
		Matched: match != nil,
		Status:  status,
	})
}

// Verify handles POST /match/verify
// @Summary Verify the pairing with the partner's code
// @Tags match
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Partner code"
// @Success 200 {object} domain.Participant
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /match/verify [post]
func (h *MatchHandler) Verify(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code is required"})
		return
	}

	p, err := h.matchUseCase.Verify(c.Request.Context(), userID, req.Code)
	if err != nil {
		respondError(c, err, "verification failed")
		return
	}

	c.JSON(http.StatusOK, p)
}
