package handler

import (
	"net/http"

	"github.com/gdugdh24/techmate-hunt/internal/usecase/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// SignUp handles participant registration
// @Summary Sign up
// @Description Register a participant and start matchmaking
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignUpRequest true "Registration data"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req auth.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	result, err := h.authUseCase.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, result)
}

// SignIn handles email/password sign in
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignInRequest true "Credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req auth.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	result, err := h.authUseCase.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "sign in failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// SignOut handles user logout
// @Summary Sign out
// @Description Invalidate the current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authUseCase.SignOut(c.Request.Context(), c.GetString("token")); err != nil {
		respondError(c, err, "sign out failed")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "signed out successfully",
	})
}

// Me returns current user info
// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "unauthorized",
		})
		return
	}

	email := c.GetString("email")
	c.JSON(http.StatusOK, gin.H{
		"userId":  userID,
		"email":   email,
		"isAdmin": h.authUseCase.IsAdmin(email),
	})
}
