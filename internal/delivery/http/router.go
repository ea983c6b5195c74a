package http

import (
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/handler"
	"github.com/gdugdh24/techmate-hunt/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authHandler     *handler.AuthHandler
	matchHandler    *handler.MatchHandler
	adminHandler    *handler.AdminHandler
	questionHandler *handler.QuestionHandler
	eventsHandler   *handler.EventsHandler
	authMiddleware  *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	matchHandler *handler.MatchHandler,
	adminHandler *handler.AdminHandler,
	questionHandler *handler.QuestionHandler,
	eventsHandler *handler.EventsHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:     authHandler,
		matchHandler:    matchHandler,
		adminHandler:    adminHandler,
		questionHandler: questionHandler,
		eventsHandler:   eventsHandler,
		authMiddleware:  authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.SignUp)
			auth.POST("/signin", r.authHandler.SignIn)
			auth.POST("/signout", r.authMiddleware.RequireAuth(), r.authHandler.SignOut)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Websocket clients cannot set headers, so the token comes in the query
		v1.GET("/events", r.eventsHandler.Stream)

		match := v1.Group("/match")
		match.Use(r.authMiddleware.RequireAuth())
		{
			match.GET("/status", r.matchHandler.GetStatus)
			match.POST("/attempt", r.matchHandler.Attempt)
			match.POST("/verify", r.matchHandler.Verify)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.RequireAuth(), r.authMiddleware.RequireAdmin())
		{
			admin.GET("/users", r.adminHandler.ListUsers)
			admin.DELETE("/users/:id", r.adminHandler.DeleteUser)
			admin.POST("/users/:id/reset", r.adminHandler.ResetUser)
			admin.POST("/matches", r.adminHandler.CreateMatch)
			admin.POST("/reconcile", r.adminHandler.Reconcile)

			admin.GET("/questions", r.questionHandler.ListQuestions)
			admin.POST("/questions", r.questionHandler.AddQuestion)
			admin.DELETE("/questions/:id", r.questionHandler.DeleteQuestion)
		}
	}

	return router
}
