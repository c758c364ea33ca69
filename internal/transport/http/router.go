package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/handlers"
	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/service"
)

type Deps struct {
	AuthService     *service.AuthService
	AuthHandler     *handlers.AuthHandler
	UserHandler     *handlers.UserHandler
	TaskHandler     *handlers.TaskHandler
	CategoryHandler *handlers.CategoryHandler
	SearchHandler   *handlers.SearchHandler
	HealthHandler   *handlers.HealthHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", d.HealthHandler.Handler)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)

	requireUser := middleware.RequireUser(d.AuthService)

	users := v1.Group("/users", requireUser)
	users.GET("/me", d.UserHandler.Me)
	users.PUT("/me", d.UserHandler.UpdateMe)
	users.POST("/me/change-password", d.UserHandler.ChangePassword)

	tasks := v1.Group("/tasks", requireUser)
	tasks.GET("", d.TaskHandler.List)
	tasks.POST("", d.TaskHandler.Create)
	tasks.GET("/stats", d.TaskHandler.Stats)
	tasks.GET("/search", d.SearchHandler.Handler)
	tasks.GET("/:id", d.TaskHandler.Get)
	tasks.PUT("/:id", d.TaskHandler.Update)
	tasks.DELETE("/:id", d.TaskHandler.Delete)

	categories := v1.Group("/categories", requireUser)
	categories.GET("", d.CategoryHandler.List)
	categories.POST("", d.CategoryHandler.Create)
	categories.GET("/:id", d.CategoryHandler.Get)
	categories.PUT("/:id", d.CategoryHandler.Update)
	categories.DELETE("/:id", d.CategoryHandler.Delete)
}
