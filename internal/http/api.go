package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"quicklist/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	todos  service.TodoService
	logger logrus.FieldLogger
}

func NewHandler(users service.UserService, todos service.TodoService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		users:  users,
		todos:  todos,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), requestLogger(h.logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/users/", h.register)
	router.POST("/token", h.login)

	authed := router.Group("/", h.requireAuth())
	{
		authed.GET("/users/me", h.me)
		authed.POST("/todos/", h.createTodo)
		authed.GET("/todos/", h.listTodos)
		authed.GET("/todos/:id", h.getTodo)
		authed.PATCH("/todos/:id", h.updateTodo)
		authed.DELETE("/todos/:id", h.deleteTodo)
	}
}
