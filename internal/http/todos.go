package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"quicklist/internal/domain"
	"quicklist/internal/service"
)

type createTodoRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
}

type updateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

type TodoResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
	OwnerID     int64   `json:"owner_id"`
}

func (h *Handler) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := h.todos.Create(c.Request.Context(), currentUser(c).ID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todoToResponse(*todo))
}

func (h *Handler) listTodos(c *gin.Context) {
	todos, err := h.todos.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]TodoResponse, len(todos))
	for i := range todos {
		resp[i] = todoToResponse(todos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		h.respondError(c, service.ErrTodoNotFound)
		return
	}

	todo, err := h.todos.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) updateTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		h.respondError(c, service.ErrTodoNotFound)
		return
	}

	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	todo, err := h.todos.Update(c.Request.Context(), currentUser(c).ID, id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(*todo))
}

func (h *Handler) deleteTodo(c *gin.Context) {
	id, ok := todoID(c)
	if !ok {
		h.respondError(c, service.ErrTodoNotFound)
		return
	}

	if err := h.todos.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// todoID parses the path id. Malformed ids are reported like missing ones.
func todoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func todoToResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		IsCompleted: todo.IsCompleted,
		OwnerID:     todo.OwnerID,
	}
}
