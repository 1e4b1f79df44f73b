package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quicklist/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserResponse struct {
	ID       int64          `json:"id"`
	Email    string         `json:"email"`
	IsActive bool           `json:"is_active"`
	Todos    []TodoResponse `json:"todos"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	_, token, err := h.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenToResponse(token))
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindError(c, err)
		return
	}

	_, token, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenToResponse(token))
}

func (h *Handler) me(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := UserResponse{
		ID:       profile.ID,
		Email:    profile.Email,
		IsActive: profile.IsActive,
		Todos:    make([]TodoResponse, len(profile.Todos)),
	}
	for i := range profile.Todos {
		resp.Todos[i] = todoToResponse(profile.Todos[i])
	}
	c.JSON(http.StatusOK, resp)
}

func tokenToResponse(token auth.Token) TokenResponse {
	return TokenResponse{AccessToken: token.Value, TokenType: "bearer"}
}
