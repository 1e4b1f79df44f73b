package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"quicklist/internal/service"
)

const (
	detailEmailTaken       = "Email already registered"
	detailBadCredentials   = "Incorrect email or password"
	detailBadToken         = "Could not validate credentials"
	detailNotAuthenticated = "Not authenticated"
	detailTodoNotFound     = "To-do item not found or does not belong to the user"
	detailInternal         = "Internal Server Error"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondError maps service and binding errors onto status codes and bodies.
// Unknown errors are logged and reported as a bare 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"detail": []fieldError{{Field: verr.Field, Message: verr.Message}},
		})
	case errors.Is(err, service.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": detailEmailTaken})
	case errors.Is(err, service.ErrInvalidCredentials):
		unauthorized(c, detailBadCredentials)
	case errors.Is(err, service.ErrUnauthorized):
		unauthorized(c, detailBadToken)
	case errors.Is(err, service.ErrTodoNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": detailTodoNotFound})
	default:
		h.logger.WithError(err).
			WithField("request_id", c.GetString(requestIDKey)).
			Error("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
	}
}

// respondBindError reports a request body that could not be decoded or
// failed its binding rules.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{
				Field:   jsonFieldName(fe.Field()),
				Message: bindingMessage(fe),
			})
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
		return
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []fieldError{{Field: "body", Message: "could not be decoded"}},
	})
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

func jsonFieldName(field string) string {
	switch field {
	case "IsCompleted":
		return "is_completed"
	default:
		return strings.ToLower(field)
	}
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "is invalid"
	}
}
