package console

import (
	"errors"
	"net/http"

	"github.com/taxepay/internal/http/handlers/shared"
	"github.com/taxepay/internal/http/response"
	"github.com/taxepay/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest credential payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a back-office user and issues a bearer token
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		shared.RespondError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			shared.RespondError(c, http.StatusUnauthorized, "invalid credentials", nil)
		case errors.Is(err, service.ErrUserDisabled):
			shared.RespondError(c, http.StatusForbidden, "account disabled", nil)
		default:
			shared.RespondError(c, http.StatusInternalServerError, "login failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}
