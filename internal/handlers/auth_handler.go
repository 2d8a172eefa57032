package handlers

import (
	"net/http"

	"github.com/uherman/micro-kv/internal/auth"
	"github.com/uherman/micro-kv/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// TokenRequest represents the token request payload.
type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the token response.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Auth issues bearer tokens against the configured admin credential.
type Auth struct {
	adminUser         string
	adminPasswordHash string
}

// NewAuth builds the token handler from process configuration.
func NewAuth(cfg config.Config) *Auth {
	return &Auth{
		adminUser:         cfg.AdminUser,
		adminPasswordHash: cfg.AdminPasswordHash,
	}
}

// IssueToken handles POST /auth/token
func (a *Auth) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "username and password are required",
		})
		return
	}

	if a.adminPasswordHash == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "admin credential not configured",
		})
		return
	}

	if req.Username != a.adminUser ||
		bcrypt.CompareHashAndPassword([]byte(a.adminPasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "invalid credentials",
		})
		return
	}

	token, err := auth.GenerateToken(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "failed to generate token",
		})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Token:    token,
		Username: req.Username,
		Message:  "token issued",
	})
}
