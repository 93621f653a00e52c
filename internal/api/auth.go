package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bigstep/internal/security"
)

// LoginRequest 로그인 요청
type LoginRequest struct {
	Passphrase string `json:"passphrase"`
}

// Login 공유 암호로 세션 발급
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "잘못된 요청입니다"})
		return
	}

	token, expiresAt, err := h.gate.Login(req.Passphrase)
	if err != nil {
		if errors.Is(err, security.ErrInvalidPassphrase) {
			h.logger.Warn("login rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "암호가 올바르지 않습니다"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// Logout 세션 폐기
// POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	h.gate.Logout(bearerToken(c))
	c.Status(http.StatusNoContent)
}

// RequireSession Authorization: Bearer 토큰 확인
func (h *Handler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.gate.Validate(bearerToken(c)) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
