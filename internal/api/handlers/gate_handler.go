package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloraops/alora-site/internal/api/middleware"
	"github.com/aloraops/alora-site/internal/config"
	"github.com/aloraops/alora-site/internal/logger"
	"github.com/aloraops/alora-site/internal/metrics"
)

// Cookie lifetime for a verified visitor: 7 days, enforced client-side
// by Max-Age. The server never revisits an issued cookie beyond the
// value equality check in the gate middleware.
const gateCookieMaxAge = 7 * 24 * 3600

// GateHandler verifies the shared site password and issues the access
// cookie.
type GateHandler struct {
	password   string
	production bool
}

func NewGateHandler(cfg config.Config) *GateHandler {
	return &GateHandler{password: cfg.SitePassword, production: cfg.IsProduction()}
}

type verifyPasswordRequest struct {
	Password string `json:"password"`
}

// VerifyPassword handles POST /api/verify-password. With no secret
// configured it fails closed: a server error, never a cookie.
func (h *GateHandler) VerifyPassword(c *gin.Context) {
	var req verifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if h.password == "" {
		logger.Log().Error("SITE_PASSWORD is not set; refusing to unlock")
		metrics.IncGateVerification("misconfigured")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Password protection is not properly configured",
		})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1 {
		h.setGateCookie(c)
		metrics.IncGateVerification("success")
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	metrics.IncGateVerification("failure")
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Incorrect password"})
}

// setGateCookie issues the access credential with the usual hardening:
// HttpOnly, Secure in production, SameSite=Strict, site-wide path.
func (h *GateHandler) setGateCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		middleware.GateCookieName,
		middleware.GateCookieValue,
		gateCookieMaxAge,
		"/",          // path
		"",           // domain (empty = current host)
		h.production, // secure (HTTPS only in production)
		true,         // httpOnly (no JS access)
	)
}
