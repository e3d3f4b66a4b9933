package middleware

import (
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aloraops/alora-site/internal/metrics"
)

const (
	// GateCookieName is the access credential checked on every request.
	GateCookieName = "site-password-verified"
	// GateCookieValue is the sentinel the cookie must equal exactly.
	GateCookieValue = "true"
	// ChallengePath is where locked-out visitors are sent.
	ChallengePath = "/password"
	// VerifyPath must stay reachable so visitors can authenticate.
	VerifyPath = "/api/verify-password"
)

// Static assets bypass the gate; the challenge page needs its styles
// and scripts to render.
var gateExemptExtensions = map[string]bool{
	".css": true, ".js": true, ".map": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".webp": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true,
}

// Gate enforces the optional site-wide password lock. Disabled, it is a
// no-op. Enabled, requests without the sentinel cookie are redirected to
// the challenge page with the original path as returnTo; no server-side
// state is touched, the cookie on the next request is the whole state.
func Gate(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if path == ChallengePath || path == VerifyPath ||
			path == "/api/v1/health" || path == "/metrics" {
			c.Next()
			return
		}

		if gateExemptExtensions[strings.ToLower(filepath.Ext(path))] {
			c.Next()
			return
		}

		if cookie, err := c.Cookie(GateCookieName); err == nil && cookie == GateCookieValue {
			c.Next()
			return
		}

		metrics.IncGateRedirect()
		c.Redirect(http.StatusFound, ChallengePath+"?returnTo="+url.QueryEscape(path))
		c.Abort()
	}
}
