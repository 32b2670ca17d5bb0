// Package guard gates the protected route prefix at the transport boundary.
package guard

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/zealess/doj-frontend/internal/session"
)

// RequireCredential redirects requests without the credential cookie to the
// entry path, carrying the originally requested path as "from" so the entry
// point can resume navigation after login.
//
// This is a presence gate, not a verification gate: forged or expired tokens
// pass here and fail downstream at the principal fetch, where the
// bootstrapper's fallback policy takes over. No state is kept across
// requests.
func RequireCredential(cookieName, entryPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			q := url.Values{"from": {c.Request.URL.Path}}
			c.Redirect(http.StatusTemporaryRedirect, entryPath+"?"+q.Encode())
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(session.WithToken(c.Request.Context(), token))
		c.Next()
	}
}
