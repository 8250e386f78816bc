package locale

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextKey is where the negotiated locale is stored on the gin context
const ContextKey = "locale"

// Middleware prefixes unlocalized page paths with the visitor's locale.
//
// Excluded paths pass through, but still get a negotiated locale on the
// context so API handlers can use it. A path that already carries a locale
// refreshes the locale cookie. Anything else is redirected with 307 to the
// same path and query under the resolved locale.
func (n *Negotiator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path

		if n.Excluded(p) {
			c.Set(ContextKey, n.Resolve(c.Request))
			c.Next()
			return
		}

		if tag, ok := n.LocaleFromPath(p); ok {
			n.setCookie(c, tag)
			c.Set(ContextKey, tag)
			c.Next()
			return
		}

		target := n.RedirectPath(n.Resolve(c.Request), p)
		if q := c.Request.URL.RawQuery; q != "" {
			target += "?" + q
		}
		c.Redirect(http.StatusTemporaryRedirect, target)
		c.Abort()
	}
}

// RedirectPath prefixes p with tag
func (n *Negotiator) RedirectPath(tag, p string) string {
	if p == "" || p == "/" {
		return "/" + tag
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return "/" + tag + p
}

func (n *Negotiator) setCookie(c *gin.Context, tag string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(n.cookieName, tag, int(n.cookieMaxAge.Seconds()), "/", "", n.secureCookie, false)
}

// FromContext returns the locale chosen for the request, or "" when the
// middleware did not run
func FromContext(c *gin.Context) string {
	return c.GetString(ContextKey)
}
