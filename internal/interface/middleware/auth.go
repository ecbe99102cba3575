package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	ctxIdentityKey = "identity"
)

// Auth resolves the caller from "Authorization: Bearer <token>" or the
// access_token cookie. Preflight requests pass without an identity.
func Auth(auth *application.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		id, err := auth.Resolve(c.Request.Context(), tokenFrom(c))
		if err != nil {
			response.Fail(c, err)
			return
		}
		c.Set(ctxIdentityKey, id)
		c.Set(CtxUserIDKey, id.UserID)
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	tok, _ := c.Cookie(helpers.AccessCookie)
	return tok
}

// IdentityFrom returns the identity set by Auth.
func IdentityFrom(c *gin.Context) (application.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return application.Identity{}, false
	}
	id, ok := v.(application.Identity)
	return id, ok
}
