package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "sf_session"

type ctxKey string

const sessionCtxKey ctxKey = "session"

// sessionMiddleware makes sure every API request carries a valid session id,
// issuing a fresh cookie when the browser has none.
func sessionMiddleware(sessions sessionIssuer, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Cookie(sessionCookie)
		id, err := sessions.Lookup(raw)
		if err != nil {
			id = sessions.Issue()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, sessions.MaxAgeSeconds(), "/", "", secure, true)

		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	id, _ := c.Request.Context().Value(sessionCtxKey).(string)
	return id
}
