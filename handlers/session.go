package handlers

import (
	"net/http"

	"nyayasetu-web/models"
	"nyayasetu-web/service"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie names the browser session cookie
	SessionCookie = "nyaya_session"
	// SessionHeader lets non-browser clients carry the session id
	SessionHeader = "X-Session-ID"

	sessionKey = "session"
)

// SessionMiddleware attaches the caller's session to the request, issuing
// a new cookie when the session is new
func SessionMiddleware(sessions *service.SessionService, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			raw = c.GetHeader(SessionHeader)
		}

		session, created := sessions.Resolve(raw)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, session.ID.String(), 0, "/", "", secure, true)
		}
		c.Header(SessionHeader, session.ID.String())
		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *models.Session {
	return c.MustGet(sessionKey).(*models.Session)
}
