package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"yatube/internal/core/user"
	userapp "yatube/internal/core/user/service"
	sessionPort "yatube/internal/ports/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie carries the signed session token.
const SessionCookie = "sessionid"

const (
	identityKey = "identity"
	sessionKey  = "session"
)

// Authenticator resolves a raw session token into the caller.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (user.Identity, *sessionPort.Session, error)
}

// SessionAuth attaches the caller's identity to the context when the
// request carries a valid session cookie; anonymous requests pass through.
// Only a rejected token loses its cookie: when the session cannot be checked
// the request is served anonymously and the cookie stays for the next one.
func SessionAuth(auth Authenticator, logger *zap.Logger, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		identity, session, err := auth.Authenticate(c.Request.Context(), raw)
		if errors.Is(err, userapp.ErrInvalidSession) {
			logger.Debug("Dropping session cookie", zap.Error(err))
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}
		if err != nil {
			logger.Error("Session check failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.Next()
			return
		}

		c.Set(identityKey, identity)
		c.Set(sessionKey, session)
		c.Next()
	}
}

// LoginRequired sends anonymous callers to loginPath, remembering where they were going.
func LoginRequired(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c).IsAnonymous() {
			c.Redirect(http.StatusFound, loginPath+"?next="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or the anonymous identity.
func CurrentUser(c *gin.Context) user.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return user.Identity{}
	}
	identity, _ := v.(user.Identity)
	return identity
}

// CurrentSession returns the verified session of the request, if any.
func CurrentSession(c *gin.Context) *sessionPort.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*sessionPort.Session)
	return s
}

// SetSessionCookie stores token for maxAge seconds.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
