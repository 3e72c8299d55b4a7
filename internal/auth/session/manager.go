// Package session carries the signed auth token in an HttpOnly cookie.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/config"
)

const DefaultCookieName = "clinicdesk_session"

// Manager reads and writes the session cookie. The API has no browser
// front end of its own, so the cookie is SameSite=Strict and scoped to the
// routes that read it.
type Manager struct {
	name   string
	secure bool
	now    func() time.Time
}

func NewManager(cfg config.Config) *Manager {
	return &Manager{name: DefaultCookieName, secure: cfg.AuthCookieSecure, now: time.Now}
}

func (m *Manager) CookieName() string {
	return m.name
}

// ReadToken returns the raw token, or false when the cookie is absent or blank.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	cookie, err := c.Request.Cookie(m.name)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(cookie.Value)
	return token, token != ""
}

// Set writes the token with an absolute expiry matching the token's own.
func (m *Manager) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(m.now()).Seconds())
	if maxAge <= 0 {
		m.Clear(c)
		return
	}
	http.SetCookie(c.Writer, m.cookie(token, maxAge, expiresAt))
}

func (m *Manager) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, m.cookie("", -1, time.Unix(0, 0)))
}

func (m *Manager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
