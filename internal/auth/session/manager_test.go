package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerSetAndRead(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewManager(config.Config{AuthCookieSecure: true})
	m.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	m.Set(c, "tok", now.Add(2*time.Hour))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.Equal(t, 7200, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Request.AddCookie(cookies[0])
	token, ok := m.ReadToken(c)
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
}

func TestManagerExpiredSetClears(t *testing.T) {
	gin.SetMode(gin.TestMode)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewManager(config.Config{})
	m.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	m.Set(c, "tok", now.Add(-time.Minute))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)

	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	c.Request.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: "  "})
	_, ok := m.ReadToken(c)
	assert.False(t, ok)
}
