package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/clinicdesk/internal/auth/domain"
	"github.com/smallbiznis/clinicdesk/internal/auth/session"
	"github.com/smallbiznis/clinicdesk/internal/authorization"
	"github.com/smallbiznis/clinicdesk/internal/cliniccontext"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	authdomain.Service

	claims    *authdomain.Claims
	authErr   error
	lastToken string
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Claims, error) {
	f.lastToken = rawToken
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.claims, nil
}

type allowAll struct {
	calls []string
}

func (a *allowAll) Authorize(ctx context.Context, object string, action string) error {
	a.calls = append(a.calls, object+":"+action)
	return nil
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerValidators()

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	return &Server{
		engine:   r,
		cfg:      cfg,
		clock:    clock.NewFakeClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		sessions: session.NewManager(cfg),
		authsvc: &fakeAuthService{claims: &authdomain.Claims{
			UserID:   snowflake.ID(10),
			ClinicID: snowflake.ID(1),
			Role:     authdomain.RoleAdmin,
		}},
		authzSvc: &allowAll{},
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: session.DefaultCookieName, Value: "token-1"}
}

func TestAuthRequiredScopesRequest(t *testing.T) {
	s := newTestServer(t, config.Config{})
	var gotClinic snowflake.ID
	var gotActor cliniccontext.Actor
	s.engine.GET("/probe", s.AuthRequired(), func(c *gin.Context) {
		gotClinic, _ = cliniccontext.ClinicIDFromContext(c.Request.Context())
		gotActor, _ = cliniccontext.ActorFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := doJSON(t, s.engine, http.MethodGet, "/probe", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s.engine, http.MethodGet, "/probe", nil, sessionCookie())
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, snowflake.ID(1), gotClinic)
	require.Equal(t, snowflake.ID(10), gotActor.UserID)
	require.Equal(t, authdomain.RoleAdmin, gotActor.Role)
	require.Equal(t, "token-1", s.authsvc.(*fakeAuthService).lastToken)
}

func TestAuthRequiredRejectsExpiredSession(t *testing.T) {
	s := newTestServer(t, config.Config{})
	s.authsvc = &fakeAuthService{authErr: authdomain.ErrSessionExpired}
	s.engine.GET("/probe", s.AuthRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := doJSON(t, s.engine, http.MethodGet, "/probe", nil, sessionCookie())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "unauthorized", decodeError(t, w).Error)
}

func TestCronSecretRequired(t *testing.T) {
	cases := []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{name: "not configured", secret: "", header: "anything", want: http.StatusNotFound},
		{name: "missing header", secret: "s3cret", header: "", want: http.StatusUnauthorized},
		{name: "wrong header", secret: "s3cret", header: "nope", want: http.StatusUnauthorized},
		{name: "match", secret: "s3cret", header: "s3cret", want: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, config.Config{CronSecret: tc.secret})
			s.engine.POST("/cron/ping", s.CronSecretRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/cron/ping", nil)
			if tc.header != "" {
				req.Header.Set(HeaderCronSecret, tc.header)
			}
			w := httptest.NewRecorder()
			s.engine.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
		})
	}
}

func TestNoRouteIsJSONNotFound(t *testing.T) {
	s := newTestServer(t, config.Config{})
	s.registerFallback()

	w := doJSON(t, s.engine, http.MethodGet, "/nowhere", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "not_found", decodeError(t, w).Type)
}

func doCron(t *testing.T, s *Server, path, secret string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set(HeaderCronSecret, secret)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

type denyAll struct{}

func (denyAll) Authorize(ctx context.Context, object string, action string) error {
	return authorization.ErrForbidden
}

func TestAuthorizeRoute(t *testing.T) {
	s := newTestServer(t, config.Config{})
	authz := s.authzSvc.(*allowAll)
	s.engine.GET("/api/ledger", s.AuthRequired(), s.authorize(authorization.ObjectLedger, authorization.ActionRead),
		func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := doJSON(t, s.engine, http.MethodGet, "/api/ledger", nil, sessionCookie())
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, []string{authorization.ObjectLedger + ":" + authorization.ActionRead}, authz.calls)

	s.authzSvc = denyAll{}
	w = doJSON(t, s.engine, http.MethodGet, "/api/ledger", nil, sessionCookie())
	require.Equal(t, http.StatusForbidden, w.Code)
}
