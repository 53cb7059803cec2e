package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/predictlab/forecast-ui-api/internal/domain/auth"
)

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == domainauth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestAuthRoutes_SignInSetsSessionCookie(t *testing.T) {
	f := newRouterFixture(t)

	body := `{"email":"user@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cookie := sessionCookieFrom(t, rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
	assert.Equal(t, 1, f.sessions.Len())

	var payload struct {
		User struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "mock-user-1", payload.User.ID)
	assert.Equal(t, "user", payload.User.Role)
}

func TestAuthRoutes_SignUpProvisionsAdmin(t *testing.T) {
	f := newRouterFixture(t, "boss@example.com")

	body := `{"email":"boss@example.com","password":"pw"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domainauth.RoleAdmin, f.roles.Role("mock-user-1"))

	var payload struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "admin", payload.User.Role)
}

func TestAuthRoutes_StatusRoundTrip(t *testing.T) {
	f := newRouterFixture(t)

	// Anonymous status.
	req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Signed-in status.
	cookie := f.addSession(t, "user-1", domainauth.RoleUser)
	req = httptest.NewRequest(http.MethodGet, "/auth/status", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.Authenticated)
	assert.Equal(t, "user-1", payload.User.ID)
}

func TestAuthRoutes_LogoutClearsClientCookie(t *testing.T) {
	f := newRouterFixture(t)

	// Sign in first so the manager holds a token.
	signIn := httptest.NewRequest(http.MethodPost, "/auth/signin",
		strings.NewReader(`{"email":"user@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, signIn)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookieFrom(t, rec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookieFrom(t, rec)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
	assert.Equal(t, []string{cookie.Value}, f.provider.SignOuts)

	// The server-side record survives until the identity-absent transition.
	assert.Equal(t, 1, f.sessions.Len())
}

func TestAuthRoutes_SignInFailure(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signin", strings.NewReader(`{"email":`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRoutes_ProfileRequiresSession(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/profile",
		strings.NewReader(`{"display_name":"New Name"}`))
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRoutes_FederatedStart(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/federated/start?redirect_uri=/dashboard", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names[oauthStateCookie])
	assert.True(t, names[oauthNonceCookie])
	assert.True(t, names[postLoginCookie])
}

func TestAuthRoutes_FederatedCallbackRejectsBadState(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/federated/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	req.AddCookie(&http.Cookie{Name: oauthNonceCookie, Value: "nonce"})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_state")
}

func TestAuthRoutes_FederatedCallbackCompletes(t *testing.T) {
	f := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/federated/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "s1"})
	req.AddCookie(&http.Cookie{Name: oauthNonceCookie, Value: "n1"})
	req.AddCookie(&http.Cookie{Name: postLoginCookie, Value: "/dashboard"})
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookieFrom(t, rec))
	assert.Equal(t, 1, f.sessions.Len())
}
