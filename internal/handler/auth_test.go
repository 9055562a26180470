package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
)

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", SessionCookie)
	return nil
}

func TestSignupLoginLogout(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/signup", model.SignupRequest{
		Username: "maya",
		Email:    "maya@example.com",
		Password: "secret1",
		Role:     model.RoleManager,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret1")
	assert.NotContains(t, rec.Body.String(), "password")

	rec = srv.do(t, http.MethodPost, "/api/signup", model.SignupRequest{
		Username: "maya2", Email: "MAYA@example.com", Password: "secret1",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/login", model.LoginRequest{Email: "maya@example.com", Password: "wrong-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/login", model.LoginRequest{Email: "maya@example.com", Password: "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookie := sessionCookie(t, rec.Result())
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
	assert.NotEmpty(t, cookie.Value)

	rec = srv.do(t, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var me model.Identity
	decodeResponse(t, rec, &me)
	assert.Equal(t, "maya@example.com", me.Email)
	assert.Equal(t, model.RoleManager, me.Role)

	rec = srv.do(t, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, -1, sessionCookie(t, rec.Result()).MaxAge)
	assert.Zero(t, srv.store.Sessions.Len())

	rec = srv.do(t, http.MethodGet, "/api/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredSessionIsAnonymous(t *testing.T) {
	srv := newTestServer(t)
	cookie, _ := srv.signIn(t, model.RolePlayer)

	rec := srv.do(t, http.MethodGet, "/api/me", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	srv.clock.Advance(2 * time.Hour)

	rec = srv.do(t, http.MethodGet, "/api/me", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, srv.store.Sessions.Len())
}

func TestLogoutWithoutSession(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodPost, "/api/logout", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
