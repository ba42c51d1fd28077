package auth_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pooltablesquad/backoffice/internal/auth"
	"github.com/pooltablesquad/backoffice/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()

	token, err := auth.IssueToken(testSecret, 42, now)
	require.NoError(t, err)

	userID, err := auth.VerifyToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestVerifyTokenRejects(t *testing.T) {
	t.Run("foreign secret", func(t *testing.T) {
		token, err := auth.IssueToken("other-secret", 42, time.Now())
		require.NoError(t, err)

		_, err = auth.VerifyToken(testSecret, token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		issued := time.Now().Add(-auth.TokenTTL - time.Hour)
		token, err := auth.IssueToken(testSecret, 42, issued)
		require.NoError(t, err)

		_, err = auth.VerifyToken(testSecret, token)
		require.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.VerifyToken(testSecret, "not.a.token")
		require.Error(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)

	assert.True(t, auth.CheckPassword(hash, "hunter2"))
	assert.False(t, auth.CheckPassword(hash, "hunter3"))
}

// fakeUserStore holds at most one account in memory.
type fakeUserStore struct {
	user *models.StaffUser
}

func (f *fakeUserStore) GetStaffUserByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}

	return nil, nil
}

func (f *fakeUserStore) CreateStaffUser(_ context.Context, email, passwordHash string) (int64, error) {
	f.user = &models.StaffUser{ID: 1, Email: email, PasswordHash: passwordHash}
	return 1, nil
}

func newAuthRouter(store auth.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := auth.NewHandler(slog.Default(), store, testSecret, false)

	router := gin.New()
	handler.Register(router.Group("/api/auth"))
	router.GET("/protected", handler.Middleware(), func(c *gin.Context) {
		userID, _ := auth.UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	t.Fatal("no session cookie set")

	return nil
}

func TestLoginFlow(t *testing.T) {
	store := &fakeUserStore{}
	router := newAuthRouter(store)

	t.Run("register sets a session cookie", func(t *testing.T) {
		rec := postJSON(router, "/api/auth/register", `{"email":"staff@example.com","password":"hunter2"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		cookie := sessionCookie(t, rec)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		rec := postJSON(router, "/api/auth/register", `{"email":"staff@example.com","password":"hunter2"}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login with good credentials", func(t *testing.T) {
		rec := postJSON(router, "/api/auth/login", `{"email":"staff@example.com","password":"hunter2"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(t, rec)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(cookie)
		protected := httptest.NewRecorder()
		router.ServeHTTP(protected, req)

		require.Equal(t, http.StatusOK, protected.Code)
		var body map[string]int64
		require.NoError(t, json.Unmarshal(protected.Body.Bytes(), &body))
		assert.Equal(t, int64(1), body["user_id"])
	})

	t.Run("wrong password and unknown account look identical", func(t *testing.T) {
		wrongPass := postJSON(router, "/api/auth/login", `{"email":"staff@example.com","password":"nope"}`)
		unknown := postJSON(router, "/api/auth/login", `{"email":"ghost@example.com","password":"nope"}`)

		require.Equal(t, http.StatusBadRequest, wrongPass.Code)
		require.Equal(t, http.StatusBadRequest, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
	})
}

func TestMiddleware(t *testing.T) {
	store := &fakeUserStore{}
	router := newAuthRouter(store)

	t.Run("missing cookie is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is forbidden and the cookie is wiped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "garbage"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
	})

	t.Run("logout clears the cookie", func(t *testing.T) {
		rec := postJSON(router, "/api/auth/logout", "")

		require.Equal(t, http.StatusOK, rec.Code)
		cookie := sessionCookie(t, rec)
		assert.Empty(t, cookie.Value)
	})
}
