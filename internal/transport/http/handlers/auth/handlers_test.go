package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxease/internal/domain/auth"
	"taxease/internal/transport/http/api"
	"taxease/internal/transport/http/middleware"
)

const testSecret = "handler-test-secret"

type memoryUsers struct {
	mu     sync.Mutex
	users  map[string]auth.User
	hashes map[string]string
}

func (m *memoryUsers) CreateUser(_ context.Context, user auth.User, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return auth.ErrUserExists
		}
	}
	m.users[user.ID] = user
	m.hashes[user.ID] = hash
	return nil
}

func (m *memoryUsers) FindUserByEmail(_ context.Context, email string) (auth.User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, m.hashes[u.ID], nil
		}
	}
	return auth.User{}, "", auth.ErrUserNotFound
}

func (m *memoryUsers) GetUser(_ context.Context, id string) (auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return u, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	store := &memoryUsers{users: map[string]auth.User{}, hashes: map[string]string{}}
	handler := NewHandler(auth.NewService(store, testSecret, time.Hour))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	router.Route("/api", handler.RegisterRoutes)
	return router
}

func do(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, api.Envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func dataMap(t *testing.T, env api.Envelope) map[string]any {
	t.Helper()
	data, ok := env.Data.(map[string]any)
	require.True(t, ok, "unexpected data: %#v", env.Data)
	return data
}

func registerAndLogin(t *testing.T, router http.Handler, email string) (string, string) {
	t.Helper()
	rec, _ := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Asha Rao", "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, env)
	user := data["user"].(map[string]any)
	return data["token"].(string), user["id"].(string)
}

func TestRegisterLoginVerify(t *testing.T) {
	router := newRouter(t)
	token, userID := registerAndLogin(t, router, "asha@example.com")
	assert.NotEmpty(t, token)

	rec, env := do(t, router, http.MethodPost, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, dataMap(t, env)["userId"])

	rec, env = do(t, router, http.MethodGet, "/api/auth/user/"+userID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := dataMap(t, env)
	assert.Equal(t, "asha@example.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "passwordHash")
}

func TestRegisterDuplicate(t *testing.T) {
	router := newRouter(t)
	registerAndLogin(t, router, "asha@example.com")

	rec, env := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "Other", "email": "ASHA@example.com", "password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, api.CodeUserExists, env.Error.Code)
}

func TestRegisterValidation(t *testing.T) {
	router := newRouter(t)
	rec, env := do(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name": "", "email": "bad", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.CodeValidation, env.Error.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newRouter(t)
	registerAndLogin(t, router, "asha@example.com")

	rec, env := do(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "asha@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.CodeInvalidCredentials, env.Error.Code)
}

func TestGetUserIsSelfOnly(t *testing.T) {
	router := newRouter(t)
	token, _ := registerAndLogin(t, router, "asha@example.com")
	_, otherID := registerAndLogin(t, router, "ravi@example.com")

	rec, env := do(t, router, http.MethodGet, "/api/auth/user/"+otherID, token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, api.CodeForbidden, env.Error.Code)
}

func TestVerifyRequiresToken(t *testing.T) {
	router := newRouter(t)
	rec, env := do(t, router, http.MethodPost, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, api.CodeUnauthorized, env.Error.Code)
}

func TestMalformedPayload(t *testing.T) {
	router := newRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
