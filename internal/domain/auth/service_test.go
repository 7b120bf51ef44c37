package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUserStore struct {
	mu     sync.Mutex
	users  map[string]User
	hashes map[string]string
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{users: map[string]User{}, hashes: map[string]string{}}
}

func (m *memoryUserStore) CreateUser(_ context.Context, user User, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return ErrUserExists
		}
	}
	m.users[user.ID] = user
	m.hashes[user.ID] = passwordHash
	return nil
}

func (m *memoryUserStore) FindUserByEmail(_ context.Context, email string) (User, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, m.hashes[user.ID], nil
		}
	}
	return User{}, "", ErrUserNotFound
}

func (m *memoryUserStore) GetUser(_ context.Context, id string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryUserStore(), "test-secret", time.Hour)

	user, err := svc.Register(ctx, RegisterInput{Name: " Asha Rao ", Email: " Asha@Example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Asha Rao", user.Name)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, AccountTypeStandard, user.AccountType)

	token, loggedIn, err := svc.Login(ctx, "ASHA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryUserStore(), "test-secret", time.Hour)

	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "A@example.com", Password: "secret2"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(newMemoryUserStore(), "test-secret", time.Hour)
	_, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@example.com", Password: "12345"})
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestLoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemoryUserStore(), "test-secret", time.Hour)
	_, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "a@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidatesFields(t *testing.T) {
	svc := NewService(newMemoryUserStore(), "test-secret", time.Hour)
	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"missing name", RegisterInput{Email: "a@example.com", Password: "secret1"}, ErrMissingFields},
		{"missing email", RegisterInput{Name: "A", Password: "secret1"}, ErrMissingFields},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1"}, ErrInvalidEmail},
		{"trailing at", RegisterInput{Name: "A", Email: "a@", Password: "secret1"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
