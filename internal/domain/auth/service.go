package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MinPasswordLength = 6

type Service struct {
	Store    UserStore
	Secret   string
	TokenTTL time.Duration
	now      func() time.Time
}

func NewService(store UserStore, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl, now: time.Now}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" || in.Password == "" {
		return User{}, ErrMissingFields
	}
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return User{}, ErrInvalidEmail
	}
	if len(in.Password) < MinPasswordLength {
		return User{}, ErrWeakPassword
	}

	_, _, err := s.Store.FindUserByEmail(ctx, email)
	if err == nil {
		return User{}, ErrUserExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:          uuid.NewString(),
		Name:        name,
		Email:       email,
		AccountType: AccountTypeStandard,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.Store.CreateUser(ctx, user, hash); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login returns ErrInvalidCredentials for both unknown emails and wrong
// passwords.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	user, hash, err := s.Store.FindUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return "", User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", User{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Email: user.Email}, s.TokenTTL)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	return s.Store.GetUser(ctx, id)
}
