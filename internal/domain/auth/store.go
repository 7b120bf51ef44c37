package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taxease/internal/platform/querier"
)

const pgUniqueViolation = "23505"

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO users (id, name, email, password_hash, account_type, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, user.ID, user.Name, user.Email, passwordHash, user.AccountType, user.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrUserExists
	}
	return err
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (User, string, error) {
	var user User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, account_type, created_at, password_hash
    FROM users
    WHERE email = $1
  `, email).Scan(&user.ID, &user.Name, &user.Email, &user.AccountType, &user.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrUserNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return user, hash, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	var user User
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, account_type, created_at
    FROM users
    WHERE id = $1
  `, id).Scan(&user.ID, &user.Name, &user.Email, &user.AccountType, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
