package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"taxease/internal/domain/auth"
)

func (s *Store) CreateUser(ctx context.Context, user auth.User, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO users (id, name, email, password_hash, account_type, created_at)
    VALUES (?,?,?,?,?,?)
  `, user.ID, user.Name, user.Email, passwordHash, user.AccountType, user.CreatedAt.UnixNano())
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return auth.ErrUserExists
	}
	return err
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (auth.User, string, error) {
	var user auth.User
	var hash string
	var created int64
	err := s.db.QueryRowContext(ctx, `
    SELECT id, name, email, account_type, created_at, password_hash
    FROM users
    WHERE email = ?
  `, email).Scan(&user.ID, &user.Name, &user.Email, &user.AccountType, &created, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, "", auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, "", err
	}
	user.CreatedAt = time.Unix(0, created).UTC()
	return user, hash, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (auth.User, error) {
	var user auth.User
	var created int64
	err := s.db.QueryRowContext(ctx, `
    SELECT id, name, email, account_type, created_at
    FROM users
    WHERE id = ?
  `, id).Scan(&user.ID, &user.Name, &user.Email, &user.AccountType, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = time.Unix(0, created).UTC()
	return user, nil
}
