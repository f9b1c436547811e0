package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayush/devconnector/backend/internal/models"
)

const uniqueViolation = "23505"

// PostgresUsers keeps accounts in PostgreSQL when POSTGRES_DSN is set.
// Profiles and posts stay in the document store and reference the UUID.
type PostgresUsers struct {
	pool *pgxpool.Pool
}

func NewPostgresUsers(pool *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{pool: pool}
}

// Migrate creates the users table if it doesn't exist.
func (s *PostgresUsers) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id       UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name     VARCHAR(30)  NOT NULL,
			email    VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			avatar   TEXT         NOT NULL DEFAULT '',
			date     TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (s *PostgresUsers) CreateUser(ctx context.Context, u *models.User) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password, avatar)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id::text, date`,
		u.Name, u.Email, u.Password, u.Avatar,
	).Scan(&u.ID, &u.Date)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userColumns = `id::text, name, email, password, avatar, date`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Avatar, &u.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *PostgresUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return scanUser(s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresUsers) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if isUUID(id) {
			valid = append(valid, id)
		}
	}
	out := make(map[string]*models.User, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, valid)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (s *PostgresUsers) UpdateAvatar(ctx context.Context, id, avatar string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `UPDATE users SET avatar = $1 WHERE id = $2`, avatar, id)
	if err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresUsers) DeleteUser(ctx context.Context, id string) error {
	if !isUUID(id) {
		return nil
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
