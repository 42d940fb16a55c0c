package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-api/internal/domain/user"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type postgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(db *pgxpool.Pool) user.Repository {
	return &postgresUserRepo{db: db}
}

func (r *postgresUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash
		FROM users
		WHERE email = $1
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewUserNotFound(email)
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}

	return u, nil
}

func (r *postgresUserRepo) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash
		FROM users
		WHERE id = $1
	`
	u := &user.User{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewUserNotFound(strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("error when query user: %w", err)
	}

	return u, nil
}

func (r *postgresUserRepo) UsernameForID(ctx context.Context, id int64) (string, error) {
	query := `SELECT username FROM users WHERE id = $1`

	var username string
	err := r.db.QueryRow(ctx, query, id).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperror.NewUserNotFound(strconv.FormatInt(id, 10))
		}
		return "", fmt.Errorf("error when query username: %w", err)
	}

	return username, nil
}
