package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-api/internal/domain/aboutme"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type postgresAboutMeRepo struct {
	db *pgxpool.Pool
}

func NewPostgresAboutMeRepo(db *pgxpool.Pool) aboutme.Repository {
	return &postgresAboutMeRepo{db: db}
}

func (r *postgresAboutMeRepo) GetByUserID(ctx context.Context, userID int64) (*aboutme.AboutMe, error) {
	query := `
		SELECT user_id, title, description, updated_at
		FROM about_me
		WHERE user_id = $1
	`
	a := &aboutme.AboutMe{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&a.UserID,
		&a.Title,
		&a.Description,
		&a.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A tenant without an about-me record gets an empty one, the same
			// way a fresh profile starts blank.
			return &aboutme.AboutMe{UserID: userID}, nil
		}
		return nil, apperror.NewInternal("failed to query about_me", err)
	}

	return a, nil
}

func (r *postgresAboutMeRepo) Upsert(ctx context.Context, a *aboutme.AboutMe) error {
	query := `
		INSERT INTO about_me (user_id, title, description, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, a.UserID, a.Title, a.Description, a.UpdatedAt)
	if err != nil {
		return apperror.NewInternal("failed to upsert about_me", err)
	}
	return nil
}
