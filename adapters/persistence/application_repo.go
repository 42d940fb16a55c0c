package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/internal/domain/application"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type postgresApplicationRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresApplicationRepo(db *pgxpool.Pool, logger logger.Logger) application.Repository {
	return &postgresApplicationRepo{db: db, logger: logger}
}

func scanApplication(row pgx.Row, l logger.Logger) (*application.Application, error) {
	a := &application.Application{}
	var imagesBytes []byte

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Title,
		&a.Description,
		&imagesBytes,
		&a.ProfileImage,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("application", "")
		}
		return nil, apperror.NewInternal("failed to scan application row", err)
	}

	if err := json.Unmarshal(imagesBytes, &a.Images); err != nil {
		l.Warn("Failed to unmarshal application images", zap.Int64("application_id", a.ID), zap.Error(err))
		a.Images = []string{}
	}
	if a.Images == nil {
		a.Images = []string{}
	}

	return a, nil
}

func (r *postgresApplicationRepo) FindByID(ctx context.Context, id int64) (*application.Application, error) {
	query := `
		SELECT id, user_id, title, description, images, profile_image, created_at, updated_at
		FROM applications
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	a, err := scanApplication(row, r.logger)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("application", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return a, nil
}

func (r *postgresApplicationRepo) FindByUserID(ctx context.Context, userID int64) (*application.Application, error) {
	query := `
		SELECT id, user_id, title, description, images, profile_image, created_at, updated_at
		FROM applications
		WHERE user_id = $1
	`
	row := r.db.QueryRow(ctx, query, userID)
	return scanApplication(row, r.logger)
}

func (r *postgresApplicationRepo) Save(ctx context.Context, a *application.Application) error {
	imagesBytes, err := json.Marshal(a.Images)
	if err != nil {
		return apperror.NewInternal("failed to marshal application images", err)
	}

	query := `
		INSERT INTO applications (user_id, title, description, images, profile_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = r.db.QueryRow(ctx, query,
		a.UserID, a.Title, a.Description, imagesBytes, a.ProfileImage,
		a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return apperror.NewInternal("failed to save application", err)
	}
	return nil
}

func (r *postgresApplicationRepo) Update(ctx context.Context, a *application.Application) error {
	imagesBytes, err := json.Marshal(a.Images)
	if err != nil {
		return apperror.NewInternal("failed to marshal application images for update", err)
	}

	query := `
		UPDATE applications SET
			title = $2, description = $3, images = $4, profile_image = $5, updated_at = NOW()
		WHERE id = $1
	`
	cmdTag, err := r.db.Exec(ctx, query,
		a.ID, a.Title, a.Description, imagesBytes, a.ProfileImage,
	)
	if err != nil {
		return apperror.NewInternal("failed to update application", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("application", strconv.FormatInt(a.ID, 10))
	}
	return nil
}

func (r *postgresApplicationRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM applications WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperror.NewInternal("failed to delete application", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("application", strconv.FormatInt(id, 10))
	}
	return nil
}
