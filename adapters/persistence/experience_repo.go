package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-api/internal/domain/experience"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type postgresExperienceRepo struct {
	db *pgxpool.Pool
}

func NewPostgresExperienceRepo(db *pgxpool.Pool) experience.Repository {
	return &postgresExperienceRepo{db: db}
}

var psqlExperience = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var experienceSortColumns = map[string]bool{
	"created_at":   true,
	"start_date":   true,
	"end_date":     true,
	"company_name": true,
}

func experienceOrderBy(sortBy, sortOrder string) string {
	if !experienceSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if !strings.EqualFold(sortOrder, "asc") {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}
	return sortBy + " " + sortOrder
}

func scanExperience(row pgx.Row) (*experience.Experience, error) {
	e := &experience.Experience{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.CompanyName, &e.Position, &e.Description,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("experience", "")
		}
		return nil, apperror.NewInternal("failed to scan experience row", err)
	}
	return e, nil
}

func (r *postgresExperienceRepo) Save(ctx context.Context, e *experience.Experience) error {
	query := `
		INSERT INTO experiences (user_id, company_name, position, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		e.UserID, e.CompanyName, e.Position, e.Description,
		e.StartDate, e.EndDate, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return apperror.NewInternal("failed to save experience", err)
	}
	return nil
}

func (r *postgresExperienceRepo) Update(ctx context.Context, e *experience.Experience) error {
	query := `
		UPDATE experiences SET
			company_name = $3, position = $4, description = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.UserID, e.CompanyName, e.Position, e.Description, e.StartDate, e.EndDate,
	)
	if err != nil {
		return apperror.NewInternal("failed to update experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("experience", strconv.FormatInt(e.ID, 10))
	}
	return nil
}

func (r *postgresExperienceRepo) Delete(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM experiences WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete experience", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("experience", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresExperienceRepo) FindByID(ctx context.Context, id, ownerID int64) (*experience.Experience, error) {
	query := `
		SELECT id, user_id, company_name, position, description, start_date, end_date, created_at, updated_at
		FROM experiences
		WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRow(ctx, query, id, ownerID)
	e, err := scanExperience(row)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("experience", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresExperienceRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*experience.Experience, error) {
	builder := psqlExperience.Select("id, user_id, company_name, position, description, start_date, end_date, created_at, updated_at").
		From("experiences").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy(experienceOrderBy(sortBy, sortOrder)).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list experiences query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query experiences", err)
	}
	defer rows.Close()

	list := make([]*experience.Experience, 0)
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating experience rows", err)
	}
	return list, nil
}
