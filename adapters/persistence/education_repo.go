package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-api/internal/domain/education"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type postgresEducationRepo struct {
	db *pgxpool.Pool
}

func NewPostgresEducationRepo(db *pgxpool.Pool) education.Repository {
	return &postgresEducationRepo{db: db}
}

var psqlEducation = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Sortable columns are whitelisted; anything else falls back to created_at.
var educationSortColumns = map[string]bool{
	"created_at": true,
	"start_date": true,
	"end_date":   true,
	"school":     true,
}

func educationOrderBy(sortBy, sortOrder string) string {
	if !educationSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if !strings.EqualFold(sortOrder, "asc") {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}
	return sortBy + " " + sortOrder
}

func scanEducation(row pgx.Row) (*education.Education, error) {
	e := &education.Education{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.School, &e.Degree, &e.Description,
		&e.StartDate, &e.EndDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("education", "")
		}
		return nil, apperror.NewInternal("failed to scan education row", err)
	}
	return e, nil
}

func (r *postgresEducationRepo) Save(ctx context.Context, e *education.Education) error {
	query := `
		INSERT INTO educations (user_id, school, degree, description, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		e.UserID, e.School, e.Degree, e.Description,
		e.StartDate, e.EndDate, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return apperror.NewInternal("failed to save education", err)
	}
	return nil
}

func (r *postgresEducationRepo) Update(ctx context.Context, e *education.Education) error {
	query := `
		UPDATE educations SET
			school = $3, degree = $4, description = $5, start_date = $6, end_date = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query,
		e.ID, e.UserID, e.School, e.Degree, e.Description, e.StartDate, e.EndDate,
	)
	if err != nil {
		return apperror.NewInternal("failed to update education", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education", strconv.FormatInt(e.ID, 10))
	}
	return nil
}

func (r *postgresEducationRepo) Delete(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM educations WHERE id = $1 AND user_id = $2`
	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete education", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("education", strconv.FormatInt(id, 10))
	}
	return nil
}

func (r *postgresEducationRepo) FindByID(ctx context.Context, id, ownerID int64) (*education.Education, error) {
	query := `
		SELECT id, user_id, school, degree, description, start_date, end_date, created_at, updated_at
		FROM educations
		WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRow(ctx, query, id, ownerID)
	e, err := scanEducation(row)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("education", strconv.FormatInt(id, 10))
		}
		return nil, err
	}
	return e, nil
}

func (r *postgresEducationRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*education.Education, error) {
	builder := psqlEducation.Select("id, user_id, school, degree, description, start_date, end_date, created_at, updated_at").
		From("educations").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy(educationOrderBy(sortBy, sortOrder)).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list educations query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query educations", err)
	}
	defer rows.Close()

	list := make([]*education.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating education rows", err)
	}
	return list, nil
}
