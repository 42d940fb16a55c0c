package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/portfolio-api/internal/domain/certificate"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
)

type postgresCertificateRepo struct {
	db *pgxpool.Pool
}

func NewPostgresCertificateRepo(db *pgxpool.Pool) certificate.Repository {
	return &postgresCertificateRepo{db: db}
}

var psqlCertificate = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var certificateSortColumns = map[string]bool{
	"created_at": true,
	"issued_at":  true,
	"name":       true,
	"issuer":     true,
}

func certificateOrderBy(sortBy, sortOrder string) string {
	if !certificateSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if !strings.EqualFold(sortOrder, "asc") {
		sortOrder = "DESC"
	} else {
		sortOrder = "ASC"
	}
	return sortBy + " " + sortOrder
}

func scanCertificate(row pgx.Row) (*certificate.Certificate, error) {
	c := &certificate.Certificate{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Issuer, &c.Description,
		&c.IssuedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("certificate", "")
		}
		return nil, apperror.NewInternal("failed to scan certificate row", err)
	}
	return c, nil
}

func (r *postgresCertificateRepo) Save(ctx context.Context, c *certificate.Certificate) error {
	query := `
		INSERT INTO certificates (user_id, name, issuer, description, issued_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		c.UserID, c.Name, c.Issuer, c.Description,
		c.IssuedAt, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return apperror.NewInternal("failed to save certificate", err)
	}
	return nil
}

func (r *postgresCertificateRepo) Update(ctx context.Context, c *certificate.Certificate) error {
	query := `
		UPDATE certificates SET
			name = $3, issuer = $4, description = $5, issued_at = $6, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`
	cmdTag, err := r.db.Exec(ctx, query,
		c.ID, c.UserID, c.Name, c.Issuer, c.Description, c.IssuedAt,
	)
	if err != nil {
		return apperror.NewInternal("failed to update certificate", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("certificate", strconv.FormatInt(c.ID, 10))
	}
	return nil
}

func (r *postgresCertificateRepo) Delete(ctx context.Context, id, ownerID int64) error {
	// Link rows go first; the FK also cascades, but an explicit delete keeps
	// the operation self-contained when the schema changes.
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin delete certificate tx", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM certificate_educations WHERE certificate_id = $1`, id); err != nil {
		return apperror.NewInternal("failed to delete certificate links", err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM certificates WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return apperror.NewInternal("failed to delete certificate", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("certificate", strconv.FormatInt(id, 10))
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit delete certificate tx", err)
	}
	return nil
}

func (r *postgresCertificateRepo) FindByID(ctx context.Context, id, ownerID int64) (*certificate.Certificate, error) {
	query := `
		SELECT id, user_id, name, issuer, description, issued_at, created_at, updated_at
		FROM certificates
		WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRow(ctx, query, id, ownerID)
	c, err := scanCertificate(row)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("certificate", strconv.FormatInt(id, 10))
		}
		return nil, err
	}

	c.EducationIDs, err = r.educationLinks(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresCertificateRepo) ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*certificate.Certificate, error) {
	builder := psqlCertificate.Select("id, user_id, name, issuer, description, issued_at, created_at, updated_at").
		From("certificates").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy(certificateOrderBy(sortBy, sortOrder)).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build list certificates query", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query certificates", err)
	}
	defer rows.Close()

	list := make([]*certificate.Certificate, 0)
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating certificate rows", err)
	}

	for _, c := range list {
		c.EducationIDs, err = r.educationLinks(ctx, c.ID)
		if err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *postgresCertificateRepo) ReplaceEducationLinks(ctx context.Context, certificateID int64, educationIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin replace links tx", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM certificate_educations WHERE certificate_id = $1`, certificateID); err != nil {
		return apperror.NewInternal("failed to clear certificate links", err)
	}

	for _, eduID := range educationIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO certificate_educations (certificate_id, education_id) VALUES ($1, $2)`,
			certificateID, eduID,
		)
		if err != nil {
			return apperror.NewInternal("failed to insert certificate link", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit replace links tx", err)
	}
	return nil
}

func (r *postgresCertificateRepo) educationLinks(ctx context.Context, certificateID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT education_id FROM certificate_educations WHERE certificate_id = $1 ORDER BY education_id`,
		certificateID,
	)
	if err != nil {
		return nil, apperror.NewInternal("failed to query certificate links", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewInternal("failed to scan certificate link", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating certificate links", err)
	}
	return ids, nil
}
