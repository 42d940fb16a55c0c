package education

import (
	"context"
	"errors"
	"time"
)

type Education struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	School      string     `json:"school"`
	Degree      string     `json:"degree"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *Education) Validate() error {
	if e.School == "" {
		return errors.New("school is required")
	}
	if e.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return errors.New("end date must not precede start date")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, e *Education) error
	Update(ctx context.Context, e *Education) error
	Delete(ctx context.Context, id, ownerID int64) error
	FindByID(ctx context.Context, id, ownerID int64) (*Education, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*Education, error)
}
