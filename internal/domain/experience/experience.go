package experience

import (
	"context"
	"errors"
	"time"
)

type Experience struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	CompanyName string     `json:"company_name"`
	Position    string     `json:"position"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (e *Experience) Validate() error {
	if e.CompanyName == "" {
		return errors.New("company name is required")
	}
	if e.Position == "" {
		return errors.New("position is required")
	}
	if e.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, e *Experience) error
	Update(ctx context.Context, e *Experience) error
	Delete(ctx context.Context, id, ownerID int64) error
	FindByID(ctx context.Context, id, ownerID int64) (*Experience, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*Experience, error)
}
