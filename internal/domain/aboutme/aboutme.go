package aboutme

import (
	"context"
	"time"
)

// AboutMe is a singleton sub-resource per tenant.
type AboutMe struct {
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Repository interface {
	GetByUserID(ctx context.Context, userID int64) (*AboutMe, error)
	Upsert(ctx context.Context, a *AboutMe) error
}
