package certificate

import (
	"context"
	"errors"
	"time"
)

type Certificate struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Issuer      string    `json:"issuer"`
	Description string    `json:"description"`
	IssuedAt    time.Time `json:"issued_at"`
	// EducationIDs holds the linked education records, hydrated on reads.
	// The set is fully replaced on each write, never diffed incrementally.
	EducationIDs []int64   `json:"education_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *Certificate) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Issuer == "" {
		return errors.New("issuer is required")
	}
	return nil
}

// IsLinked reports whether the education id is already linked.
func (c *Certificate) IsLinked(educationID int64) bool {
	for _, id := range c.EducationIDs {
		if id == educationID {
			return true
		}
	}
	return false
}

type Repository interface {
	Save(ctx context.Context, c *Certificate) error
	Update(ctx context.Context, c *Certificate) error
	Delete(ctx context.Context, id, ownerID int64) error
	// FindByID hydrates EducationIDs along with the certificate row.
	FindByID(ctx context.Context, id, ownerID int64) (*Certificate, error)
	ListByOwner(ctx context.Context, ownerID int64, limit, offset int, sortBy, sortOrder string) ([]*Certificate, error)
	// ReplaceEducationLinks swaps the full link set in one transaction.
	ReplaceEducationLinks(ctx context.Context, certificateID int64, educationIDs []int64) error
}
