package certificate

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/domain/certificate"
	"github.com/khoahotran/portfolio-api/internal/domain/education"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/keys"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

type UseCase struct {
	repo       certificate.Repository
	educations education.Repository
	tenants    *service.TenantResolver
	cache      cache.Store
	events     *event.KafkaProducerClient
	logger     logger.Logger
}

func NewUseCase(
	repo certificate.Repository,
	educations education.Repository,
	tenants *service.TenantResolver,
	cacheStore cache.Store,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *UseCase {
	return &UseCase{
		repo:       repo,
		educations: educations,
		tenants:    tenants,
		cache:      cacheStore,
		events:     events,
		logger:     log,
	}
}

type CreateInput struct {
	UserID      int64
	Name        string
	Issuer      string
	Description string
	IssuedAt    time.Time
}

func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*certificate.Certificate, error) {
	now := time.Now().UTC()
	cert := &certificate.Certificate{
		UserID:      in.UserID,
		Name:        in.Name,
		Issuer:      in.Issuer,
		Description: in.Description,
		IssuedAt:    in.IssuedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := cert.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Save(ctx, cert); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeCreated, cert.ID, cert.UserID)
	return cert, nil
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID int64) (*certificate.Certificate, error) {
	cert, err := cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindCertificate, id, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*certificate.Certificate, error) {
			return uc.repo.FindByID(ctx, id, ownerID)
		})
	if err != nil {
		return nil, err
	}
	// The cache key is id-scoped, so a warm entry primed by the owner would
	// otherwise answer for any caller. Re-check ownership on every read.
	if cert.UserID != ownerID {
		return nil, apperror.NewNotFound("certificate", strconv.FormatInt(id, 10))
	}
	return cert, nil
}

type ListInput struct {
	OwnerID   int64
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (uc *UseCase) List(ctx context.Context, in ListInput) ([]*certificate.Certificate, error) {
	if in.Page <= 0 {
		in.Page = defaultPage
	}
	if in.Limit <= 0 {
		in.Limit = defaultLimit
	}

	tenant, err := uc.tenants.Username(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}

	key := keys.ListKey(keys.KindCertificate, tenant, in.Page, in.Limit, in.SortBy, in.SortOrder)
	return cache.GetOrCompute(ctx, uc.cache, key, keys.ListTTL,
		func(ctx context.Context) ([]*certificate.Certificate, error) {
			offset := (in.Page - 1) * in.Limit
			return uc.repo.ListByOwner(ctx, in.OwnerID, in.Limit, offset, in.SortBy, in.SortOrder)
		})
}

type UpdateInput struct {
	ID          int64
	OwnerID     int64
	Name        string
	Issuer      string
	Description string
	IssuedAt    time.Time
}

func (uc *UseCase) Update(ctx context.Context, in UpdateInput) (*certificate.Certificate, error) {
	cert, err := uc.repo.FindByID(ctx, in.ID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	cert.Name = in.Name
	cert.Issuer = in.Issuer
	cert.Description = in.Description
	cert.IssuedAt = in.IssuedAt
	if err := cert.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Update(ctx, cert); err != nil {
		return nil, err
	}
	if err := uc.invalidate(ctx, cert.ID); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeUpdated, cert.ID, cert.UserID)
	return cert, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, ownerID int64) error {
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := uc.invalidate(ctx, id); err != nil {
		return err
	}

	uc.publish(event.EventTypeDeleted, id, ownerID)
	return nil
}

// SetEducationLinks replaces the certificate's linked-education set wholesale.
// Every target id is verified to belong to the caller before anything is
// written; a miss on any one of them aborts the whole replacement.
func (uc *UseCase) SetEducationLinks(ctx context.Context, certificateID, ownerID int64, educationIDs []int64) (*certificate.Certificate, error) {
	cert, err := uc.repo.FindByID(ctx, certificateID, ownerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{}, len(educationIDs))
	deduped := make([]int64, 0, len(educationIDs))
	for _, id := range educationIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := uc.verifyEducation(ctx, id, ownerID); err != nil {
			return nil, err
		}
		deduped = append(deduped, id)
	}

	if err := uc.repo.ReplaceEducationLinks(ctx, cert.ID, deduped); err != nil {
		return nil, err
	}
	cert.EducationIDs = deduped

	if err := uc.invalidate(ctx, cert.ID); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeUpdated, cert.ID, cert.UserID)
	return cert, nil
}

// LinkEducation adds a single link. Linking an already-linked pair is a
// no-op that still returns the current certificate.
func (uc *UseCase) LinkEducation(ctx context.Context, certificateID, ownerID, educationID int64) (*certificate.Certificate, error) {
	cert, err := uc.repo.FindByID(ctx, certificateID, ownerID)
	if err != nil {
		return nil, err
	}
	// Ownership is checked on every call, even for a no-op: the caller
	// must never learn whether another tenant's education id exists.
	if err := uc.verifyEducation(ctx, educationID, ownerID); err != nil {
		return nil, err
	}
	if cert.IsLinked(educationID) {
		return cert, nil
	}
	return uc.SetEducationLinks(ctx, certificateID, ownerID, append(cert.EducationIDs, educationID))
}

// UnlinkEducation removes a single link; removing an absent link is a no-op.
func (uc *UseCase) UnlinkEducation(ctx context.Context, certificateID, ownerID, educationID int64) (*certificate.Certificate, error) {
	cert, err := uc.repo.FindByID(ctx, certificateID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := uc.verifyEducation(ctx, educationID, ownerID); err != nil {
		return nil, err
	}
	if !cert.IsLinked(educationID) {
		return cert, nil
	}

	remaining := make([]int64, 0, len(cert.EducationIDs)-1)
	for _, id := range cert.EducationIDs {
		if id != educationID {
			remaining = append(remaining, id)
		}
	}
	return uc.SetEducationLinks(ctx, certificateID, ownerID, remaining)
}

// verifyEducation confirms the link target exists and belongs to the owner.
// Absence and foreign ownership both read as ComponentNotFound; any other
// repository failure (a query error, a scan error) propagates untouched.
func (uc *UseCase) verifyEducation(ctx context.Context, educationID, ownerID int64) error {
	if _, err := uc.educations.FindByID(ctx, educationID, ownerID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.NewComponentNotFound("education", strconv.FormatInt(educationID, 10))
		}
		return err
	}
	return nil
}

func (uc *UseCase) invalidate(ctx context.Context, id int64) error {
	return cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindCertificate, id, keys.VariantFull))
}

func (uc *UseCase) publish(eventType string, id, ownerID int64) {
	if uc.events == nil {
		return
	}
	go func() {
		payload := event.EntityEventPayload{
			EventType: eventType,
			Kind:      keys.KindCertificate,
			EntityID:  id,
			OwnerID:   ownerID,
		}
		if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish '"+eventType+"' event", err,
				zap.String("certificate_id", strconv.FormatInt(id, 10)))
		}
	}()
}
