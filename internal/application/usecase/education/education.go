package education

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/application/service"
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
	repo    education.Repository
	tenants *service.TenantResolver
	cache   cache.Store
	events  *event.KafkaProducerClient
	logger  logger.Logger
}

func NewUseCase(
	repo education.Repository,
	tenants *service.TenantResolver,
	cacheStore cache.Store,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *UseCase {
	return &UseCase{repo: repo, tenants: tenants, cache: cacheStore, events: events, logger: log}
}

type CreateInput struct {
	UserID      int64
	School      string
	Degree      string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

// Create persists a new record. List caches are left alone on purpose:
// fresh rows show up once the 300s list window rolls over.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*education.Education, error) {
	now := time.Now().UTC()
	edu := &education.Education{
		UserID:      in.UserID,
		School:      in.School,
		Degree:      in.Degree,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := edu.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Save(ctx, edu); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeCreated, edu.ID, edu.UserID)
	return edu, nil
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID int64) (*education.Education, error) {
	edu, err := cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindEducation, id, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*education.Education, error) {
			return uc.repo.FindByID(ctx, id, ownerID)
		})
	if err != nil {
		return nil, err
	}
	// The cache key is id-scoped, so a warm entry primed by the owner would
	// otherwise answer for any caller. Re-check ownership on every read.
	if edu.UserID != ownerID {
		return nil, apperror.NewNotFound("education", strconv.FormatInt(id, 10))
	}
	return edu, nil
}

type ListInput struct {
	OwnerID   int64
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (uc *UseCase) List(ctx context.Context, in ListInput) ([]*education.Education, error) {
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

	key := keys.ListKey(keys.KindEducation, tenant, in.Page, in.Limit, in.SortBy, in.SortOrder)
	return cache.GetOrCompute(ctx, uc.cache, key, keys.ListTTL,
		func(ctx context.Context) ([]*education.Education, error) {
			offset := (in.Page - 1) * in.Limit
			return uc.repo.ListByOwner(ctx, in.OwnerID, in.Limit, offset, in.SortBy, in.SortOrder)
		})
}

type UpdateInput struct {
	ID          int64
	OwnerID     int64
	School      string
	Degree      string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

func (uc *UseCase) Update(ctx context.Context, in UpdateInput) (*education.Education, error) {
	edu, err := uc.repo.FindByID(ctx, in.ID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	edu.School = in.School
	edu.Degree = in.Degree
	edu.Description = in.Description
	edu.StartDate = in.StartDate
	edu.EndDate = in.EndDate
	if err := edu.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Update(ctx, edu); err != nil {
		return nil, err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindEducation, edu.ID, keys.VariantFull)); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeUpdated, edu.ID, edu.UserID)
	return edu, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, ownerID int64) error {
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindEducation, id, keys.VariantFull)); err != nil {
		return err
	}

	uc.publish(event.EventTypeDeleted, id, ownerID)
	return nil
}

func (uc *UseCase) publish(eventType string, id, ownerID int64) {
	if uc.events == nil {
		return
	}
	go func() {
		payload := event.EntityEventPayload{
			EventType: eventType,
			Kind:      keys.KindEducation,
			EntityID:  id,
			OwnerID:   ownerID,
		}
		if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish '"+eventType+"' event", err,
				zap.String("education_id", strconv.FormatInt(id, 10)))
		}
	}()
}
