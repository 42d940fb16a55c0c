package experience

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/domain/experience"
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
	repo    experience.Repository
	tenants *service.TenantResolver
	cache   cache.Store
	events  *event.KafkaProducerClient
	logger  logger.Logger
}

func NewUseCase(
	repo experience.Repository,
	tenants *service.TenantResolver,
	cacheStore cache.Store,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *UseCase {
	return &UseCase{repo: repo, tenants: tenants, cache: cacheStore, events: events, logger: log}
}

type CreateInput struct {
	UserID      int64
	CompanyName string
	Position    string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*experience.Experience, error) {
	now := time.Now().UTC()
	exp := &experience.Experience{
		UserID:      in.UserID,
		CompanyName: in.CompanyName,
		Position:    in.Position,
		Description: in.Description,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := exp.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.repo.Save(ctx, exp); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeCreated, exp.ID, exp.UserID)
	return exp, nil
}

func (uc *UseCase) Get(ctx context.Context, id, ownerID int64) (*experience.Experience, error) {
	exp, err := cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindExperience, id, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*experience.Experience, error) {
			return uc.repo.FindByID(ctx, id, ownerID)
		})
	if err != nil {
		return nil, err
	}
	// The cache key is id-scoped, so a warm entry primed by the owner would
	// otherwise answer for any caller. Re-check ownership on every read.
	if exp.UserID != ownerID {
		return nil, apperror.NewNotFound("experience", strconv.FormatInt(id, 10))
	}
	return exp, nil
}

type ListInput struct {
	OwnerID   int64
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func (uc *UseCase) List(ctx context.Context, in ListInput) ([]*experience.Experience, error) {
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

	key := keys.ListKey(keys.KindExperience, tenant, in.Page, in.Limit, in.SortBy, in.SortOrder)
	return cache.GetOrCompute(ctx, uc.cache, key, keys.ListTTL,
		func(ctx context.Context) ([]*experience.Experience, error) {
			offset := (in.Page - 1) * in.Limit
			return uc.repo.ListByOwner(ctx, in.OwnerID, in.Limit, offset, in.SortBy, in.SortOrder)
		})
}

type UpdateInput struct {
	ID          int64
	OwnerID     int64
	CompanyName string
	Position    string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

func (uc *UseCase) Update(ctx context.Context, in UpdateInput) (*experience.Experience, error) {
	exp, err := uc.repo.FindByID(ctx, in.ID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	exp.CompanyName = in.CompanyName
	exp.Position = in.Position
	exp.Description = in.Description
	exp.StartDate = in.StartDate
	exp.EndDate = in.EndDate
	if err := exp.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.repo.Update(ctx, exp); err != nil {
		return nil, err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindExperience, exp.ID, keys.VariantFull)); err != nil {
		return nil, err
	}

	uc.publish(event.EventTypeUpdated, exp.ID, exp.UserID)
	return exp, nil
}

func (uc *UseCase) Delete(ctx context.Context, id, ownerID int64) error {
	if err := uc.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindExperience, id, keys.VariantFull)); err != nil {
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
			Kind:      keys.KindExperience,
			EntityID:  id,
			OwnerID:   ownerID,
		}
		if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish '"+eventType+"' event", err,
				zap.String("experience_id", strconv.FormatInt(id, 10)))
		}
	}()
}
