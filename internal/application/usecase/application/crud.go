package application

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/domain/application"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/keys"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type CrudUseCase struct {
	appRepo application.Repository
	cache   cache.Store
	events  *event.KafkaProducerClient
	logger  logger.Logger
}

func NewCrudUseCase(appRepo application.Repository, cacheStore cache.Store, events *event.KafkaProducerClient, log logger.Logger) *CrudUseCase {
	return &CrudUseCase{appRepo: appRepo, cache: cacheStore, events: events, logger: log}
}

func (uc *CrudUseCase) Get(ctx context.Context, id int64) (*application.Application, error) {
	return cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindApplication, id, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*application.Application, error) {
			return uc.appRepo.FindByID(ctx, id)
		})
}

// GetByOwner serves the admin UI's "my application" view. Reads by user id
// bypass the cache; the keyed view is per application id.
func (uc *CrudUseCase) GetByOwner(ctx context.Context, userID int64) (*application.Application, error) {
	return uc.appRepo.FindByUserID(ctx, userID)
}

type UpdateApplicationInput struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
}

func (uc *CrudUseCase) Update(ctx context.Context, in UpdateApplicationInput) (*application.Application, error) {
	app, err := uc.appRepo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if app.UserID != in.OwnerID {
		return nil, apperror.NewNotFound("application", strconv.FormatInt(in.ID, 10))
	}

	app.Title = in.Title
	app.Description = in.Description

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindApplication, app.ID, keys.VariantFull)); err != nil {
		return nil, err
	}

	if uc.events != nil {
		go func() {
			payload := event.EntityEventPayload{
				EventType: event.EventTypeUpdated,
				Kind:      keys.KindApplication,
				EntityID:  app.ID,
				OwnerID:   app.UserID,
			}
			if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'entity.updated' event", err, zap.Int64("application_id", app.ID))
			}
		}()
	}
	return app, nil
}
