package aboutme

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/domain/aboutme"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/keys"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type UseCase struct {
	repo   aboutme.Repository
	cache  cache.Store
	events *event.KafkaProducerClient
	logger logger.Logger
}

func NewUseCase(repo aboutme.Repository, cacheStore cache.Store, events *event.KafkaProducerClient, log logger.Logger) *UseCase {
	return &UseCase{repo: repo, cache: cacheStore, events: events, logger: log}
}

// Get reads the tenant's singleton about-me section. The record is keyed by
// the owning user id since there is exactly one per tenant.
func (uc *UseCase) Get(ctx context.Context, userID int64) (*aboutme.AboutMe, error) {
	return cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindAboutMe, userID, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*aboutme.AboutMe, error) {
			return uc.repo.GetByUserID(ctx, userID)
		})
}

type UpsertInput struct {
	UserID      int64
	Title       string
	Description string
}

func (uc *UseCase) Upsert(ctx context.Context, in UpsertInput) (*aboutme.AboutMe, error) {
	if in.Title == "" {
		return nil, apperror.NewInvalidInput("title is required", nil)
	}

	section := &aboutme.AboutMe{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Upsert(ctx, section); err != nil {
		return nil, err
	}
	if err := cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindAboutMe, in.UserID, keys.VariantFull)); err != nil {
		return nil, err
	}

	if uc.events != nil {
		go func() {
			payload := event.EntityEventPayload{
				EventType: event.EventTypeUpdated,
				Kind:      keys.KindAboutMe,
				EntityID:  in.UserID,
				OwnerID:   in.UserID,
			}
			if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
				uc.logger.Error("Failed to publish 'entity.updated' event", err, zap.Int64("user_id", in.UserID))
			}
		}()
	}
	return section, nil
}
