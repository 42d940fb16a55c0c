// Package application holds the use cases owning the Application record and
// its image assets. These use cases are the only code allowed to mutate an
// application's gallery or profile-image slot.
package application

import (
	"context"
	"io"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-api/adapters/event"
	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/domain/application"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/keys"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

// ImageUpload carries one uploaded file. Filename is the client's original
// name and is used for its extension only; stored names are generated.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type ImageUseCase struct {
	appRepo application.Repository
	tenants *service.TenantResolver
	store   service.AssetStore
	cache   cache.Store
	events  *event.KafkaProducerClient
	logger  logger.Logger
}

func NewImageUseCase(
	appRepo application.Repository,
	tenants *service.TenantResolver,
	store service.AssetStore,
	cacheStore cache.Store,
	events *event.KafkaProducerClient,
	log logger.Logger,
) *ImageUseCase {
	return &ImageUseCase{
		appRepo: appRepo,
		tenants: tenants,
		store:   store,
		cache:   cacheStore,
		events:  events,
		logger:  log,
	}
}

// resolveOwner loads the owning application through the cache, verifies it
// belongs to the caller, and resolves its tenant username. Every image
// operation starts here: storage paths are username-scoped, ids alone are
// not enough. The ownership check runs on cache hits too, since the cached
// view is keyed by id only.
func (uc *ImageUseCase) resolveOwner(ctx context.Context, id, ownerID int64) (*application.Application, string, error) {
	app, err := cache.GetOrCompute(ctx, uc.cache, keys.EntityKey(keys.KindApplication, id, keys.VariantFull), keys.EntityTTL,
		func(ctx context.Context) (*application.Application, error) {
			return uc.appRepo.FindByID(ctx, id)
		})
	if err != nil {
		return nil, "", err
	}
	if app.UserID != ownerID {
		return nil, "", apperror.NewNotFound("application", strconv.FormatInt(id, 10))
	}

	username, err := uc.tenants.Username(ctx, app.UserID)
	if err != nil {
		return nil, "", err
	}
	return app, username, nil
}

func (uc *ImageUseCase) invalidateOwner(ctx context.Context, id int64) error {
	return cache.Invalidate(ctx, uc.cache, keys.EntityKey(keys.KindApplication, id, keys.VariantFull))
}

type AddGalleryImagesInput struct {
	ApplicationID int64
	OwnerID       int64
	Files         []ImageUpload
}

// AddGalleryImages stores each file under the tenant's namespace and appends
// the generated filenames to the gallery, preserving existing entries. Zero
// files is a no-op write: the unchanged list is persisted and the cache is
// still invalidated.
func (uc *ImageUseCase) AddGalleryImages(ctx context.Context, in AddGalleryImagesInput) (*application.Application, error) {
	app, tenant, err := uc.resolveOwner(ctx, in.ApplicationID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	for _, f := range in.Files {
		name := keys.AssetFilename(keys.SlotGallery, tenant, filepath.Ext(f.Filename))
		path := keys.AssetPath(tenant, keys.KindApplication, app.ID, name)
		if err := uc.store.Store(ctx, path, f.Content); err != nil {
			return nil, err
		}
		app.Images = append(app.Images, name)
	}

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if err := uc.invalidateOwner(ctx, app.ID); err != nil {
		return nil, err
	}

	uc.publishImageEvent(app)
	return app, nil
}

type DeleteGalleryImageInput struct {
	ApplicationID int64
	OwnerID       int64
	Filename      string
}

// DeleteGalleryImage removes exactly one gallery entry and its backing file.
// An unknown filename is reported as the application not being found; callers
// must not be able to enumerate which filenames exist.
func (uc *ImageUseCase) DeleteGalleryImage(ctx context.Context, in DeleteGalleryImageInput) (*application.Application, error) {
	app, tenant, err := uc.resolveOwner(ctx, in.ApplicationID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	if !app.HasGalleryImage(in.Filename) {
		return nil, apperror.NewNotFound("application", strconv.FormatInt(in.ApplicationID, 10))
	}

	path := keys.AssetPath(tenant, keys.KindApplication, app.ID, in.Filename)
	if err := uc.store.Delete(ctx, path); err != nil {
		return nil, err
	}

	app.RemoveGalleryImage(in.Filename)

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if err := uc.invalidateOwner(ctx, app.ID); err != nil {
		return nil, err
	}

	uc.publishImageEvent(app)
	return app, nil
}

type SetProfileImageInput struct {
	ApplicationID int64
	OwnerID       int64
	File          ImageUpload
}

// SetProfileImage replaces the profile-image slot. An existing file is
// deleted before the new one is stored: if the upload then fails the slot is
// momentarily empty, which beats leaving an orphaned stale file behind.
// There is no separate update path; update is set.
func (uc *ImageUseCase) SetProfileImage(ctx context.Context, in SetProfileImageInput) (*application.Application, error) {
	app, tenant, err := uc.resolveOwner(ctx, in.ApplicationID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	if app.ProfileImage != nil {
		oldPath := keys.AssetPath(tenant, keys.KindApplication, app.ID, *app.ProfileImage)
		if err := uc.store.Delete(ctx, oldPath); err != nil {
			return nil, err
		}
	}

	name := keys.AssetFilename(keys.SlotProfile, tenant, filepath.Ext(in.File.Filename))
	path := keys.AssetPath(tenant, keys.KindApplication, app.ID, name)
	if err := uc.store.Store(ctx, path, in.File.Content); err != nil {
		return nil, err
	}

	app.ProfileImage = &name

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if err := uc.invalidateOwner(ctx, app.ID); err != nil {
		return nil, err
	}

	uc.publishImageEvent(app)
	return app, nil
}

type DeleteProfileImageInput struct {
	ApplicationID int64
	OwnerID       int64
}

// DeleteProfileImage clears the slot to an explicit null, never to an absent
// field, and purges the backing file.
func (uc *ImageUseCase) DeleteProfileImage(ctx context.Context, in DeleteProfileImageInput) (*application.Application, error) {
	app, tenant, err := uc.resolveOwner(ctx, in.ApplicationID, in.OwnerID)
	if err != nil {
		return nil, err
	}

	if app.ProfileImage == nil {
		return nil, apperror.NewNotFound("application", strconv.FormatInt(in.ApplicationID, 10))
	}

	path := keys.AssetPath(tenant, keys.KindApplication, app.ID, *app.ProfileImage)
	if err := uc.store.Delete(ctx, path); err != nil {
		return nil, err
	}

	app.ProfileImage = nil

	if err := uc.appRepo.Update(ctx, app); err != nil {
		return nil, err
	}
	if err := uc.invalidateOwner(ctx, app.ID); err != nil {
		return nil, err
	}

	uc.publishImageEvent(app)
	return app, nil
}

type GetAssetPathInput struct {
	ApplicationID int64
	OwnerID       int64
	Filename      string
	Slot          string
}

// GetAssetPath validates that the filename actually occupies the requested
// slot and returns the storage path without touching the store.
func (uc *ImageUseCase) GetAssetPath(ctx context.Context, in GetAssetPathInput) (string, error) {
	app, tenant, err := uc.resolveOwner(ctx, in.ApplicationID, in.OwnerID)
	if err != nil {
		return "", err
	}

	switch in.Slot {
	case keys.SlotProfile:
		if app.ProfileImage == nil || *app.ProfileImage != in.Filename {
			return "", apperror.NewNotFound("application", strconv.FormatInt(in.ApplicationID, 10))
		}
	case keys.SlotGallery:
		if !app.HasGalleryImage(in.Filename) {
			return "", apperror.NewNotFound("application", strconv.FormatInt(in.ApplicationID, 10))
		}
	default:
		return "", apperror.NewInvalidInput("unknown image slot: "+in.Slot, nil)
	}

	return keys.AssetPath(tenant, keys.KindApplication, app.ID, in.Filename), nil
}

func (uc *ImageUseCase) publishImageEvent(app *application.Application) {
	if uc.events == nil {
		return
	}
	go func() {
		payload := event.EntityEventPayload{
			EventType: event.EventTypeImageChanged,
			Kind:      keys.KindApplication,
			EntityID:  app.ID,
			OwnerID:   app.UserID,
		}
		if err := uc.events.PublishEntityEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish 'entity.image_changed' event", err, zap.Int64("application_id", app.ID))
		}
	}()
}
