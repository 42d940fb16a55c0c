package application

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-api/internal/application/service"
	domain "github.com/khoahotran/portfolio-api/internal/domain/application"
	"github.com/khoahotran/portfolio-api/internal/domain/user"
	"github.com/khoahotran/portfolio-api/pkg/apperror"
	"github.com/khoahotran/portfolio-api/pkg/cache"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

// fakeCache is an in-memory cache.Store that records deleted keys.
type fakeCache struct {
	data    map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) error {
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.deletes = append(c.deletes, key)
	delete(c.data, key)
	return nil
}

// fakeAppRepo keeps applications in memory, handing out copies so the use
// case never aliases repository state.
type fakeAppRepo struct {
	apps        map[int64]*domain.Application
	updateCalls int
}

func newFakeAppRepo(apps ...*domain.Application) *fakeAppRepo {
	r := &fakeAppRepo{apps: map[int64]*domain.Application{}}
	for _, a := range apps {
		r.apps[a.ID] = a
	}
	return r
}

func copyApp(a *domain.Application) *domain.Application {
	dup := *a
	dup.Images = append([]string(nil), a.Images...)
	if a.ProfileImage != nil {
		p := *a.ProfileImage
		dup.ProfileImage = &p
	}
	return &dup
}

func (r *fakeAppRepo) FindByID(_ context.Context, id int64) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, apperror.NewNotFound("application", "")
	}
	return copyApp(a), nil
}

func (r *fakeAppRepo) FindByUserID(_ context.Context, userID int64) (*domain.Application, error) {
	for _, a := range r.apps {
		if a.UserID == userID {
			return copyApp(a), nil
		}
	}
	return nil, apperror.NewNotFound("application", "")
}

func (r *fakeAppRepo) Save(_ context.Context, a *domain.Application) error {
	r.apps[a.ID] = copyApp(a)
	return nil
}

func (r *fakeAppRepo) Update(_ context.Context, a *domain.Application) error {
	if _, ok := r.apps[a.ID]; !ok {
		return apperror.NewNotFound("application", "")
	}
	r.updateCalls++
	r.apps[a.ID] = copyApp(a)
	return nil
}

func (r *fakeAppRepo) Delete(_ context.Context, id int64) error {
	delete(r.apps, id)
	return nil
}

// fakeUserRepo resolves usernames from a fixed map.
type fakeUserRepo struct {
	usernames map[int64]string
}

func (r *fakeUserRepo) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, apperror.NewUserNotFound("")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	name, ok := r.usernames[id]
	if !ok {
		return nil, apperror.NewUserNotFound("")
	}
	return &user.User{ID: id, Username: name}, nil
}

func (r *fakeUserRepo) UsernameForID(_ context.Context, id int64) (string, error) {
	name, ok := r.usernames[id]
	if !ok {
		return "", apperror.NewUserNotFound("")
	}
	return name, nil
}

// recStore records every store/delete in call order.
type recStore struct {
	ops     []string
	stores  []string
	deletes []string
}

func (s *recStore) Store(_ context.Context, path string, _ io.Reader) error {
	s.ops = append(s.ops, "store:"+path)
	s.stores = append(s.stores, path)
	return nil
}

func (s *recStore) Delete(_ context.Context, path string) error {
	s.ops = append(s.ops, "delete:"+path)
	s.deletes = append(s.deletes, path)
	return nil
}

func newImageFixture(apps ...*domain.Application) (*ImageUseCase, *fakeAppRepo, *recStore, *fakeCache) {
	repo := newFakeAppRepo(apps...)
	users := &fakeUserRepo{usernames: map[int64]string{1: "alice", 2: "user2", 10: "user1", 20: "user2"}}
	store := &recStore{}
	cacheStore := newFakeCache()
	tenants := service.NewTenantResolver(users, cacheStore)
	uc := NewImageUseCase(repo, tenants, store, cacheStore, nil, logger.NewNop())
	return uc, repo, store, cacheStore
}

func upload(name string) ImageUpload {
	return ImageUpload{Filename: name, Content: strings.NewReader("image-bytes")}
}

func cacheDeletesFor(c *fakeCache, key string) int {
	n := 0
	for _, k := range c.deletes {
		if k == key {
			n++
		}
	}
	return n
}

func TestAddGalleryImages_PreservesOrderAndExistingEntries(t *testing.T) {
	ctx := context.Background()
	uc, repo, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg", "b.png"},
	})

	app, err := uc.AddGalleryImages(ctx, AddGalleryImagesInput{
		ApplicationID: 1,
		OwnerID:       1,
		Files:         []ImageUpload{upload("new1.jpg"), upload("new2.png")},
	})
	require.NoError(t, err)

	require.Len(t, app.Images, 4)
	assert.Equal(t, "a.jpg", app.Images[0])
	assert.Equal(t, "b.png", app.Images[1])
	assert.True(t, strings.HasPrefix(app.Images[2], "image-alice-"))
	assert.True(t, strings.HasSuffix(app.Images[2], ".jpg"))
	assert.True(t, strings.HasPrefix(app.Images[3], "image-alice-"))
	assert.True(t, strings.HasSuffix(app.Images[3], ".png"))

	require.Len(t, store.stores, 2)
	for _, p := range store.stores {
		assert.True(t, strings.HasPrefix(p, "users/alice/application/1/"))
	}

	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))
}

func TestAddGalleryImages_ZeroFilesIsANoOpWrite(t *testing.T) {
	ctx := context.Background()
	uc, repo, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg"},
	})

	app, err := uc.AddGalleryImages(ctx, AddGalleryImagesInput{ApplicationID: 1, OwnerID: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg"}, app.Images)
	assert.Empty(t, store.stores)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))
}

func TestAddGalleryImages_UnknownOwnerFails(t *testing.T) {
	uc, _, store, _ := newImageFixture()

	_, err := uc.AddGalleryImages(context.Background(), AddGalleryImagesInput{
		ApplicationID: 99,
		OwnerID:       1,
		Files:         []ImageUpload{upload("x.jpg")},
	})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, store.stores)
}

func TestImageOperations_RejectForeignOwner(t *testing.T) {
	ctx := context.Background()
	old := "profile-alice-cafebabe.jpg"
	uc, repo, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg"}, ProfileImage: &old,
	})

	_, err := uc.AddGalleryImages(ctx, AddGalleryImagesInput{ApplicationID: 1, OwnerID: 2, Files: []ImageUpload{upload("x.jpg")}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.DeleteGalleryImage(ctx, DeleteGalleryImageInput{ApplicationID: 1, OwnerID: 2, Filename: "a.jpg"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.SetProfileImage(ctx, SetProfileImageInput{ApplicationID: 1, OwnerID: 2, File: upload("hijack.jpg")})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.DeleteProfileImage(ctx, DeleteProfileImageInput{ApplicationID: 1, OwnerID: 2})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = uc.GetAssetPath(ctx, GetAssetPathInput{ApplicationID: 1, OwnerID: 2, Filename: "a.jpg", Slot: "image"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Nothing touched storage, the repository, or the cache.
	assert.Empty(t, store.ops)
	assert.Equal(t, 0, repo.updateCalls)
	assert.Empty(t, cacheStore.deletes)
}

func TestDeleteGalleryImage_RemovesExactlyOneEntry(t *testing.T) {
	ctx := context.Background()
	uc, _, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg", "b.png", "c.jpg"},
	})

	app, err := uc.DeleteGalleryImage(ctx, DeleteGalleryImageInput{ApplicationID: 1, OwnerID: 1, Filename: "b.png"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.jpg", "c.jpg"}, app.Images)
	assert.Equal(t, []string{"users/alice/application/1/b.png"}, store.deletes)
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))
}

func TestDeleteGalleryImage_AbsentFilenameFailsWithoutStorageCall(t *testing.T) {
	ctx := context.Background()
	uc, repo, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg"},
	})

	_, err := uc.DeleteGalleryImage(ctx, DeleteGalleryImageInput{ApplicationID: 1, OwnerID: 1, Filename: "ghost.png"})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, store.deletes)
	assert.Equal(t, 0, repo.updateCalls)
	assert.Equal(t, 0, cacheDeletesFor(cacheStore, "application:1:full"))
}

func TestSetProfileImage_ReplaceDeletesOldBeforeStoringNew(t *testing.T) {
	ctx := context.Background()
	old := "old.jpg"
	uc, _, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{}, ProfileImage: &old,
	})

	app, err := uc.SetProfileImage(ctx, SetProfileImageInput{ApplicationID: 1, OwnerID: 1, File: upload("fresh.jpg")})
	require.NoError(t, err)

	require.Len(t, store.ops, 2)
	assert.Equal(t, "delete:users/alice/application/1/old.jpg", store.ops[0])
	assert.True(t, strings.HasPrefix(store.ops[1], "store:users/alice/application/1/profile-alice-"))

	require.NotNil(t, app.ProfileImage)
	assert.True(t, strings.HasPrefix(*app.ProfileImage, "profile-alice-"))
	assert.True(t, strings.HasSuffix(*app.ProfileImage, ".jpg"))
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))
}

func TestSetProfileImage_FirstSetDoesNotDelete(t *testing.T) {
	ctx := context.Background()
	uc, _, store, _ := newImageFixture(&domain.Application{ID: 1, UserID: 1, Images: []string{}})

	app, err := uc.SetProfileImage(ctx, SetProfileImageInput{ApplicationID: 1, OwnerID: 1, File: upload("me.png")})
	require.NoError(t, err)

	assert.Empty(t, store.deletes)
	require.Len(t, store.stores, 1)
	require.NotNil(t, app.ProfileImage)
}

func TestDeleteProfileImage_ClearsReferenceAndPurgesFile(t *testing.T) {
	ctx := context.Background()
	old := "profile-alice-12345678.jpg"
	uc, repo, store, cacheStore := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{}, ProfileImage: &old,
	})

	app, err := uc.DeleteProfileImage(ctx, DeleteProfileImageInput{ApplicationID: 1, OwnerID: 1})
	require.NoError(t, err)

	assert.Nil(t, app.ProfileImage)
	assert.Equal(t, []string{"users/alice/application/1/" + old}, store.deletes)
	assert.Equal(t, 1, repo.updateCalls)
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))

	// The persisted record has the slot cleared too.
	persisted, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, persisted.ProfileImage)
}

func TestDeleteProfileImage_EmptySlotFails(t *testing.T) {
	uc, _, store, _ := newImageFixture(&domain.Application{ID: 1, UserID: 1, Images: []string{}})

	_, err := uc.DeleteProfileImage(context.Background(), DeleteProfileImageInput{ApplicationID: 1, OwnerID: 1})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, store.deletes)
}

func TestGetAssetPath_ValidatesSlotMembership(t *testing.T) {
	ctx := context.Background()
	profile := "profile-alice-deadbeef.jpg"
	uc, _, store, _ := newImageFixture(&domain.Application{
		ID: 1, UserID: 1, Images: []string{"a.jpg"}, ProfileImage: &profile,
	})

	path, err := uc.GetAssetPath(ctx, GetAssetPathInput{ApplicationID: 1, OwnerID: 1, Filename: "a.jpg", Slot: "image"})
	require.NoError(t, err)
	assert.Equal(t, "users/alice/application/1/a.jpg", path)

	path, err = uc.GetAssetPath(ctx, GetAssetPathInput{ApplicationID: 1, OwnerID: 1, Filename: profile, Slot: "profile"})
	require.NoError(t, err)
	assert.Equal(t, "users/alice/application/1/"+profile, path)

	// A gallery filename does not satisfy the profile slot, and vice versa.
	_, err = uc.GetAssetPath(ctx, GetAssetPathInput{ApplicationID: 1, OwnerID: 1, Filename: "a.jpg", Slot: "profile"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = uc.GetAssetPath(ctx, GetAssetPathInput{ApplicationID: 1, OwnerID: 1, Filename: profile, Slot: "image"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// Read-only: no storage traffic at all.
	assert.Empty(t, store.ops)
}

func TestTenantIsolation_PathsAndKeysNeverCross(t *testing.T) {
	ctx := context.Background()
	uc, _, store, cacheStore := newImageFixture(
		&domain.Application{ID: 1, UserID: 10, Images: []string{}},
		&domain.Application{ID: 2, UserID: 20, Images: []string{}},
	)

	_, err := uc.AddGalleryImages(ctx, AddGalleryImagesInput{ApplicationID: 1, OwnerID: 10, Files: []ImageUpload{upload("x.jpg")}})
	require.NoError(t, err)
	_, err = uc.AddGalleryImages(ctx, AddGalleryImagesInput{ApplicationID: 2, OwnerID: 20, Files: []ImageUpload{upload("y.jpg")}})
	require.NoError(t, err)

	require.Len(t, store.stores, 2)
	assert.True(t, strings.HasPrefix(store.stores[0], "users/user1/application/1/"))
	assert.True(t, strings.HasPrefix(store.stores[1], "users/user2/application/2/"))
	assert.NotContains(t, store.stores[0], "user2")
	assert.NotContains(t, store.stores[1], "user1")

	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:2:full"))
}

func TestProfileImageLifecycle_EndToEnd(t *testing.T) {
	ctx := context.Background()
	uc, _, store, cacheStore := newImageFixture(&domain.Application{ID: 1, UserID: 1, Images: []string{}})

	// First set: no prior image, so a single store call.
	app, err := uc.SetProfileImage(ctx, SetProfileImageInput{ApplicationID: 1, OwnerID: 1, File: upload("fileA.jpg")})
	require.NoError(t, err)
	require.NotNil(t, app.ProfileImage)
	first := *app.ProfileImage
	assert.True(t, strings.HasPrefix(first, "profile-alice-"))
	assert.True(t, strings.HasSuffix(first, ".jpg"))
	assert.Equal(t, 1, cacheDeletesFor(cacheStore, "application:1:full"))

	// Replace: old file deleted before the new store, one invalidation more.
	app, err = uc.SetProfileImage(ctx, SetProfileImageInput{ApplicationID: 1, OwnerID: 1, File: upload("fileB.jpg")})
	require.NoError(t, err)
	require.NotNil(t, app.ProfileImage)
	assert.NotEqual(t, first, *app.ProfileImage)

	assert.Equal(t, []string{"users/alice/application/1/" + first}, store.deletes)
	assert.Len(t, store.stores, 2)
	assert.Equal(t, 2, cacheDeletesFor(cacheStore, "application:1:full"))
}
