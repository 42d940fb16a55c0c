// Package keys centralizes cache-key and storage-path construction.
// Every cache key and every asset path in the system is built here so that
// tenant segmentation cannot drift between call sites.
package keys

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resource kinds. Used as the first segment of cache keys and as the
// per-resource folder under a tenant's storage namespace.
const (
	KindApplication = "application"
	KindAboutMe     = "aboutme"
	KindEducation   = "education"
	KindExperience  = "experience"
	KindCertificate = "certificate"
	KindUser        = "user"
)

// Entity view variants.
const (
	VariantFull     = "full"
	VariantUsername = "username"
)

// Image slots on an owning entity.
const (
	SlotGallery = "image"
	SlotProfile = "profile"
)

// Cache TTLs. Single-entity views live longer than list views; list caches
// are never invalidated on create and expire on their own.
const (
	EntityTTL = 600 * time.Second
	ListTTL   = 300 * time.Second
)

// EntityKey builds the cache key for a single entity view,
// e.g. "application:1:full".
func EntityKey(kind string, id int64, variant string) string {
	return fmt.Sprintf("%s:%d:%s", kind, id, variant)
}

// UserKey builds the cache key for a user-scoped value,
// e.g. "user:1:username".
func UserKey(userID int64, variant string) string {
	return fmt.Sprintf("%s:%d:%s", KindUser, userID, variant)
}

// ListKey builds the cache key for a paginated list query. Every parameter
// that affects the result set is part of the key: two distinct queries must
// never collide, and one query must miss when any parameter changes.
func ListKey(kind, tenant string, page, limit int, sortBy, sortOrder string) string {
	return fmt.Sprintf("%s:list:%s:%d:%d:%s:%s", kind, tenant, page, limit, sortBy, sortOrder)
}

// AssetFolder returns the storage folder for an owning entity. The tenant
// username is always the leading segment below users/, so two tenants can
// never collide even if resource ids do, and purging one tenant's assets is
// a single prefix operation.
func AssetFolder(tenant, kind string, id int64) string {
	return fmt.Sprintf("users/%s/%s/%d", tenant, kind, id)
}

// AssetPath returns the full storage path of one file.
func AssetPath(tenant, kind string, id int64, filename string) string {
	return AssetFolder(tenant, kind, id) + "/" + filename
}

// AssetFilename generates a storage filename for an uploaded image,
// e.g. "profile-alice-3f8a91c2.jpg". The tenant is embedded in the name as a
// second line of defense against cross-tenant mixups; ext keeps the original
// extension (including the leading dot, lowercased) or is empty.
func AssetFilename(slot, tenant, ext string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s%s", slot, tenant, token, strings.ToLower(ext))
}
