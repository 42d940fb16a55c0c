package keys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "application:1:full", EntityKey(KindApplication, 1, VariantFull))
	assert.Equal(t, "education:42:full", EntityKey(KindEducation, 42, VariantFull))
}

func TestListKey_IncludesEveryParameter(t *testing.T) {
	base := ListKey(KindEducation, "alice", 1, 20, "created_at", "desc")

	variants := []string{
		ListKey(KindExperience, "alice", 1, 20, "created_at", "desc"),
		ListKey(KindEducation, "bob", 1, 20, "created_at", "desc"),
		ListKey(KindEducation, "alice", 2, 20, "created_at", "desc"),
		ListKey(KindEducation, "alice", 1, 10, "created_at", "desc"),
		ListKey(KindEducation, "alice", 1, 20, "title", "desc"),
		ListKey(KindEducation, "alice", 1, 20, "created_at", "asc"),
	}
	for _, v := range variants {
		assert.NotEqual(t, base, v)
	}

	// Same parameters always produce the same key.
	assert.Equal(t, base, ListKey(KindEducation, "alice", 1, 20, "created_at", "desc"))
}

func TestAssetPath_TenantSegmented(t *testing.T) {
	p1 := AssetPath("user1", KindApplication, 7, "a.jpg")
	p2 := AssetPath("user2", KindApplication, 7, "a.jpg")

	assert.Equal(t, "users/user1/application/7/a.jpg", p1)
	assert.NotEqual(t, p1, p2)
	assert.True(t, strings.HasPrefix(p2, AssetFolder("user2", KindApplication, 7)))
}

func TestAssetFilename(t *testing.T) {
	name := AssetFilename(SlotProfile, "alice", ".JPG")

	assert.True(t, strings.HasPrefix(name, "profile-alice-"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	// Generated names must not repeat.
	assert.NotEqual(t, name, AssetFilename(SlotProfile, "alice", ".jpg"))
}
