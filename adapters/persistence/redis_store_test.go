package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgcache "github.com/khoahotran/portfolio-api/pkg/cache"
)

func TestRedisStore_GetJSON_Miss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectGet("application:1:full").RedisNil()

	var dest map[string]any
	err := store.GetJSON(context.Background(), "application:1:full", &dest)

	assert.ErrorIs(t, err, pkgcache.ErrCacheMiss)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_SetThenGetJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	type payload struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	value := payload{ID: 7, Name: "alice"}
	raw := `{"id":7,"name":"alice"}`

	mock.ExpectSet("education:7:full", []byte(raw), 600*time.Second).SetVal("OK")
	mock.ExpectGet("education:7:full").SetVal(raw)

	require.NoError(t, store.SetJSON(context.Background(), "education:7:full", value, 600*time.Second))

	var dest payload
	require.NoError(t, store.GetJSON(context.Background(), "education:7:full", &dest))

	assert.Equal(t, value, dest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Delete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client)

	mock.ExpectDel("application:1:full").SetVal(1)

	assert.NoError(t, store.Delete(context.Background(), "application:1:full"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
