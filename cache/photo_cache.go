package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"photofolio/logger"

	"github.com/go-redis/redis/v8"
)

// listTTL bounds staleness for public reads; every admin write also
// invalidates explicitly.
const listTTL = 5 * time.Minute

const (
	photoListKey     = "photos:all"
	photoAlbumPrefix = "photos:album:"
	sectionKeyPrefix = "sections:path:"
	albumListKey     = "albums:all"
)

// PhotoListKey returns the cache key for a photo listing. An empty album
// means the full list.
func PhotoListKey(album string) string {
	if album == "" {
		return photoListKey
	}
	return photoAlbumPrefix + album
}

// SectionListKey returns the cache key for a section listing filtered by
// page path ("" for the whole catalog).
func SectionListKey(path string) string {
	return sectionKeyPrefix + path
}

// AlbumListKey returns the cache key for the derived album list.
func AlbumListKey() string {
	return albumListKey
}

// GetJSON reads a cached value into dest. Returns false on miss, disabled
// cache, or decode failure.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if RedisClient == nil {
		return false
	}
	data, err := RedisClient.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logger.Warn("cache decode failed", logger.String("key", key), logger.ErrorField(err))
		return false
	}
	return true
}

// SetJSON stores a value under key with the list TTL. Failures are logged
// and swallowed; the cache is never load-bearing.
func SetJSON(ctx context.Context, key string, value interface{}) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("cache encode failed", logger.String("key", key), logger.ErrorField(err))
		return
	}
	if err := RedisClient.Set(ctx, key, data, listTTL).Err(); err != nil {
		logger.Warn("cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}

// InvalidatePhotos drops every photo and album listing. Called after any
// photo write.
func InvalidatePhotos(ctx context.Context) {
	deleteByPattern(ctx, photoAlbumPrefix+"*")
	deleteKeys(ctx, photoListKey, albumListKey)
}

// InvalidateSections drops every section listing. Called after a section
// reassignment.
func InvalidateSections(ctx context.Context) {
	deleteByPattern(ctx, sectionKeyPrefix+"*")
}

func deleteKeys(ctx context.Context, keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}
	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidation failed", logger.ErrorField(err))
	}
}

func deleteByPattern(ctx context.Context, pattern string) {
	if RedisClient == nil {
		return
	}
	keys, err := RedisClient.Keys(ctx, pattern).Result()
	if err != nil {
		logger.Warn("cache key scan failed", logger.String("pattern", pattern), logger.ErrorField(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache invalidation failed", logger.String("pattern", fmt.Sprintf("%s (%d keys)", pattern, len(keys))), logger.ErrorField(err))
	}
}
