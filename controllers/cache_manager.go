package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"becas-backend/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	scholarshipListPrefix = "scholarships:v:"
	cacheVersionKey       = "scholarships:version"
	countriesCacheKey     = "scholarships:countries"

	defaultCacheTTL = 5 * time.Minute
)

// CacheManager handles Redis caching of the public catalog responses. A nil
// client disables caching entirely.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(client *redis.Client) *CacheManager {
	return &CacheManager{redis: client, ttl: defaultCacheTTL}
}

// GetList retrieves a cached listing response.
func (cm *CacheManager) GetList(ctx context.Context, filter models.ScholarshipFilter) (map[string]any, bool) {
	if cm.redis == nil {
		return nil, false
	}
	version, err := cm.getVersion(ctx)
	if err != nil {
		return nil, false
	}

	cached, err := cm.redis.Get(ctx, cm.listKey(version, filter)).Result()
	if err != nil {
		return nil, false
	}

	var response map[string]any
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		zap.L().Warn("Failed to unmarshal cached listing", zap.Error(err))
		return nil, false
	}
	return response, true
}

// SetListAsync caches a listing response in the background.
func (cm *CacheManager) SetListAsync(filter models.ScholarshipFilter, response map[string]any) {
	if cm.redis == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := cm.getVersion(ctx)
		if err != nil {
			return
		}
		raw, err := json.Marshal(response)
		if err != nil {
			zap.L().Warn("Failed to marshal listing for cache", zap.Error(err))
			return
		}
		if err := cm.redis.Set(ctx, cm.listKey(version, filter), raw, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache listing", zap.Error(err))
		}
	}()
}

// GetCountries retrieves the cached country list.
func (cm *CacheManager) GetCountries(ctx context.Context) ([]string, bool) {
	if cm.redis == nil {
		return nil, false
	}
	cached, err := cm.redis.Get(ctx, countriesCacheKey).Result()
	if err != nil {
		return nil, false
	}
	var countries []string
	if err := json.Unmarshal([]byte(cached), &countries); err != nil {
		return nil, false
	}
	return countries, true
}

// SetCountriesAsync caches the country list in the background.
func (cm *CacheManager) SetCountriesAsync(countries []string) {
	if cm.redis == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		raw, err := json.Marshal(countries)
		if err != nil {
			return
		}
		if err := cm.redis.Set(ctx, countriesCacheKey, raw, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache countries", zap.Error(err))
		}
	}()
}

// Invalidate drops every cached listing by bumping the version key.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm.redis == nil {
		return
	}
	version, err := cm.redis.Incr(ctx, cacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate listing cache", zap.Error(err))
		return
	}
	if err := cm.redis.Del(ctx, countriesCacheKey).Err(); err != nil {
		zap.L().Warn("Failed to drop countries cache", zap.Error(err))
	}
	zap.L().Info("Listing cache invalidated", zap.Int64("version", version))
}

// getVersion reads the cache version, initializing it on first use.
func (cm *CacheManager) getVersion(ctx context.Context) (int64, error) {
	version, err := cm.redis.Get(ctx, cacheVersionKey).Int64()
	if err == nil && version > 0 {
		return version, nil
	}
	if err == redis.Nil {
		if err := cm.redis.Set(ctx, cacheVersionKey, 1, 0).Err(); err == nil {
			return 1, nil
		}
	}
	return 0, fmt.Errorf("cache version unavailable: %w", err)
}

func (cm *CacheManager) listKey(version int64, f models.ScholarshipFilter) string {
	active := ""
	if f.Active != nil {
		active = fmt.Sprintf("%t", *f.Active)
	}
	return fmt.Sprintf(
		"%s%d:q:%s:c:%s:cat:%s:ft:%s:el:%s:st:%s:a:%s:p:%d:l:%d",
		scholarshipListPrefix, version,
		f.Search, f.Country, f.Category, f.FundingType, f.EducationLevel, f.Status, active,
		f.Page, f.Limit,
	)
}
