package geocode

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-places-api/internal/application"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/pkg/helpers"
)

// Cached memoizes successful lookups in Redis. Cache errors fall through to
// the wrapped geocoder.
type Cached struct {
	Inner  application.Geocoder
	Redis  *redis.Client
	TTL    time.Duration
	Logger *logrus.Logger
}

func NewCached(inner application.Geocoder, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) application.Geocoder {
	if rdb == nil || ttl <= 0 {
		return inner
	}
	return &Cached{Inner: inner, Redis: rdb, TTL: ttl, Logger: logger}
}

func cacheKey(address string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.Join(strings.Fields(address), " "))))
	return "geocode:" + hex.EncodeToString(sum[:])
}

type cachedLocation struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

func (c *Cached) Geocode(ctx context.Context, address string) (entity.Location, error) {
	key := cacheKey(address)
	var hit cachedLocation
	ok, err := helpers.RedisGetJSON(ctx, c.Redis, key, &hit)
	if err != nil && c.Logger != nil {
		c.Logger.WithError(err).Debug("geocode cache read failed")
	}
	if ok {
		return entity.Location{Lat: hit.Lat, Long: hit.Long}, nil
	}

	loc, err := c.Inner.Geocode(ctx, address)
	if err != nil {
		return loc, err
	}
	if err := helpers.RedisSetJSON(ctx, c.Redis, key, cachedLocation{Lat: loc.Lat, Long: loc.Long}, c.TTL); err != nil && c.Logger != nil {
		c.Logger.WithError(err).Debug("geocode cache write failed")
	}
	return loc, nil
}
