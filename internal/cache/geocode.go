// Package cache keeps resolved addresses in redis so repeated geocoding passes do not
// spend the geocoder's daily budget twice.
package cache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"academy-map-api/internal/metrics"
	"academy-map-api/pkg/kakao"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const notFound = "notfound"

// Geocoder resolves an address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (kakao.Coordinates, error)
}

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// GeocodeCache wraps a Geocoder. Matches and definite misses are cached; upstream
// failures are not.
type GeocodeCache struct {
	next   Geocoder
	rdb    RedisClient
	ttl    time.Duration
	prefix string
}

// NewGeocodeCache creates a cache in front of next. A zero ttl keeps entries forever.
func NewGeocodeCache(next Geocoder, rdb RedisClient, ttl time.Duration) *GeocodeCache {
	return &GeocodeCache{next: next, rdb: rdb, ttl: ttl, prefix: "academy:geocode:"}
}

// Geocode answers from the cache when possible and falls through to the wrapped
// geocoder otherwise. Redis errors degrade to a miss.
func (c *GeocodeCache) Geocode(ctx context.Context, address string) (kakao.Coordinates, error) {
	key := c.key(address)

	val, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if e, ok := decode(val); ok {
			metrics.GeocodeCacheHitsTotal.Inc()
			if e.notFound {
				return kakao.Coordinates{}, kakao.ErrNotFound
			}
			return e.coords, nil
		}
		log.Warn().Str("key", key).Msg("discarding malformed geocode cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("geocode cache read failed")
	}
	metrics.GeocodeCacheMissesTotal.Inc()

	coords, err := c.next.Geocode(ctx, address)
	switch {
	case err == nil:
		c.store(ctx, key, encode(coords))
	case errors.Is(err, kakao.ErrNotFound):
		c.store(ctx, key, notFound)
	}
	return coords, err
}

func (c *GeocodeCache) store(ctx context.Context, key, val string) {
	if err := c.rdb.Set(ctx, key, val, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("geocode cache write failed")
	}
}

// key hashes the whitespace-normalized address.
func (c *GeocodeCache) key(address string) string {
	normalized := strings.Join(strings.Fields(address), " ")
	return fmt.Sprintf("%s%x", c.prefix, sha256.Sum256([]byte(normalized)))
}

func encode(c kakao.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

type entry struct {
	coords   kakao.Coordinates
	notFound bool
}

func decode(val string) (entry, bool) {
	if val == notFound {
		return entry{notFound: true}, true
	}
	latStr, lngStr, ok := strings.Cut(val, ",")
	if !ok {
		return entry{}, false
	}
	lat, err1 := strconv.ParseFloat(latStr, 64)
	lng, err2 := strconv.ParseFloat(lngStr, 64)
	if err1 != nil || err2 != nil {
		return entry{}, false
	}
	return entry{coords: kakao.Coordinates{Lat: lat, Lng: lng}}, true
}
