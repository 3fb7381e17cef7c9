package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

const (
	peopleKey        = "clinic:people:v1"
	defaultPeopleTTL = 30 * time.Second
)

// PeopleCache holds the last people list fetched from the clinic API.
type PeopleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPeopleCache(rdb *redis.Client, ttl time.Duration) *PeopleCache {
	if ttl <= 0 {
		ttl = defaultPeopleTTL
	}
	return &PeopleCache{rdb: rdb, ttl: ttl}
}

// Get reports ok=false on a miss.
func (c *PeopleCache) Get(ctx context.Context) ([]schedule.Person, bool, error) {
	raw, err := c.rdb.Get(ctx, peopleKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get people cache: %w", err)
	}

	var people []schedule.Person
	if err := json.Unmarshal(raw, &people); err != nil {
		return nil, false, fmt.Errorf("decode people cache: %w", err)
	}
	return people, true, nil
}

func (c *PeopleCache) Set(ctx context.Context, people []schedule.Person) error {
	if people == nil {
		people = []schedule.Person{}
	}
	raw, err := json.Marshal(people)
	if err != nil {
		return fmt.Errorf("encode people cache: %w", err)
	}
	if err := c.rdb.Set(ctx, peopleKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set people cache: %w", err)
	}
	return nil
}

func (c *PeopleCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, peopleKey).Err(); err != nil {
		return fmt.Errorf("invalidate people cache: %w", err)
	}
	return nil
}

func (c *PeopleCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

type Upstream interface {
	ListPeople(ctx context.Context) ([]schedule.Person, error)
	ListAppointments(ctx context.Context) ([]schedule.Appointment, error)
}

// CachedSource reads people through the cache and appointments straight
// from upstream. A nil cache or any cache failure falls through to upstream.
type CachedSource struct {
	Upstream
	cache  *PeopleCache
	logger *zap.Logger
}

func NewCachedSource(upstream Upstream, cache *PeopleCache, logger *zap.Logger) *CachedSource {
	return &CachedSource{Upstream: upstream, cache: cache, logger: logging.OrNop(logger)}
}

func (s *CachedSource) ListPeople(ctx context.Context) ([]schedule.Person, error) {
	if s.cache == nil {
		return s.Upstream.ListPeople(ctx)
	}

	people, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("people cache read failed", zap.Error(err))
	}
	if ok {
		return people, nil
	}

	people, err = s.Upstream.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, people); err != nil {
		s.logger.Warn("people cache write failed", zap.Error(err))
	}
	return people, nil
}

// Invalidate drops the cached people list after a write.
func (s *CachedSource) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("people cache invalidate failed", zap.Error(err))
	}
}
