package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"car-rental-admin/internal/delivery/dto"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis keys for the booking page cache
	RedisBookingCacheVersionKey = "bookings:cache:version"
	RedisBookingPageKeyPrefix   = "bookings:page:"

	// Timeout for individual cache operations
	cacheOpTimeout = 2 * time.Second
)

// BookingCacheService caches booking search pages in Redis.
//
// Invalidation is version based: every page key embeds the current version and a mutation
// bumps the version with INCR, so stale pages are never read again and simply expire.
type BookingCacheService interface {
	PageKey(ctx context.Context, scope string, req *dto.GetBookingsRequest, page, size int) (string, error)
	GetPage(ctx context.Context, key string) (*dto.BookingPageResponse, bool)
	SetPage(ctx context.Context, key string, page *dto.BookingPageResponse)
	Invalidate(ctx context.Context) error
}

type bookingCacheService struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewBookingCacheService(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) BookingCacheService {
	return &bookingCacheService{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
	}
}

type pageKeyInput struct {
	Scope string                  `json:"scope"`
	Req   *dto.GetBookingsRequest `json:"req"`
	Page  int                     `json:"page"`
	Size  int                     `json:"size"`
}

// PageKey builds the cache key of one search page under the current cache version
func (s *bookingCacheService) PageKey(ctx context.Context, scope string, req *dto.GetBookingsRequest, page, size int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	version, err := s.redisClient.Get(ctx, RedisBookingCacheVersionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get cache version: %w", err)
	}

	raw, err := json.Marshal(pageKeyInput{Scope: scope, Req: req, Page: page, Size: size})
	if err != nil {
		return "", fmt.Errorf("encode page key: %w", err)
	}

	return fmt.Sprintf("%s%d:%016x", RedisBookingPageKeyPrefix, version, xxhash.Sum64(raw)), nil
}

func (s *bookingCacheService) GetPage(ctx context.Context, key string) (*dto.BookingPageResponse, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := s.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warnf("Failed to read booking page %s from cache: %+v", key, err)
		}
		return nil, false
	}

	var page dto.BookingPageResponse
	if err := json.Unmarshal(raw, &page); err != nil {
		s.log.Warnf("Failed to decode cached booking page %s: %+v", key, err)
		return nil, false
	}

	s.log.Debugf("Booking page cache hit: %s", key)
	return &page, true
}

// SetPage stores a page; failures are logged and otherwise ignored
func (s *bookingCacheService) SetPage(ctx context.Context, key string, page *dto.BookingPageResponse) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	raw, err := json.Marshal(page)
	if err != nil {
		s.log.Warnf("Failed to encode booking page %s: %+v", key, err)
		return
	}

	if err := s.redisClient.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to cache booking page %s: %+v", key, err)
	}
}

// Invalidate drops every cached page by bumping the cache version
func (s *bookingCacheService) Invalidate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	version, err := s.redisClient.Incr(ctx, RedisBookingCacheVersionKey).Result()
	if err != nil {
		s.log.Warnf("Failed to invalidate booking cache: %+v", err)
		return fmt.Errorf("incr cache version: %w", err)
	}

	s.log.Debugf("Booking cache version bumped to %d", version)
	return nil
}
