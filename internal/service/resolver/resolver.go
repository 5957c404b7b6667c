// Package resolver turns a product identifier into the denormalized
// snapshot a cart line needs. Snapshots are cached in Redis with a short
// TTL: within the TTL a snapshot is considered fresh, after it the catalog
// is re-read. Cache trouble degrades to direct catalog reads.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const cacheKeyPrefix = "snapshot:"

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type Service struct {
	catalog catalog
	cache   *redis.Client
	ttl     time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// New builds a resolver. cache may be nil, in which case every resolution
// reads the catalog directly.
func New(cat catalog, cache *redis.Client, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		catalog: cat,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Resolve returns the product's snapshot as of resolution time.
// Unknown identifiers fail with domain.ErrProductNotFound; that error must
// reach the caller, never be swallowed.
func (s *Service) Resolve(ctx context.Context, productID string) (*domain.Snapshot, error) {
	if snap := s.fromCache(ctx, productID); snap != nil {
		return snap, nil
	}

	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	snap := domain.SnapshotOf(*product, s.now())
	s.toCache(ctx, snap)
	return &snap, nil
}

func (s *Service) fromCache(ctx context.Context, productID string) *domain.Snapshot {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, cacheKeyPrefix+productID).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Printf("resolver: cache get id=%s error=%v", productID, err)
		}
		return nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Printf("resolver: cache decode id=%s error=%v", productID, err)
		return nil
	}
	return &snap
}

func (s *Service) toCache(ctx context.Context, snap domain.Snapshot) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+snap.ProductID, data, s.ttl).Err(); err != nil {
		s.logger.Printf("resolver: cache set id=%s error=%v", snap.ProductID, err)
	}
}
