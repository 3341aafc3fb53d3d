package cache

import (
	"strings"
	"sync"
	"sync/atomic"

	sqlc "coupon-engine/internal/infra/sqlc/generated"
	"coupon-engine/internal/pkg/config"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const (
	rowPrefix         = "row:"
	invalidatedPrefix = "invalidated:"
)

// Ticket orders a database read against invalidations. Take it before the read
// and hand it to Set with the row.
type Ticket uint64

// CouponCache holds raw rows rather than entities so every reader decodes its own
// copy of the JSON payloads. A row read before the latest invalidation of its id
// is never stored.
type CouponCache struct {
	store *gocache.Cache
	mu    sync.Mutex
	epoch atomic.Uint64
}

func NewCouponCache(cfg config.Config) *CouponCache {
	return &CouponCache{
		store: gocache.New(cfg.Cache.TTL, cfg.Cache.CleanupInterval),
	}
}

func (c *CouponCache) Ticket() Ticket {
	return Ticket(c.epoch.Load())
}

func (c *CouponCache) Get(id uuid.UUID) (sqlc.Coupons, bool) {
	v, ok := c.store.Get(rowPrefix + id.String())
	if !ok {
		return sqlc.Coupons{}, false
	}
	row, ok := v.(sqlc.Coupons)
	return row, ok
}

// Set stores row unless its id was invalidated after ticket was taken.
func (c *CouponCache) Set(row sqlc.Coupons, ticket Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.store.Get(invalidatedPrefix + row.ID.String()); ok && v.(uint64) > uint64(ticket) {
		return false
	}
	c.store.SetDefault(rowPrefix+row.ID.String(), row)
	return true
}

// Invalidate drops the row and fences off reads that started before this call.
// The fence lives as long as a cached row would.
func (c *CouponCache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.SetDefault(invalidatedPrefix+id.String(), c.epoch.Add(1))
	c.store.Delete(rowPrefix + id.String())
}

func (c *CouponCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Flush()
}

// Len counts cached rows.
func (c *CouponCache) Len() int {
	n := 0
	for k := range c.store.Items() {
		if strings.HasPrefix(k, rowPrefix) {
			n++
		}
	}
	return n
}
