package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	namespace = "gl"
	// allPeriods stands in for an empty period id in keys.
	allPeriods = "all"
)

// BalanceCache stores computed balances in Redis under a per-tenant generation counter.
// Invalidation increments the counter; entries of older generations are never read
// again and expire on their TTL.
type BalanceCache struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

var _ portsrepo.BalanceCache = (*BalanceCache)(nil)

// NewBalanceCache creates a cache over an existing client. Entries live for ttl.
func NewBalanceCache(client goredis.UniversalClient, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

// NewClient opens a single-node client and checks that the server answers.
func NewClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func generationKey(tenantID string) string {
	return namespace + ":" + tenantID + ":gen"
}

func balanceKey(tenantID string, generation int64, accountID, periodID string) string {
	if periodID == "" {
		periodID = allPeriods
	}
	return fmt.Sprintf("%s:%s:%d:%s:%s", namespace, tenantID, generation, accountID, periodID)
}

func (c *BalanceCache) Generation(ctx context.Context, tenantID string) (int64, error) {
	raw, err := c.client.Get(ctx, generationKey(tenantID)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	gen, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt cache generation for tenant %s: %w", tenantID, err)
	}
	return gen, nil
}

func (c *BalanceCache) GetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string) (decimal.Decimal, bool, error) {
	raw, err := c.client.Get(ctx, balanceKey(tenantID, generation, accountID, periodID)).Result()
	if errors.Is(err, goredis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	bal, err := decimal.NewFromString(raw)
	if err != nil {
		// treat an unreadable entry as a miss; the next fill overwrites it
		return decimal.Zero, false, nil
	}
	return bal, true, nil
}

func (c *BalanceCache) SetBalance(ctx context.Context, tenantID string, generation int64, accountID, periodID string, balance decimal.Decimal) error {
	return c.client.Set(ctx, balanceKey(tenantID, generation, accountID, periodID), balance.String(), c.ttl).Err()
}

func (c *BalanceCache) InvalidateTenant(ctx context.Context, tenantID string) error {
	return c.client.Incr(ctx, generationKey(tenantID)).Err()
}
