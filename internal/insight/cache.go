package insight

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/atomik/internal/db"
)

const timeLayout = "2006-01-02 15:04:05.000000"

// Cache keeps successful insights in the insights table. Entries older
// than the TTL are ignored; a zero TTL keeps them forever.
type Cache struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// NewCache creates a Cache backed by database.
func NewCache(database *db.DB, ttl time.Duration) *Cache {
	return &Cache{db: database, ttl: ttl, now: time.Now}
}

// Get returns the cached insight for an element, if present and fresh.
func (c *Cache) Get(ctx context.Context, atomicNumber int, model string) (Insight, bool, error) {
	var (
		in Insight
		ts string
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT fun_fact, real_world_use, bonding_behavior, fetched_at
		FROM insights WHERE atomic_number = ? AND model = ?`,
		atomicNumber, model,
	).Scan(&in.FunFact, &in.RealWorldUse, &in.BondingBehavior, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return Insight{}, false, nil
	}
	if err != nil {
		return Insight{}, false, fmt.Errorf("reading cached insight: %w", err)
	}

	if c.ttl > 0 {
		fetched, err := time.Parse(timeLayout, ts)
		if err != nil || c.now().UTC().Sub(fetched) > c.ttl {
			return Insight{}, false, nil
		}
	}
	return in, true, nil
}

// Put stores in as the latest insight for the element.
func (c *Cache) Put(ctx context.Context, atomicNumber int, model string, in Insight) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO insights (atomic_number, model, fun_fact, real_world_use, bonding_behavior, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(atomic_number, model) DO UPDATE SET
			fun_fact = excluded.fun_fact,
			real_world_use = excluded.real_world_use,
			bonding_behavior = excluded.bonding_behavior,
			fetched_at = excluded.fetched_at`,
		atomicNumber, model, in.FunFact, in.RealWorldUse, in.BondingBehavior,
		c.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storing insight: %w", err)
	}
	return nil
}

// Len returns the number of cached rows, fresh or not.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM insights").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting insights: %w", err)
	}
	return n, nil
}

// Purge deletes expired rows and returns how many went.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.now().UTC().Add(-c.ttl).Format(timeLayout)
	res, err := c.db.ExecContext(ctx, "DELETE FROM insights WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging insights: %w", err)
	}
	return res.RowsAffected()
}
