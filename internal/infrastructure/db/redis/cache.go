package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const companyTTL = 10 * time.Minute

// CompanyCache caches sender e-mail → company lookups so repeated renders
// of the same sender do not re-query the users collection.
// Key format: company:<email>
type CompanyCache struct {
	client *redis.Client
}

func NewCompanyCache(client *redis.Client) *CompanyCache {
	return &CompanyCache{client: client}
}

// Get returns the cached company for email. ok is false on a miss; an empty
// cached company is a valid hit (the profile simply has no company set).
func (c *CompanyCache) Get(ctx context.Context, email string) (string, bool, error) {
	company, err := c.client.Get(ctx, c.key(email)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("company cache get: %w", err)
	}
	return company, true, nil
}

// Set records the company for email (expires after companyTTL).
func (c *CompanyCache) Set(ctx context.Context, email, company string) error {
	return c.client.Set(ctx, c.key(email), company, companyTTL).Err()
}

func (c *CompanyCache) key(email string) string {
	return "company:" + email
}
