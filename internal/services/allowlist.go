package services

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	cohortAllowlistKey = "allowlist:cohort"
	adminAllowlistKey  = "allowlist:admin"
)

// RedisAllowlist keeps cohort and admin membership in Redis sets, so the
// roster can change without a redeploy. Emails are matched lowercased.
type RedisAllowlist struct {
	rdb *redis.Client
}

func NewRedisAllowlist(rdb *redis.Client) *RedisAllowlist {
	return &RedisAllowlist{rdb: rdb}
}

// Seed adds the configured emails to the sets. Existing members are kept, so
// entries added directly in Redis survive restarts.
func (a *RedisAllowlist) Seed(ctx context.Context, cohort, admins []string) error {
	if err := a.addAll(ctx, cohortAllowlistKey, cohort); err != nil {
		return err
	}
	return a.addAll(ctx, adminAllowlistKey, admins)
}

func (a *RedisAllowlist) addAll(ctx context.Context, key string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	members := make([]interface{}, 0, len(emails))
	for _, email := range emails {
		members = append(members, strings.ToLower(email))
	}
	return a.rdb.SAdd(ctx, key, members...).Err()
}

func (a *RedisAllowlist) IsCohortMember(ctx context.Context, email string) (bool, error) {
	return a.rdb.SIsMember(ctx, cohortAllowlistKey, strings.ToLower(email)).Result()
}

func (a *RedisAllowlist) IsAdmin(ctx context.Context, email string) (bool, error) {
	return a.rdb.SIsMember(ctx, adminAllowlistKey, strings.ToLower(email)).Result()
}
