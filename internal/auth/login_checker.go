package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// GetOwner resolves the session token to the owner id it was created
// for. Returns ErrNotLoggedIn for unknown or expired sessions.
func (c *LoginChecker) GetOwner(ctx context.Context, token string) (string, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := c.redisClient.HGetAll(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}

	session := cmd.Val()
	if len(session) == 0 {
		return "", ErrNotLoggedIn
	}

	createdAtUnix, err := strconv.ParseInt(session["created_at"], 10, 64)
	if err != nil {
		return "", err
	}
	if time.Since(time.Unix(createdAtUnix, 0)) > c.ttl {
		return "", ErrNotLoggedIn
	}

	owner := session["owner"]
	if owner == "" {
		return "", ErrNotLoggedIn
	}
	return owner, nil
}

func (c *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := c.GetOwner(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
