package auth

import (
	"context"
	"errors"
	"time"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (_ string, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.loginChecker.isLogged")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return "", false, err
	}

	if lc.now().Sub(createdAt) > lc.ttl {
		return "", false, nil
	}

	return userID, true, nil
}
