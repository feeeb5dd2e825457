package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	keyPrefix = "gymlog-preferences||"
	// devices not seen for this long lose their preferences
	keyTTL = 365 * 24 * time.Hour
)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

// Get returns the stored preferences of the device, or the defaults if nothing usable is stored.
func (s *RedisStore) Get(ctx context.Context, deviceID string) (_ Preferences, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.preferences.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("device.id", deviceID))

	cmd := s.redisClient.Get(ctx, keyPrefix+deviceID)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("get preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(cmd.Val()), &prefs); err != nil {
		log.Warnf("stored preferences of device %s are corrupted, using defaults: %s", deviceID, err)
		return Default(), nil
	}

	return prefs.Normalized(), nil
}

func (s *RedisStore) Put(ctx context.Context, deviceID string, prefs Preferences) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.preferences.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("device.id", deviceID))

	prefsJson, err := json.Marshal(prefs.Normalized())
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	if err := s.redisClient.Set(ctx, keyPrefix+deviceID, string(prefsJson), keyTTL).Err(); err != nil {
		return fmt.Errorf("set preferences: %w", err)
	}
	return nil
}
