package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const revokedPrefix = "session:revoked:"

// SessionRepositoryRedis keeps revoked session ids until the token would have expired anyway.
type SessionRepositoryRedis struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewSessionRepositoryRedis(client *redis.Client, logger *zap.Logger) *SessionRepositoryRedis {
	return &SessionRepositoryRedis{
		Client: client,
		Logger: logger,
	}
}

// Revoke marks tokenID as ended for ttl.
func (r *SessionRepositoryRedis) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing left to revoke
		return nil
	}
	key := revokedPrefix + tokenID
	if err := r.Client.Set(ctx, key, 1, ttl).Err(); err != nil {
		return err
	}
	r.Logger.Debug("Session revoked", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *SessionRepositoryRedis) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.Client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
