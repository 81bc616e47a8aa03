package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// duplicateWindow is how long an upload fingerprint is remembered. Repeat
// uploads inside the window are flagged to the user but still imported,
// since imports are additive and never replace prior data.
const duplicateWindow = 24 * time.Hour

// RedisCache handles caching and fast state storage
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(redisURL string) (*RedisCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Client returns the underlying Redis client
func (rc *RedisCache) Client() *redis.Client {
	return rc.client
}

// HealthCheck pings Redis to verify connection
func (rc *RedisCache) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// UploadFingerprint hashes an upload for duplicate detection.
func UploadFingerprint(childID, csvText string) string {
	sum := sha256.Sum256([]byte(childID + "\x00" + csvText))
	return hex.EncodeToString(sum[:])
}

// MarkUpload records an upload fingerprint and reports whether the same
// fingerprint was already seen within the duplicate window.
func (rc *RedisCache) MarkUpload(ctx context.Context, fingerprint string) (bool, error) {
	created, err := rc.client.SetNX(ctx, "gc:upload:"+fingerprint, 1, duplicateWindow).Result()
	if err != nil {
		return false, err
	}
	return !created, nil
}
