package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ImportStream is the Redis stream carrying completed-import events. The
// WebSocket server relays it to connected web clients.
const ImportStream = "stats.imports"

// ImportEvent describes one completed GameChanger import.
type ImportEvent struct {
	ImportID     string   `json:"import_id"`
	UserID       string   `json:"user_id"`
	ChildID      string   `json:"child_id"`
	Sport        string   `json:"sport"`
	Season       string   `json:"season,omitempty"`
	TeamName     string   `json:"team_name,omitempty"`
	StatsCreated int      `json:"stats_created"`
	PlayersFound []string `json:"players_found"`
}

// RedisPublisher publishes events to Redis streams
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher creates a new Redis stream publisher
func NewRedisPublisher(redisURL string) (*RedisPublisher, error) {
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

	return &RedisPublisher{
		client: client,
	}, nil
}

// Close closes the Redis connection
func (rp *RedisPublisher) Close() error {
	return rp.client.Close()
}

// PublishImportCompleted publishes a completed import to the stream.
func (rp *RedisPublisher) PublishImportCompleted(ctx context.Context, event *ImportEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: ImportStream,
		MaxLen: 1000,
		Approx: true,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
