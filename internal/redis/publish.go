package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PayloadField is the stream entry field that carries the JSON document.
const PayloadField = "payload"

// Publish appends v as a JSON payload to stream, trimming the stream to
// roughly maxLen entries when maxLen is positive.
func Publish(ctx context.Context, client redis.Cmdable, stream string, maxLen int64, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{PayloadField: string(data)},
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}

	id, err := client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to publish to %s: %w", stream, err)
	}
	return id, nil
}
