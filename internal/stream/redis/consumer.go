package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lukitun/Jahbreak/internal/executor"
	"github.com/lukitun/Jahbreak/internal/models"
	red "github.com/lukitun/Jahbreak/internal/redis"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrMissingPayload = errors.New("missing payload field")

type Consumer struct {
	client       *redis.Client
	stream       string
	resultStream string
	resultMaxLen int64
	groupID      string
	consumerName string
	executor     *executor.Executor
	compare      *executor.CompareExecutor
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, exec *executor.Executor, compareExec *executor.CompareExecutor, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		resultStream: cfg.ResultStream,
		resultMaxLen: cfg.ResultMaxLen,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		executor:     exec,
		compare:      compareExec,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("resultStream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    10,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range msgs {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	result, err := c.handle(ctx, msg)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // ack undecodable entries so they are not redelivered
		return
	}

	if c.resultStream != "" {
		id, err := red.Publish(ctx, c.client, c.resultStream, c.resultMaxLen, result)
		if err != nil {
			// Leave the message pending so it is redelivered.
			c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish result")
			return
		}
		c.logger.Debug().Str("id", msg.ID).Str("resultID", id).Msg("Result published")
	}

	c.ack(ctx, msg.ID)
}

// handle decodes one stream entry and runs the matching executor. Pair
// events produce a PairResult, everything else an EvaluationResult.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) (any, error) {
	payload, err := payloadOf(msg)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		EventType models.EventType `json:"event_type"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("invalid JSON payload: %w", err)
	}

	if envelope.EventType == models.EventTypePromptPair {
		var req models.CompareRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("invalid compare request: %w", err)
		}
		if err := models.ValidateStruct(req); err != nil {
			return nil, err
		}

		id, first, second := models.NormalizePair(req)
		return c.compare.Execute(ctx, id, first, second, req.ExpectDistinct), nil
	}

	var req models.EvaluationRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid evaluation request: %w", err)
	}
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}

	result := c.executor.Execute(ctx, models.Normalize(req.EventID, req.Sample))

	c.logger.Info().
		Str("id", msg.ID).
		Str("tier", string(result.QualityTier)).
		Bool("passed", result.Passed).
		Msg("Evaluation complete")
	return result, nil
}

func payloadOf(msg redis.XMessage) ([]byte, error) {
	switch v := msg.Values[red.PayloadField].(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, ErrMissingPayload
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
