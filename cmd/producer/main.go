package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lukitun/Jahbreak/internal/models"
	red "github.com/lukitun/Jahbreak/internal/redis"
	"github.com/lukitun/Jahbreak/internal/setup"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON EvaluationRequest or CompareRequest")
	stream := flag.String("stream", "", "Stream name (defaults to SAMPLE_STREAM)")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, stream string) error {
	_ = godotenv.Load()

	cfg := setup.LoadConfig()
	if stream == "" {
		stream = cfg.SampleStream
	}

	// Reject malformed payloads before they reach the consumer group
	var envelope struct {
		EventID   string           `json:"event_id"`
		EventType models.EventType `json:"event_type"`
	}
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	ctx := context.Background()
	client, err := red.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, 3)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := red.Publish(ctx, client, stream, 0, json.RawMessage(data))
	if err != nil {
		return err
	}

	log.Info().
		Str("stream", stream).
		Str("id", id).
		Str("event_id", envelope.EventID).
		Str("event_type", string(envelope.EventType)).
		Msg("Published successfully!")
	return nil
}
