package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/rs/zerolog"
)

const maxLineSize = 1 << 20

// InputRecord is one non-blank JSONL line. Error is set when the line could
// not be decoded or failed validation.
type InputRecord struct {
	LineNumber int
	Request    models.EvaluationRequest
	Error      error
}

type Reader struct {
	scanner *bufio.Scanner
	logger  *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	return &Reader{
		scanner: scanner,
		logger:  logger,
	}
}

// ReadAll streams records until the input ends or ctx is cancelled. Line
// numbers count blank lines too, so they match the file.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		lineNumber := 0
		for r.scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(r.scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: invalid JSON: %w", lineNumber, err)
			} else if err := models.ValidateStruct(record.Request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			}

			select {
			case out <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := r.scanner.Err(); err != nil {
			r.logger.Error().Err(err).Int("line", lineNumber).Msg("Failed to read input")
			select {
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out
}

// ReadRecords drains ReadAll into a slice and counts invalid records. With
// stopOnError set it returns the first invalid record's error and stops the
// reader goroutine before returning.
func (r *Reader) ReadRecords(ctx context.Context, stopOnError bool) ([]InputRecord, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var records []InputRecord
	invalid := 0
	for record := range r.ReadAll(ctx) {
		if record.Error != nil {
			invalid++
			if stopOnError {
				return records, invalid, record.Error
			}
		}
		records = append(records, record)
	}
	return records, invalid, nil
}
