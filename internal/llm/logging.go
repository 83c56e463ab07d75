package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LoggingJudge wraps a Judge with structured request lifecycle logging.
// Prompt content is redacted unless explicitly enabled; payloads are never
// logged, only their sizes.
type LoggingJudge struct {
	next       Judge
	logger     *slog.Logger
	logPrompts bool
}

// NewLoggingJudge wraps next with slog-based observability.
func NewLoggingJudge(next Judge, logger *slog.Logger, logPrompts bool) *LoggingJudge {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingJudge{next: next, logger: logger, logPrompts: logPrompts}
}

// Judge implements Judge.
func (l *LoggingJudge) Judge(ctx context.Context, req JudgeRequest) (json.RawMessage, error) {
	requestID := uuid.New().String()

	attrs := []any{
		"request_id", requestID,
		"model", req.Model,
		"user_len", len(req.User),
	}
	if l.logPrompts {
		attrs = append(attrs, "user", req.User)
	}
	l.logger.DebugContext(ctx, "judge request", attrs...)

	start := time.Now()
	payload, err := l.next.Judge(ctx, req)
	duration := time.Since(start)

	if err != nil {
		l.logger.WarnContext(ctx, "judge request failed",
			"request_id", requestID,
			"model", req.Model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, err
	}

	l.logger.DebugContext(ctx, "judge request completed",
		"request_id", requestID,
		"model", req.Model,
		"duration_ms", duration.Milliseconds(),
		"payload_bytes", len(payload))
	return payload, nil
}

// LoggingGenerator wraps a Generator with the same lifecycle logging.
type LoggingGenerator struct {
	next   Generator
	logger *slog.Logger
}

// NewLoggingGenerator wraps next with slog-based observability.
func NewLoggingGenerator(next Generator, logger *slog.Logger) *LoggingGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate implements Generator.
func (l *LoggingGenerator) Generate(ctx context.Context, prompt, model string) (*Generation, error) {
	requestID := uuid.New().String()
	start := time.Now()

	gen, err := l.next.Generate(ctx, prompt, model)
	duration := time.Since(start)

	if err != nil {
		l.logger.WarnContext(ctx, "generation failed",
			"request_id", requestID,
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return nil, err
	}

	l.logger.DebugContext(ctx, "generation completed",
		"request_id", requestID,
		"model", model,
		"duration_ms", duration.Milliseconds(),
		"input_tokens", gen.Usage.InputTokens,
		"output_tokens", gen.Usage.OutputTokens)
	return gen, nil
}
