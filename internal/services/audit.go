package services

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const auditTruncateLimit = 500

// AuditLogger appends structured records for external calls and completed
// evaluations to a JSONL file. It is write-only: nothing in the application
// reads it back. A nil AuditLogger is valid and drops every record, so tests
// and degraded startups never have to guard calls.
type AuditLogger struct {
	log *zap.Logger
}

func NewAuditLogger(path string) (*AuditLogger, error) {
	cfg := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "event",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,
		},
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build audit logger: %w", err)
	}

	return &AuditLogger{log: logger}, nil
}

// ExternalCall records one round-trip to the generative or embedding API.
func (a *AuditLogger) ExternalCall(kind, model, prompt, response string, latency time.Duration, callErr error) {
	if a == nil || a.log == nil {
		return
	}

	fields := []zap.Field{
		zap.String("model", model),
		zap.String("prompt", truncateForAudit(prompt)),
		zap.Duration("latency", latency),
	}
	if callErr != nil {
		fields = append(fields, zap.String("error", callErr.Error()))
	} else {
		fields = append(fields, zap.String("response", truncateForAudit(response)))
	}

	a.log.Info(kind, fields...)
}

// Evaluation records the outcome of one hybrid scoring run.
func (a *AuditLogger) Evaluation(evalID, questionID string, rubric, semantic *float64, final float64, missing string) {
	if a == nil || a.log == nil {
		return
	}

	fields := []zap.Field{
		zap.String("evaluation_id", evalID),
		zap.String("question_id", questionID),
		zap.Float64("final_score", final),
	}
	if rubric != nil {
		fields = append(fields, zap.Float64("rubric_score", *rubric))
	}
	if semantic != nil {
		fields = append(fields, zap.Float64("semantic_score", *semantic))
	}
	if missing != "" {
		fields = append(fields, zap.String("missing_component", missing))
	}

	a.log.Info("evaluation_completed", fields...)
}

func (a *AuditLogger) Sync() {
	if a == nil || a.log == nil {
		return
	}
	_ = a.log.Sync()
}

func truncateForAudit(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= auditTruncateLimit {
		return s
	}
	return string(runes[:auditTruncateLimit]) + "..."
}
