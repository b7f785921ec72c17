package sinks

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dropzone/logging"
)

// Zap forwards domain events into a structured zap.Logger, so operational
// logs (panics, startup, shutdown) and domain telemetry end up in the same
// stream when an operator tails process output.
type Zap struct {
	logger *zap.Logger
}

// NewZap wraps an existing zap.Logger. Passing nil falls back to a no-op
// logger so callers don't need a nil check at construction time.
func NewZap(logger *zap.Logger) *Zap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Zap{logger: logger}
}

func (s *Zap) Write(event logging.Event) error {
	fields := []zap.Field{
		zap.Uint64("tick", event.Tick),
		zap.String("category", string(event.Category)),
		zap.String("actor", formatEntity(event.Actor)),
	}
	if len(event.Targets) > 0 {
		names := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			names = append(names, formatEntity(target))
		}
		fields = append(fields, zap.Strings("targets", names))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	if event.TraceID != "" {
		fields = append(fields, zap.String("traceId", event.TraceID))
	}

	s.logger.Check(zapLevel(event.Severity), string(event.Type)).Write(fields...)
	return nil
}

func (s *Zap) Close(context.Context) error {
	_ = s.logger.Sync()
	return nil
}

func zapLevel(sev logging.Severity) zapcore.Level {
	switch sev {
	case logging.SeverityDebug:
		return zapcore.DebugLevel
	case logging.SeverityInfo:
		return zapcore.InfoLevel
	case logging.SeverityWarn:
		return zapcore.WarnLevel
	case logging.SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
