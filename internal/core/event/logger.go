package event

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/zap"
)

// zapAdapter routes watermill's internal logging through zap.
type zapAdapter struct {
	log *zap.Logger
}

// NewZapAdapter wraps a zap logger as a watermill.LoggerAdapter.
func NewZapAdapter(log *zap.Logger) watermill.LoggerAdapter {
	return &zapAdapter{log: log}
}

func fields(f watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (a *zapAdapter) Error(msg string, err error, f watermill.LogFields) {
	a.log.Error(msg, append(fields(f), zap.Error(err))...)
}

// Info maps to Debug: GoChannel logs every unsubscribed publish at info.
func (a *zapAdapter) Info(msg string, f watermill.LogFields) {
	a.log.Debug(msg, fields(f)...)
}

func (a *zapAdapter) Debug(msg string, f watermill.LogFields) {
	a.log.Debug(msg, fields(f)...)
}

// Trace maps to Debug; zap has no trace level.
func (a *zapAdapter) Trace(msg string, f watermill.LogFields) {
	a.log.Debug(msg, fields(f)...)
}

func (a *zapAdapter) With(f watermill.LogFields) watermill.LoggerAdapter {
	return &zapAdapter{log: a.log.With(fields(f)...)}
}
