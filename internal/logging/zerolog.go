package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// zerologLogger adapts a zerolog.Logger to the Logger capability. Critical
// is mapped to zerolog's fatal level via WithLevel rather than the Fatal
// convenience method, since the latter calls os.Exit after writing — the
// core must never terminate the process on the caller's behalf.
type zerologLogger struct {
	logger zerolog.Logger
	fields map[string]any
}

// NewZerologLogger returns a Logger backed by zerolog, writing to w.
func NewZerologLogger(w io.Writer) Logger {
	return &zerologLogger{logger: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *zerologLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &zerologLogger{logger: l.logger, fields: merged}
}

func (l *zerologLogger) Debug(r Record)    { l.log(zerolog.DebugLevel, r) }
func (l *zerologLogger) Info(r Record)     { l.log(zerolog.InfoLevel, r) }
func (l *zerologLogger) Warn(r Record)     { l.log(zerolog.WarnLevel, r) }
func (l *zerologLogger) Error(r Record)    { l.log(zerolog.ErrorLevel, r) }
func (l *zerologLogger) Critical(r Record) { l.log(zerolog.FatalLevel, r) }

func (l *zerologLogger) log(level zerolog.Level, r Record) {
	event := l.logger.WithLevel(level)
	for k, v := range l.fields {
		event = event.Interface(k, v)
	}
	if r.Category != "" {
		event = event.Str("category", r.Category)
	}
	if r.CorrelationID != "" {
		event = event.Str("correlation_id", r.CorrelationID)
	}
	for k, v := range r.Data {
		event = event.Interface(k, v)
	}
	if r.Error != nil {
		event = event.Err(r.Error)
	}
	event.Msg(r.Message)
}
