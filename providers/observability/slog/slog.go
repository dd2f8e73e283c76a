// Package slog provides an Observer implementation backed by the standard
// library's log/slog package. Spans are rendered as start/end log lines with
// their duration; attributes map one-to-one onto slog attributes.
package slog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gpniroj-png/chatbot-agent/providers/observability"
)

// Observer implements observability.Observer using log/slog.
type Observer struct {
	logger *slog.Logger
}

// New creates a new slog-based observer. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger}
}

// Ensure Observer implements observability.Observer
var _ observability.Observer = (*Observer)(nil)

// --- LOGGING ---

func (o *Observer) Debug(msg string, attrs ...observability.Attribute) {
	o.log(slog.LevelDebug, msg, attrs)
}

func (o *Observer) Info(msg string, attrs ...observability.Attribute) {
	o.log(slog.LevelInfo, msg, attrs)
}

func (o *Observer) Warn(msg string, attrs ...observability.Attribute) {
	o.log(slog.LevelWarn, msg, attrs)
}

func (o *Observer) Error(msg string, attrs ...observability.Attribute) {
	o.log(slog.LevelError, msg, attrs)
}

func (o *Observer) log(level slog.Level, msg string, attrs []observability.Attribute) {
	o.logger.LogAttrs(context.Background(), level, msg, toSlogAttrs(attrs)...)
}

// --- TRACING ---

func (o *Observer) StartSpan(name string, attrs ...observability.Attribute) observability.Span {
	span := &slogSpan{
		name:      name,
		startTime: time.Now(),
		logger:    o.logger,
		attrs:     attrs,
	}

	logAttrs := append([]slog.Attr{
		slog.String("span", name),
		slog.String("event", "span.start"),
	}, toSlogAttrs(attrs)...)
	o.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span started", logAttrs...)

	return span
}

type slogSpan struct {
	name      string
	startTime time.Time
	logger    *slog.Logger
	attrs     []observability.Attribute
	err       error
	mu        sync.Mutex
}

func (s *slogSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("span", s.name),
		slog.String("event", "span.end"),
		slog.Duration("duration", time.Since(s.startTime)),
	}, toSlogAttrs(s.attrs)...)

	level := slog.LevelDebug
	if s.err != nil {
		level = slog.LevelWarn
		logAttrs = append(logAttrs, slog.Any("error", s.err))
	}
	s.logger.LogAttrs(context.Background(), level, "Span ended", logAttrs...)
}

func (s *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *slogSpan) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logAttrs := append([]slog.Attr{
		slog.String("span", s.name),
		slog.String("event", name),
	}, toSlogAttrs(attrs)...)
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span event", logAttrs...)
}

func toSlogAttrs(attrs []observability.Attribute) []slog.Attr {
	slogAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		slogAttrs = append(slogAttrs, slog.Any(attr.Key, attr.Value))
	}
	return slogAttrs
}
