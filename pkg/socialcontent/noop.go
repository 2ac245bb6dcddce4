package socialcontent

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink.
// Useful for production when you don't need event handling or for testing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// ContentCreated does nothing and returns nil
func (n *NoopEventSink) ContentCreated(ctx context.Context, content *Content) error {
	return nil
}

// ContentUpdated does nothing and returns nil
func (n *NoopEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	return nil
}

// ContentDeleted does nothing and returns nil
func (n *NoopEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other
// action. Useful for development and debugging.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink that logs with the given logger.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// ContentCreated logs the creation
func (l *LoggingEventSink) ContentCreated(ctx context.Context, content *Content) error {
	l.logger.Info("Content created", "content_id", content.ID.String(), "type", string(content.Type), "author_id", content.Author.ID.String())
	return nil
}

// ContentUpdated logs the update
func (l *LoggingEventSink) ContentUpdated(ctx context.Context, content *Content) error {
	l.logger.Info("Content updated", "content_id", content.ID.String(), "revision", content.Revision)
	return nil
}

// ContentDeleted logs the deletion
func (l *LoggingEventSink) ContentDeleted(ctx context.Context, contentID uuid.UUID) error {
	l.logger.Info("Content deleted", "content_id", contentID.String())
	return nil
}
