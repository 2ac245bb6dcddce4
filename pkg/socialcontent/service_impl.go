package socialcontent

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// service implements the Service interface
type service struct {
	repository Repository
	eventSink  EventSink
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		now: func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

func (s *service) CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error) {
	if req.Payload == nil {
		return nil, &ValidationError{Field: "payload", Reason: "is required"}
	}
	if req.Payload.ContentType() != req.Type {
		return nil, &ValidationError{
			Field:  "payload",
			Reason: fmt.Sprintf("does not match content type %q", req.Type),
		}
	}

	now := s.now()
	content := &Content{
		ID:        uuid.New(),
		Type:      req.Type,
		Payload:   req.Payload,
		Author:    req.Author,
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "create", Err: err}
	}

	// Event delivery never fails the write.
	_ = s.eventSink.ContentCreated(ctx, content)

	return content, nil
}

func (s *service) GetContent(ctx context.Context, id uuid.UUID) (*Content, error) {
	return s.repository.GetContent(ctx, id)
}

func (s *service) UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error) {
	if req.Payload == nil {
		return nil, &ValidationError{Field: "payload", Reason: "is required"}
	}
	if req.Payload.ContentType() != req.Type {
		return nil, &ValidationError{
			Field:  "payload",
			Reason: fmt.Sprintf("does not match content type %q", req.Type),
		}
	}

	content, err := s.repository.GetContent(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if req.ExpectedRevision != 0 && req.ExpectedRevision != content.Revision {
		return nil, ErrRevisionConflict
	}

	// Full replace, not a merge.
	content.Type = req.Type
	content.Payload = req.Payload
	content.Revision++
	content.UpdatedAt = s.now()

	if err := s.repository.UpdateContent(ctx, content); err != nil {
		return nil, &ContentError{ContentID: content.ID, Op: "update", Err: err}
	}

	_ = s.eventSink.ContentUpdated(ctx, content)

	return content, nil
}

func (s *service) DeleteContent(ctx context.Context, id uuid.UUID) error {
	if err := s.repository.DeleteContent(ctx, id); err != nil {
		return &ContentError{ContentID: id, Op: "delete", Err: err}
	}

	_ = s.eventSink.ContentDeleted(ctx, id)

	return nil
}

func (s *service) ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Content, error) {
	return s.repository.ListContentByAuthor(ctx, authorID)
}
