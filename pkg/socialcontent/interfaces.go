package socialcontent

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for content and identity persistence.
// Implementations back it with a document store (mongo), Postgres, or
// in-process maps for tests.
type Repository interface {
	// Content operations
	CreateContent(ctx context.Context, content *Content) error
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	// UpdateContent persists content whose Revision has already been
	// bumped by the caller; it fails with ErrRevisionConflict unless the
	// stored revision is exactly content.Revision-1.
	UpdateContent(ctx context.Context, content *Content) error
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Content, error)

	// Account operations
	CreateAccount(ctx context.Context, account *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error

	// User and page operations
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByAccount(ctx context.Context, accountID uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListPagesByOwner(ctx context.Context, accountID uuid.UUID) ([]*User, error)

	// Hashtag operations
	CreateHashtag(ctx context.Context, hashtag *Hashtag) error
	ListHashtags(ctx context.Context) ([]*Hashtag, error)
}

// EventSink receives content lifecycle notifications. Implementations
// must not fail the triggering operation; errors are logged and dropped.
type EventSink interface {
	ContentCreated(ctx context.Context, content *Content) error
	ContentUpdated(ctx context.Context, content *Content) error
	ContentDeleted(ctx context.Context, contentID uuid.UUID) error
}
