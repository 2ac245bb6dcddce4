package socialcontent

import (
	"context"

	"github.com/google/uuid"
)

// Service defines content lifecycle operations. Authorization (who may
// author-as or update) is enforced by the transport layer; the service
// assumes requests arrive already entitled.
type Service interface {
	CreateContent(ctx context.Context, req CreateContentRequest) (*Content, error)
	GetContent(ctx context.Context, id uuid.UUID) (*Content, error)
	UpdateContent(ctx context.Context, req UpdateContentRequest) (*Content, error)
	DeleteContent(ctx context.Context, id uuid.UUID) error
	ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Content, error)
}

// AuthService resolves and manages accounts and credentials.
type AuthService interface {
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, *User, error)
	SignupByEmail(ctx context.Context, req SignupByEmailRequest) (*Account, error)
	VerifyAccount(ctx context.Context, accountID uuid.UUID) (*Account, error)
	Login(ctx context.Context, req LoginRequest) (*Account, error)
	GetUserFromCredential(ctx context.Context, cred Credential) (*User, error)
}

// UserService manages user and page identities.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	CreatePageFromCredential(ctx context.Context, cred Credential, req CreatePageRequest) (*User, error)
	ListPages(ctx context.Context, cred Credential) ([]*User, error)
	// CanActAs reports whether cred may publish as author: the caller's
	// own identity, or a page owned by the caller's account.
	CanActAs(ctx context.Context, cred Credential, author Author) (bool, error)
}

// HashtagService lists known hashtags.
type HashtagService interface {
	GetAll(ctx context.Context) ([]*Hashtag, error)
}
