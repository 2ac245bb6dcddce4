package socialcontent

import "github.com/google/uuid"

// Request DTOs

// CreateContentRequest contains parameters for creating new content.
// Payload must already be the decoded, validated variant for Type.
// Author is the identity the content is published as; the transport
// layer defaults it to the caller's own identity and enforces the
// author-as entitlement before calling the service.
type CreateContentRequest struct {
	Type    ContentType
	Payload Payload
	Author  Author
}

// UpdateContentRequest contains parameters for replacing a content's
// payload in place. The replace is full, not a merge. ExpectedRevision
// is the revision the caller last read; a stale value fails with
// ErrRevisionConflict.
type UpdateContentRequest struct {
	ID               uuid.UUID
	Type             ContentType
	Payload          Payload
	ExpectedRevision int
}

// CreateAccountRequest contains parameters for creating a guest account.
type CreateAccountRequest struct {
	Device            string
	DeviceUUID        string
	PreferredLanguage string
}

// SignupByEmailRequest contains parameters for registering an email
// identity on an existing guest account.
type SignupByEmailRequest struct {
	AccountID   uuid.UUID
	Email       string
	Password    string
	DisplayName string
	Username    string
}

// LoginRequest contains parameters for an email/password login.
type LoginRequest struct {
	Email    string
	Password string
}

// CreatePageRequest contains parameters for creating a page identity.
type CreatePageRequest struct {
	DisplayName string
	Username    string
	Avatar      string
	Cover       string
}
