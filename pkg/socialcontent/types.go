package socialcontent

import (
	"time"

	"github.com/google/uuid"
)

// ContentType is the tag that selects a content payload variant.
type ContentType string

// Content type constants (typed).
const (
	ContentTypeShort ContentType = "short"
	ContentTypeBlog  ContentType = "blog"
	ContentTypeImage ContentType = "image"
)

// IsValid reports whether t is a known content type.
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeShort, ContentTypeBlog, ContentTypeImage:
		return true
	}
	return false
}

// AuthorType distinguishes personal users from pages.
type AuthorType string

// Author type constants (typed).
const (
	AuthorTypeUser AuthorType = "user"
	AuthorTypePage AuthorType = "page"
)

// Author references the identity a content was published as.
type Author struct {
	ID   uuid.UUID  `json:"id"`
	Type AuthorType `json:"type"`
}

// Content represents one piece of authored content.
//
// Payload shape is determined by Type; the pairing is enforced by the
// payload validator, not by the storage layer. Revision increments on
// every update and backs optimistic concurrency on writes.
type Content struct {
	ID        uuid.UUID   `json:"id"`
	Type      ContentType `json:"type"`
	Payload   Payload     `json:"payload"`
	Author    Author      `json:"author"`
	Revision  int         `json:"revision"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	DeletedAt *time.Time  `json:"deleted_at,omitempty"`
}

// Account is a login identity. One account owns one personal user and
// any number of pages.
type Account struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email,omitempty"`
	PasswordHash      string    `json:"-"`
	Activated         bool      `json:"activated"`
	PreferredLanguage string    `json:"preferred_language,omitempty"`
	Device            string    `json:"device,omitempty"`
	DeviceUUID        string    `json:"device_uuid,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// User is a publishable identity: either the personal user of an
// account (Type "user") or a page administered by an account (Type
// "page").
type User struct {
	ID             uuid.UUID  `json:"id"`
	AccountID      uuid.UUID  `json:"account_id"`
	OwnerAccountID uuid.UUID  `json:"owner_account_id,omitempty"`
	Type           AuthorType `json:"type"`
	DisplayName    string     `json:"display_name"`
	Username       string     `json:"username"`
	Avatar         string     `json:"avatar,omitempty"`
	Cover          string     `json:"cover,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Credential is the resolved bearer identity threaded through request
// handling. AccountID and UserID come from verified token claims.
type Credential struct {
	AccountID  uuid.UUID
	UserID     uuid.UUID
	DeviceUUID string
}

// Hashtag is a known tag with per-language display names.
type Hashtag struct {
	ID        uuid.UUID         `json:"id"`
	Tag       string            `json:"tag"`
	Score     float64           `json:"score"`
	Localized map[string]string `json:"localized,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
