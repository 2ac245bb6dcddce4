package socialcontent

import (
	"time"
)

// AuthorSummary is the externally visible author of a projected content.
type AuthorSummary struct {
	ID          string     `json:"id"`
	Type        AuthorType `json:"type"`
	DisplayName string     `json:"display_name,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
}

// ContentPayload is the externally visible, language-localized form of
// a stored content record.
type ContentPayload struct {
	ID        string        `json:"id"`
	Type      ContentType   `json:"type"`
	Payload   Payload       `json:"payload"`
	Author    AuthorSummary `json:"author"`
	Revision  int           `json:"revision"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PagePayload projects a stored content into its externally visible
// form. It is a pure function of (content, author, language): calling it
// twice with the same inputs yields identical output. The author
// argument resolves the display summary; language is reserved for
// payload variants carrying localized labels (none of the current
// variants do, but the threading matches the hashtag projection).
func (c *Content) PagePayload(author *User, language string) ContentPayload {
	summary := AuthorSummary{
		ID:   c.Author.ID.String(),
		Type: c.Author.Type,
	}
	if author != nil {
		summary.DisplayName = author.DisplayName
		summary.Avatar = author.Avatar
	}

	return ContentPayload{
		ID:        c.ID.String(),
		Type:      c.Type,
		Payload:   c.Payload,
		Author:    summary,
		Revision:  c.Revision,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// HashtagPayload is the externally visible, localized form of a hashtag.
type HashtagPayload struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PagePayload projects a hashtag with its display name localized by
// language, falling back to the raw tag when no localization exists.
func (h *Hashtag) PagePayload(language string) HashtagPayload {
	name := h.Tag
	if localized, ok := h.Localized[language]; ok && localized != "" {
		name = localized
	}
	return HashtagPayload{
		ID:   h.ID.String(),
		Slug: h.Tag,
		Name: name,
	}
}
