package socialcontent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
)

// Payload is one tagged alternative in the closed set of content
// payload shapes. Implementations are plain data carriers; Validate
// checks shape and presence only, never business rules.
type Payload interface {
	ContentType() ContentType
	Validate() error
}

// LinkType classifies an attached link on a short payload.
type LinkType string

// Link type constants (typed).
const (
	LinkTypeOther    LinkType = "other"
	LinkTypeYoutube  LinkType = "youtube"
	LinkTypeFacebook LinkType = "facebook"
	LinkTypeTwitter  LinkType = "twitter"
	LinkTypeMedium   LinkType = "medium"
)

// IsValid reports whether t is a known link type.
func (t LinkType) IsValid() bool {
	switch t {
	case LinkTypeOther, LinkTypeYoutube, LinkTypeFacebook, LinkTypeTwitter, LinkTypeMedium:
		return true
	}
	return false
}

// Link is an external reference attached to a short payload.
type Link struct {
	Type LinkType `json:"type"`
	URL  string   `json:"url"`
}

// Photo is a single image reference.
type Photo struct {
	URL string `json:"url"`
}

// BlogPhoto groups the cover and the in-body images of a blog payload.
type BlogPhoto struct {
	Cover    *Photo  `json:"cover,omitempty"`
	Contents []Photo `json:"contents,omitempty"`
}

// ShortPayload is free-text microcontent with optional links.
type ShortPayload struct {
	Message string `json:"message"`
	Link    []Link `json:"link,omitempty"`
}

// ContentType implements Payload.
func (p *ShortPayload) ContentType() ContentType { return ContentTypeShort }

// Validate implements Payload.
func (p *ShortPayload) Validate() error {
	if p.Message == "" {
		return &ValidationError{Field: "message", Reason: "must be a non-empty string"}
	}
	for i, link := range p.Link {
		if !link.Type.IsValid() {
			return &ValidationError{
				Field:  fmt.Sprintf("link[%d].type", i),
				Reason: fmt.Sprintf("unknown link type %q", link.Type),
			}
		}
		if err := validateURL(link.URL); err != nil {
			return &ValidationError{Field: fmt.Sprintf("link[%d].url", i), Reason: err.Error()}
		}
	}
	return nil
}

// BlogPayload is long-form content with a header and optional photos.
type BlogPayload struct {
	Header  string     `json:"header"`
	Message string     `json:"message"`
	Photo   *BlogPhoto `json:"photo,omitempty"`
}

// ContentType implements Payload.
func (p *BlogPayload) ContentType() ContentType { return ContentTypeBlog }

// Validate implements Payload.
func (p *BlogPayload) Validate() error {
	if p.Header == "" {
		return &ValidationError{Field: "header", Reason: "must be a non-empty string"}
	}
	if p.Message == "" {
		return &ValidationError{Field: "message", Reason: "must be a non-empty string"}
	}
	if p.Photo != nil {
		if p.Photo.Cover != nil {
			if err := validateURL(p.Photo.Cover.URL); err != nil {
				return &ValidationError{Field: "photo.cover.url", Reason: err.Error()}
			}
		}
		for i, photo := range p.Photo.Contents {
			if err := validateURL(photo.URL); err != nil {
				return &ValidationError{Field: fmt.Sprintf("photo.contents[%d].url", i), Reason: err.Error()}
			}
		}
	}
	return nil
}

// ImagePayload is a photo set with an optional caption.
type ImagePayload struct {
	Message string  `json:"message,omitempty"`
	Photo   []Photo `json:"photo"`
}

// ContentType implements Payload.
func (p *ImagePayload) ContentType() ContentType { return ContentTypeImage }

// Validate implements Payload.
func (p *ImagePayload) Validate() error {
	if len(p.Photo) == 0 {
		return &ValidationError{Field: "photo", Reason: "must contain at least one photo"}
	}
	for i, photo := range p.Photo {
		if err := validateURL(photo.URL); err != nil {
			return &ValidationError{Field: fmt.Sprintf("photo[%d].url", i), Reason: err.Error()}
		}
	}
	return nil
}

// DecodePayload decodes raw JSON into the payload variant selected by
// contentType and validates it. Unknown fields are rejected so a blog
// body cannot pass as a short.
func DecodePayload(contentType ContentType, raw json.RawMessage) (Payload, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Field: "payload", Reason: "is required"}
	}

	var payload Payload
	switch contentType {
	case ContentTypeShort:
		payload = &ShortPayload{}
	case ContentTypeBlog:
		payload = &BlogPayload{}
	case ContentTypeImage:
		payload = &ImagePayload{}
	default:
		return nil, &ValidationError{
			Field:  "type",
			Reason: fmt.Sprintf("unknown content type %q", contentType),
		}
	}

	if err := strictUnmarshal(raw, payload); err != nil {
		return nil, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

func strictUnmarshal(raw json.RawMessage, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func validateURL(s string) error {
	if s == "" {
		return fmt.Errorf("must be a non-empty URL")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL")
	}
	return nil
}
