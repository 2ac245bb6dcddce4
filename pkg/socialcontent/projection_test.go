package socialcontent_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tendant/social-content/pkg/socialcontent"
)

func TestContentPagePayload(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	author := &socialcontent.User{
		ID:          uuid.New(),
		Type:        socialcontent.AuthorTypeUser,
		DisplayName: "Somchai",
		Avatar:      "https://cdn.example.com/avatar.jpg",
	}
	content := &socialcontent.Content{
		ID:        uuid.New(),
		Type:      socialcontent.ContentTypeShort,
		Payload:   &socialcontent.ShortPayload{Message: "hello"},
		Author:    socialcontent.Author{ID: author.ID, Type: socialcontent.AuthorTypeUser},
		Revision:  2,
		CreatedAt: now,
		UpdatedAt: now.Add(time.Hour),
	}

	payload := content.PagePayload(author, "en")
	assert.Equal(t, content.ID.String(), payload.ID)
	assert.Equal(t, socialcontent.ContentTypeShort, payload.Type)
	assert.Equal(t, 2, payload.Revision)
	assert.Equal(t, "Somchai", payload.Author.DisplayName)
	assert.Equal(t, "https://cdn.example.com/avatar.jpg", payload.Author.Avatar)

	t.Run("idempotent", func(t *testing.T) {
		again := content.PagePayload(author, "en")
		assert.Equal(t, payload, again)
	})

	t.Run("nil author leaves summary minimal", func(t *testing.T) {
		minimal := content.PagePayload(nil, "en")
		assert.Equal(t, content.Author.ID.String(), minimal.Author.ID)
		assert.Empty(t, minimal.Author.DisplayName)
		assert.Empty(t, minimal.Author.Avatar)
	})
}

func TestHashtagPagePayload(t *testing.T) {
	hashtag := &socialcontent.Hashtag{
		ID:    uuid.New(),
		Tag:   "castcle",
		Score: 12.5,
		Localized: map[string]string{
			"th": "แคสเคิล",
		},
	}

	t.Run("localized", func(t *testing.T) {
		payload := hashtag.PagePayload("th")
		assert.Equal(t, "castcle", payload.Slug)
		assert.Equal(t, "แคสเคิล", payload.Name)
	})

	t.Run("fallback to tag", func(t *testing.T) {
		payload := hashtag.PagePayload("fr")
		assert.Equal(t, "castcle", payload.Name)
	})
}
