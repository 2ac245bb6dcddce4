package socialcontent_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/social-content/pkg/socialcontent"
)

func TestDecodePayload_Short(t *testing.T) {
	raw := json.RawMessage(`{
		"message": "อุบกขา",
		"link": [{"type": "other", "url": "https://www.facebook.com/watch/?v=345357500470873"}]
	}`)

	payload, err := socialcontent.DecodePayload(socialcontent.ContentTypeShort, raw)
	require.NoError(t, err)

	short, ok := payload.(*socialcontent.ShortPayload)
	require.True(t, ok)
	assert.Equal(t, "อุบกขา", short.Message)
	require.Len(t, short.Link, 1)
	assert.Equal(t, socialcontent.LinkTypeOther, short.Link[0].Type)
	assert.Equal(t, "https://www.facebook.com/watch/?v=345357500470873", short.Link[0].URL)
	assert.Equal(t, socialcontent.ContentTypeShort, payload.ContentType())
}

func TestDecodePayload_Blog(t *testing.T) {
	raw := json.RawMessage(`{
		"header": "How I learned to stop worrying",
		"message": "long form text",
		"photo": {
			"cover": {"url": "https://cdn.example.com/cover.jpg"},
			"contents": [{"url": "https://cdn.example.com/inline-1.jpg"}]
		}
	}`)

	payload, err := socialcontent.DecodePayload(socialcontent.ContentTypeBlog, raw)
	require.NoError(t, err)

	blog, ok := payload.(*socialcontent.BlogPayload)
	require.True(t, ok)
	assert.Equal(t, "How I learned to stop worrying", blog.Header)
	require.NotNil(t, blog.Photo)
	require.NotNil(t, blog.Photo.Cover)
	assert.Equal(t, "https://cdn.example.com/cover.jpg", blog.Photo.Cover.URL)
	assert.Len(t, blog.Photo.Contents, 1)
}

func TestDecodePayload_Image(t *testing.T) {
	raw := json.RawMessage(`{
		"message": "vacation",
		"photo": [{"url": "https://cdn.example.com/a.jpg"}, {"url": "https://cdn.example.com/b.jpg"}]
	}`)

	payload, err := socialcontent.DecodePayload(socialcontent.ContentTypeImage, raw)
	require.NoError(t, err)

	image, ok := payload.(*socialcontent.ImagePayload)
	require.True(t, ok)
	assert.Len(t, image.Photo, 2)
}

func TestDecodePayload_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		contentType socialcontent.ContentType
		raw         string
	}{
		{
			name:        "unknown content type",
			contentType: socialcontent.ContentType("poll"),
			raw:         `{"message": "hi"}`,
		},
		{
			name:        "short without message",
			contentType: socialcontent.ContentTypeShort,
			raw:         `{"link": []}`,
		},
		{
			name:        "blog field on a short",
			contentType: socialcontent.ContentTypeShort,
			raw:         `{"message": "hi", "header": "sneaky"}`,
		},
		{
			name:        "blog without header",
			contentType: socialcontent.ContentTypeBlog,
			raw:         `{"message": "body only"}`,
		},
		{
			name:        "image without photos",
			contentType: socialcontent.ContentTypeImage,
			raw:         `{"message": "no photos", "photo": []}`,
		},
		{
			name:        "relative link url",
			contentType: socialcontent.ContentTypeShort,
			raw:         `{"message": "hi", "link": [{"type": "other", "url": "/watch?v=1"}]}`,
		},
		{
			name:        "unknown link type",
			contentType: socialcontent.ContentTypeShort,
			raw:         `{"message": "hi", "link": [{"type": "tiktok", "url": "https://example.com"}]}`,
		},
		{
			name:        "empty payload",
			contentType: socialcontent.ContentTypeShort,
			raw:         ``,
		},
		{
			name:        "malformed json",
			contentType: socialcontent.ContentTypeShort,
			raw:         `{"message": `,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := socialcontent.DecodePayload(tt.contentType, json.RawMessage(tt.raw))
			assert.Error(t, err)
			assert.Nil(t, payload)
			assert.True(t, socialcontent.IsValidationError(err))
		})
	}
}

func TestContentTypeIsValid(t *testing.T) {
	assert.True(t, socialcontent.ContentTypeShort.IsValid())
	assert.True(t, socialcontent.ContentTypeBlog.IsValid())
	assert.True(t, socialcontent.ContentTypeImage.IsValid())
	assert.False(t, socialcontent.ContentType("poll").IsValid())
}
