package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/social-content/pkg/socialcontent"
)

func newContent(author uuid.UUID, message string) *socialcontent.Content {
	now := time.Now().UTC()
	return &socialcontent.Content{
		ID:        uuid.New(),
		Type:      socialcontent.ContentTypeShort,
		Payload:   &socialcontent.ShortPayload{Message: message},
		Author:    socialcontent.Author{ID: author, Type: socialcontent.AuthorTypeUser},
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestContentRoundTrip(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent(uuid.New(), "hello")
	require.NoError(t, repo.CreateContent(ctx, content))

	got, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, content.ID, got.ID)
	assert.Equal(t, 1, got.Revision)

	// Mutating the returned copy must not affect the store.
	got.Revision = 99
	again, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Revision)
}

func TestUpdateContentRevisionCheck(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent(uuid.New(), "v1")
	require.NoError(t, repo.CreateContent(ctx, content))

	next := *content
	next.Payload = &socialcontent.ShortPayload{Message: "v2"}
	next.Revision = 2
	require.NoError(t, repo.UpdateContent(ctx, &next))

	// Same revision again means the writer raced and lost.
	stale := *content
	stale.Payload = &socialcontent.ShortPayload{Message: "v2-stale"}
	stale.Revision = 2
	assert.ErrorIs(t, repo.UpdateContent(ctx, &stale), socialcontent.ErrRevisionConflict)

	got, err := repo.GetContent(ctx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Payload.(*socialcontent.ShortPayload).Message)

	t.Run("unknown content", func(t *testing.T) {
		missing := newContent(uuid.New(), "ghost")
		missing.Revision = 2
		assert.ErrorIs(t, repo.UpdateContent(ctx, missing), socialcontent.ErrContentNotFound)
	})
}

func TestDeleteContentIsSoft(t *testing.T) {
	repo := New()
	ctx := context.Background()

	content := newContent(uuid.New(), "bye")
	require.NoError(t, repo.CreateContent(ctx, content))
	require.NoError(t, repo.DeleteContent(ctx, content.ID))

	_, err := repo.GetContent(ctx, content.ID)
	assert.ErrorIs(t, err, socialcontent.ErrContentNotFound)

	assert.ErrorIs(t, repo.DeleteContent(ctx, content.ID), socialcontent.ErrContentNotFound)

	updated := *content
	updated.Revision = 2
	assert.ErrorIs(t, repo.UpdateContent(ctx, &updated), socialcontent.ErrContentNotFound)
}

func TestListContentByAuthorExcludesDeleted(t *testing.T) {
	repo := New()
	ctx := context.Background()
	author := uuid.New()

	kept := newContent(author, "kept")
	removed := newContent(author, "removed")
	require.NoError(t, repo.CreateContent(ctx, kept))
	require.NoError(t, repo.CreateContent(ctx, removed))
	require.NoError(t, repo.DeleteContent(ctx, removed.ID))

	contents, err := repo.ListContentByAuthor(ctx, author)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, kept.ID, contents[0].ID)
}

func TestAccountEmailLookupIsCaseInsensitive(t *testing.T) {
	repo := New()
	ctx := context.Background()

	account := &socialcontent.Account{
		ID:    uuid.New(),
		Email: "somchai@example.com",
	}
	require.NoError(t, repo.CreateAccount(ctx, account))

	got, err := repo.GetAccountByEmail(ctx, "Somchai@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)

	_, err = repo.GetAccountByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, socialcontent.ErrAccountNotFound)
}

func TestListHashtagsOrdering(t *testing.T) {
	repo := New()
	ctx := context.Background()

	for _, h := range []struct {
		tag   string
		score float64
	}{
		{"zebra", 5},
		{"apple", 5},
		{"hot", 10},
	} {
		require.NoError(t, repo.CreateHashtag(ctx, &socialcontent.Hashtag{
			ID:    uuid.New(),
			Tag:   h.tag,
			Score: h.score,
		}))
	}

	hashtags, err := repo.ListHashtags(ctx)
	require.NoError(t, err)
	require.Len(t, hashtags, 3)

	// Score descending, then tag ascending.
	assert.Equal(t, "hot", hashtags[0].Tag)
	assert.Equal(t, "apple", hashtags[1].Tag)
	assert.Equal(t, "zebra", hashtags[2].Tag)
}
