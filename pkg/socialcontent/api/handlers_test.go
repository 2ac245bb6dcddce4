package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/social-content/pkg/socialcontent"
	"github.com/tendant/social-content/pkg/socialcontent/repo/memory"
)

type testServer struct {
	handler http.Handler
	repo    socialcontent.Repository
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := memory.New()
	svc, err := socialcontent.New(
		socialcontent.WithRepository(repo),
		socialcontent.WithEventSink(socialcontent.NewNoopEventSink()),
	)
	require.NoError(t, err)

	tokens := jwtauth.New("HS256", []byte("test-secret"), nil)
	issuer := NewTokenIssuer(tokens, time.Hour, 24*time.Hour)

	authSvc := socialcontent.NewAuthService(repo)
	userSvc := socialcontent.NewUserService(repo)
	hashtagSvc := socialcontent.NewHashtagService(repo)

	router := NewRouter(
		NewAuthHandler(authSvc, issuer),
		NewContentHandler(svc, userSvc),
		NewUserHandler(userSvc),
		NewHashtagHandler(hashtagSvc),
		tokens,
	)

	return &testServer{handler: router.Handler(), repo: repo}
}

type envelope struct {
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

// contentResponse mirrors the content projection with the payload kept
// raw, since the variant type is only known from the type tag.
type contentResponse struct {
	ID       string                      `json:"id"`
	Type     socialcontent.ContentType   `json:"type"`
	Payload  json.RawMessage             `json:"payload"`
	Author   socialcontent.AuthorSummary `json:"author"`
	Revision int                         `json:"revision"`
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder, payload interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "success message", env.Message)
	if payload != nil {
		require.NoError(t, json.Unmarshal(env.Payload, payload))
	}
}

func (ts *testServer) createGuest(t *testing.T) TokenPayload {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/v1/accounts", "", CreateAccountBody{
		Device:     "iPhone",
		DeviceUUID: uuid.New().String(),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var payload TokenPayload
	decodeEnvelope(t, w, &payload)
	require.NotEmpty(t, payload.AccessToken)
	require.NotEmpty(t, payload.RefreshToken)
	return payload
}

func TestCreateAccountAndLogin(t *testing.T) {
	ts := setupTestServer(t)
	guest := ts.createGuest(t)
	assert.False(t, guest.Activated)

	w := ts.do(t, http.MethodPost, "/api/v1/accounts/register", guest.AccessToken, RegisterBody{
		Email:       "somchai@example.com",
		Password:    "2@HelloWorld",
		DisplayName: "Somchai",
		Username:    "somchai",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Login before activation is rejected.
	w = ts.do(t, http.MethodPost, "/api/v1/accounts/login", "", LoginBody{
		Email:    "somchai@example.com",
		Password: "2@HelloWorld",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/accounts/verify", guest.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/accounts/login", "", LoginBody{
		Email:    "somchai@example.com",
		Password: "2@HelloWorld",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var login TokenPayload
	decodeEnvelope(t, w, &login)
	assert.Equal(t, guest.AccountID, login.AccountID)
	assert.True(t, login.Activated)
	assert.NotEmpty(t, login.AccessToken)

	t.Run("wrong password", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/accounts/login", "", LoginBody{
			Email:    "somchai@example.com",
			Password: "wrong password",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("register without token", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/accounts/register", "", RegisterBody{
			Email:    "other@example.com",
			Password: "2@HelloWorld",
			Username: "other",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestContentLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	guest := ts.createGuest(t)

	create := map[string]interface{}{
		"type": "short",
		"payload": map[string]interface{}{
			"message": "อุบกขา",
			"link": []map[string]interface{}{
				{"type": "other", "url": "https://www.facebook.com/watch/?v=345357500470873"},
			},
		},
	}

	w := ts.do(t, http.MethodPost, "/api/v1/contents", guest.AccessToken, create)
	require.Equal(t, http.StatusCreated, w.Code)

	var created contentResponse
	decodeEnvelope(t, w, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, socialcontent.ContentTypeShort, created.Type)
	assert.Equal(t, 1, created.Revision)
	assert.Equal(t, guest.UserID, created.Author.ID)

	t.Run("public read without token", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/contents/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got contentResponse
		decodeEnvelope(t, w, &got)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("update replaces payload", func(t *testing.T) {
		update := map[string]interface{}{
			"type":    "short",
			"payload": map[string]interface{}{"message": "edited"},
		}
		w := ts.do(t, http.MethodPut, "/api/v1/contents/"+created.ID, guest.AccessToken, update)
		require.Equal(t, http.StatusOK, w.Code)

		var updated contentResponse
		decodeEnvelope(t, w, &updated)
		assert.Equal(t, 2, updated.Revision)
	})

	t.Run("stale If-Match conflicts", func(t *testing.T) {
		update := map[string]interface{}{
			"type":    "short",
			"payload": map[string]interface{}{"message": "stale"},
		}
		req := httptest.NewRequest(http.MethodPut, "/api/v1/contents/"+created.ID, marshalBody(t, update))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+guest.AccessToken)
		req.Header.Set("If-Match", "1")

		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("other user cannot update", func(t *testing.T) {
		other := ts.createGuest(t)
		update := map[string]interface{}{
			"type":    "short",
			"payload": map[string]interface{}{"message": "hijack"},
		}
		w := ts.do(t, http.MethodPut, "/api/v1/contents/"+created.ID, other.AccessToken, update)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("list by author", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/contents", guest.UserID), "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var contents []contentResponse
		decodeEnvelope(t, w, &contents)
		require.Len(t, contents, 1)
		assert.Equal(t, created.ID, contents[0].ID)
	})

	t.Run("delete then read", func(t *testing.T) {
		w := ts.do(t, http.MethodDelete, "/api/v1/contents/"+created.ID, guest.AccessToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = ts.do(t, http.MethodGet, "/api/v1/contents/"+created.ID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func marshalBody(t *testing.T, body interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestContentValidation(t *testing.T) {
	ts := setupTestServer(t)
	guest := ts.createGuest(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "short without message",
			body: map[string]interface{}{
				"type":    "short",
				"payload": map[string]interface{}{"link": []interface{}{}},
			},
		},
		{
			name: "unknown content type",
			body: map[string]interface{}{
				"type":    "poll",
				"payload": map[string]interface{}{"message": "hi"},
			},
		},
		{
			name: "payload shape mismatch",
			body: map[string]interface{}{
				"type":    "short",
				"payload": map[string]interface{}{"header": "a", "message": "b"},
			},
		},
		{
			name: "missing payload",
			body: map[string]interface{}{"type": "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/contents", guest.AccessToken, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("without token", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/contents", "", map[string]interface{}{
			"type":    "short",
			"payload": map[string]interface{}{"message": "hi"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPageAuthorship(t *testing.T) {
	ts := setupTestServer(t)
	guest := ts.createGuest(t)

	w := ts.do(t, http.MethodPost, "/api/v1/pages", guest.AccessToken, CreatePageBody{
		DisplayName: "Breaking News",
		Username:    "breakingnews",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var page UserPayload
	decodeEnvelope(t, w, &page)
	assert.Equal(t, "page", page.Type)

	t.Run("publish as owned page", func(t *testing.T) {
		w := ts.do(t, http.MethodPost, "/api/v1/contents", guest.AccessToken, map[string]interface{}{
			"type":      "short",
			"payload":   map[string]interface{}{"message": "as the page"},
			"author_id": page.ID,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var created contentResponse
		decodeEnvelope(t, w, &created)
		assert.Equal(t, page.ID, created.Author.ID)
		assert.Equal(t, socialcontent.AuthorTypePage, created.Author.Type)
		assert.Equal(t, "Breaking News", created.Author.DisplayName)
	})

	t.Run("publish as someone else's page", func(t *testing.T) {
		other := ts.createGuest(t)
		w := ts.do(t, http.MethodPost, "/api/v1/contents", other.AccessToken, map[string]interface{}{
			"type":      "short",
			"payload":   map[string]interface{}{"message": "not mine"},
			"author_id": page.ID,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("list pages", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/pages", guest.AccessToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var pages []UserPayload
		decodeEnvelope(t, w, &pages)
		require.Len(t, pages, 1)
		assert.Equal(t, page.ID, pages[0].ID)
	})
}

func TestListHashtags(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, ts.repo.CreateHashtag(ctx, &socialcontent.Hashtag{
		ID:    uuid.New(),
		Tag:   "castcle",
		Score: 10,
		Localized: map[string]string{
			"th": "แคสเคิล",
		},
	}))
	require.NoError(t, ts.repo.CreateHashtag(ctx, &socialcontent.Hashtag{
		ID:    uuid.New(),
		Tag:   "crypto",
		Score: 5,
	}))

	guest := ts.createGuest(t)

	w := ts.do(t, http.MethodGet, "/api/v1/hashtags", guest.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hashtags []socialcontent.HashtagPayload
	decodeEnvelope(t, w, &hashtags)
	require.Len(t, hashtags, 2)
	assert.Equal(t, "castcle", hashtags[0].Slug)
	assert.Equal(t, "castcle", hashtags[0].Name)

	t.Run("without token", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/hashtags", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("localized by Accept-Language", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/hashtags", nil)
		req.Header.Set("Authorization", "Bearer "+guest.AccessToken)
		req.Header.Set("Accept-Language", "th-TH,th;q=0.9,en;q=0.8")

		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var hashtags []socialcontent.HashtagPayload
		decodeEnvelope(t, w, &hashtags)
		assert.Equal(t, "แคสเคิล", hashtags[0].Name)
	})
}

func TestHealth(t *testing.T) {
	ts := setupTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
