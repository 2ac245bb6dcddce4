package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/social-content/pkg/socialcontent"
)

// HashtagHandler handles hashtag listing requests.
type HashtagHandler struct {
	hashtags socialcontent.HashtagService
}

// NewHashtagHandler creates a new hashtag handler
func NewHashtagHandler(hashtags socialcontent.HashtagService) *HashtagHandler {
	return &HashtagHandler{hashtags: hashtags}
}

// Routes returns the hashtag routes. Listing is public.
func (h *HashtagHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListHashtags)

	return r
}

// ListHashtags lists all hashtags ordered by trending score, localized
// to the caller's language where a translation exists.
func (h *HashtagHandler) ListHashtags(w http.ResponseWriter, r *http.Request) {
	hashtags, err := h.hashtags.GetAll(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	lang := LanguageFromContext(r.Context())
	payloads := make([]socialcontent.HashtagPayload, 0, len(hashtags))
	for _, hashtag := range hashtags {
		payloads = append(payloads, hashtag.PagePayload(lang))
	}

	renderSuccess(w, r, http.StatusOK, payloads)
}
