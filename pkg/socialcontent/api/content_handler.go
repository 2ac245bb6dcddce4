package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tendant/social-content/pkg/socialcontent"
)

// ContentHandler handles HTTP requests for content
type ContentHandler struct {
	service socialcontent.Service
	users   socialcontent.UserService
}

// NewContentHandler creates a new content handler
func NewContentHandler(service socialcontent.Service, users socialcontent.UserService) *ContentHandler {
	return &ContentHandler{
		service: service,
		users:   users,
	}
}

// ContentRequest is the request body for creating or updating content.
// Payload is decoded according to Type.
type ContentRequest struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	AuthorID string          `json:"author_id,omitempty"`
}

// CreateContent creates a new content authored by the caller or one of
// the caller's pages.
func (h *ContentHandler) CreateContent(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	author, err := h.resolveAuthor(r, cred, req.AuthorID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	payload, err := socialcontent.DecodePayload(socialcontent.ContentType(req.Type), req.Payload)
	if err != nil {
		renderError(w, r, err)
		return
	}

	content, err := h.service.CreateContent(r.Context(), socialcontent.CreateContentRequest{
		Type:    socialcontent.ContentType(req.Type),
		Payload: payload,
		Author:  socialcontent.Author{ID: author.ID, Type: author.Type},
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Content created", "content_id", content.ID.String(), "author_id", author.ID.String())
	renderSuccess(w, r, http.StatusCreated, content.PagePayload(author, LanguageFromContext(r.Context())))
}

// GetContent retrieves a content by ID. No token required.
func (h *ContentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	content, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	author, err := h.users.GetUser(r.Context(), content.Author.ID)
	if err != nil {
		slog.Warn("Author lookup failed", "content_id", id.String(), "author_id", content.Author.ID.String())
		author = nil
	}

	renderSuccess(w, r, http.StatusOK, content.PagePayload(author, LanguageFromContext(r.Context())))
}

// UpdateContent replaces the payload of an existing content. Only the
// author, or the owner of an authoring page, may update.
func (h *ContentHandler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	existing, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.authorize(r, cred, existing.Author); err != nil {
		renderError(w, r, err)
		return
	}

	contentType := existing.Type
	if req.Type != "" {
		contentType = socialcontent.ContentType(req.Type)
	}
	payload, err := socialcontent.DecodePayload(contentType, req.Payload)
	if err != nil {
		renderError(w, r, err)
		return
	}

	expected := 0
	if header := r.Header.Get("If-Match"); header != "" {
		expected, err = parseRevision(header)
		if err != nil {
			renderError(w, r, err)
			return
		}
	}

	content, err := h.service.UpdateContent(r.Context(), socialcontent.UpdateContentRequest{
		ID:               id,
		Type:             contentType,
		Payload:          payload,
		ExpectedRevision: expected,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	author, err := h.users.GetUser(r.Context(), content.Author.ID)
	if err != nil {
		author = nil
	}

	slog.Info("Content updated", "content_id", id.String(), "revision", content.Revision)
	renderSuccess(w, r, http.StatusOK, content.PagePayload(author, LanguageFromContext(r.Context())))
}

// DeleteContent soft-deletes a content by ID.
func (h *ContentHandler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	existing, err := h.service.GetContent(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.authorize(r, cred, existing.Author); err != nil {
		renderError(w, r, err)
		return
	}

	if err := h.service.DeleteContent(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Content deleted", "content_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

// ListUserContents lists contents authored by a user or page, newest
// first. No token required.
func (h *ContentHandler) ListUserContents(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	author, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	contents, err := h.service.ListContentByAuthor(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	lang := LanguageFromContext(r.Context())
	payloads := make([]socialcontent.ContentPayload, 0, len(contents))
	for _, content := range contents {
		payloads = append(payloads, content.PagePayload(author, lang))
	}

	renderSuccess(w, r, http.StatusOK, payloads)
}

func (h *ContentHandler) resolveAuthor(r *http.Request, cred socialcontent.Credential, authorID string) (*socialcontent.User, error) {
	target := cred.UserID
	if authorID != "" {
		parsed, err := uuid.Parse(authorID)
		if err != nil {
			return nil, &socialcontent.ValidationError{Field: "author_id", Reason: "must be a UUID"}
		}
		target = parsed
	}

	author, err := h.users.GetUser(r.Context(), target)
	if err != nil {
		return nil, err
	}

	if err := h.authorize(r, cred, socialcontent.Author{ID: author.ID, Type: author.Type}); err != nil {
		return nil, err
	}
	return author, nil
}

func (h *ContentHandler) authorize(r *http.Request, cred socialcontent.Credential, author socialcontent.Author) error {
	allowed, err := h.users.CanActAs(r.Context(), cred, author)
	if err != nil {
		return err
	}
	if !allowed {
		return &socialcontent.AuthorizationError{Reason: "caller may not act as this author"}
	}
	return nil
}

func parseID(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, &socialcontent.ValidationError{Field: "id", Reason: "must be a UUID"}
	}
	return id, nil
}

func parseRevision(header string) (int, error) {
	rev := 0
	for i := 0; i < len(header); i++ {
		c := header[i]
		if c < '0' || c > '9' {
			return 0, &socialcontent.ValidationError{Field: "If-Match", Reason: "must be a revision number"}
		}
		rev = rev*10 + int(c-'0')
	}
	if rev == 0 {
		return 0, &socialcontent.ValidationError{Field: "If-Match", Reason: "must be a revision number"}
	}
	return rev, nil
}
