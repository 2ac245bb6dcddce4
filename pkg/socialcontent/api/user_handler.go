package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tendant/social-content/pkg/socialcontent"
)

// UserHandler handles user profile and page requests.
type UserHandler struct {
	users socialcontent.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users socialcontent.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// PageRoutes returns the authenticated page routes.
func (h *UserHandler) PageRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreatePage)
	r.Get("/", h.ListPages)

	return r
}

// UserPayload is the response body for a user or page profile.
type UserPayload struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	DisplayName string    `json:"display_name"`
	Username    string    `json:"username,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserPayload(user *socialcontent.User) UserPayload {
	return UserPayload{
		ID:          user.ID.String(),
		Type:        string(user.Type),
		DisplayName: user.DisplayName,
		Username:    user.Username,
		Avatar:      user.Avatar,
		Cover:       user.Cover,
		CreatedAt:   user.CreatedAt,
	}
}

// GetUser retrieves a user or page profile. No token required.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	renderSuccess(w, r, http.StatusOK, toUserPayload(user))
}

// CreatePageBody is the request body for creating a page.
type CreatePageBody struct {
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar,omitempty"`
	Cover       string `json:"cover,omitempty"`
}

// CreatePage creates a page owned by the caller's account.
func (h *UserHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	var body CreatePageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	page, err := h.users.CreatePageFromCredential(r.Context(), cred, socialcontent.CreatePageRequest{
		DisplayName: body.DisplayName,
		Username:    body.Username,
		Avatar:      body.Avatar,
		Cover:       body.Cover,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Page created", "page_id", page.ID.String(), "account_id", cred.AccountID.String())
	renderSuccess(w, r, http.StatusCreated, toUserPayload(page))
}

// ListPages lists the pages owned by the caller's account.
func (h *UserHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	pages, err := h.users.ListPages(r.Context(), cred)
	if err != nil {
		renderError(w, r, err)
		return
	}

	payloads := make([]UserPayload, 0, len(pages))
	for _, page := range pages {
		payloads = append(payloads, toUserPayload(page))
	}

	renderSuccess(w, r, http.StatusOK, payloads)
}
