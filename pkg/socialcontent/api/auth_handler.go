package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tendant/social-content/pkg/socialcontent"
)

// AuthHandler handles account lifecycle requests: guest creation,
// email registration, activation and login.
type AuthHandler struct {
	auth   socialcontent.AuthService
	issuer *TokenIssuer
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth socialcontent.AuthService, issuer *TokenIssuer) *AuthHandler {
	return &AuthHandler{auth: auth, issuer: issuer}
}

// CreateAccountBody is the request body for guest account creation.
type CreateAccountBody struct {
	Device            string `json:"device"`
	DeviceUUID        string `json:"device_uuid"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
}

// TokenPayload is returned whenever a credential is issued.
type TokenPayload struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccountID    string `json:"account_id"`
	UserID       string `json:"user_id"`
	Activated    bool   `json:"activated"`
}

func (h *AuthHandler) issueTokens(account *socialcontent.Account, user *socialcontent.User) (TokenPayload, error) {
	cred := socialcontent.Credential{
		AccountID:  account.ID,
		UserID:     user.ID,
		DeviceUUID: account.DeviceUUID,
	}
	access, err := h.issuer.Issue(cred)
	if err != nil {
		return TokenPayload{}, err
	}
	refresh, err := h.issuer.IssueRefresh(cred)
	if err != nil {
		return TokenPayload{}, err
	}
	return TokenPayload{
		AccessToken:  access,
		RefreshToken: refresh,
		AccountID:    account.ID.String(),
		UserID:       user.ID.String(),
		Activated:    account.Activated,
	}, nil
}

// CreateAccount creates a guest account with its personal user and
// issues a token for it.
func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var body CreateAccountBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	lang := body.PreferredLanguage
	if lang == "" {
		lang = LanguageFromContext(r.Context())
	}

	account, user, err := h.auth.CreateAccount(r.Context(), socialcontent.CreateAccountRequest{
		Device:            body.Device,
		DeviceUUID:        body.DeviceUUID,
		PreferredLanguage: lang,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	payload, err := h.issueTokens(account, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Guest account created", "account_id", account.ID.String())
	renderSuccess(w, r, http.StatusCreated, payload)
}

// RegisterBody is the request body for email registration.
type RegisterBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Username    string `json:"username"`
}

// Register upgrades the caller's guest account to an email account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	var body RegisterBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	account, err := h.auth.SignupByEmail(r.Context(), socialcontent.SignupByEmailRequest{
		AccountID:   cred.AccountID,
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Username:    body.Username,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Account registered", "account_id", account.ID.String())
	renderSuccess(w, r, http.StatusOK, map[string]interface{}{
		"account_id": account.ID.String(),
		"email":      account.Email,
		"activated":  account.Activated,
	})
}

// Verify activates the caller's account.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	cred, ok := CredentialFromContext(r.Context())
	if !ok {
		renderError(w, r, socialcontent.ErrInvalidCredential)
		return
	}

	account, err := h.auth.VerifyAccount(r.Context(), cred.AccountID)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Account verified", "account_id", account.ID.String())
	renderSuccess(w, r, http.StatusOK, map[string]interface{}{
		"account_id": account.ID.String(),
		"activated":  account.Activated,
	})
}

// LoginBody is the request body for email login.
type LoginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email and password and issues a fresh token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		renderError(w, r, &socialcontent.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	account, err := h.auth.Login(r.Context(), socialcontent.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}

	user, err := h.auth.GetUserFromCredential(r.Context(), socialcontent.Credential{AccountID: account.ID})
	if err != nil {
		renderError(w, r, err)
		return
	}

	payload, err := h.issueTokens(account, user)
	if err != nil {
		renderError(w, r, err)
		return
	}

	slog.Info("Login succeeded", "account_id", account.ID.String())
	renderSuccess(w, r, http.StatusOK, payload)
}
