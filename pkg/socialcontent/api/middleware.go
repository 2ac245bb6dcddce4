// Package api exposes the HTTP surface of the social content service:
// chi routers, JWT credential handling, and response envelopes.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/social-content/pkg/socialcontent"
)

type contextKey string

const (
	credentialKey contextKey = "credential"
	languageKey   contextKey = "language"
)

const defaultLanguage = "en"

// Envelope is the standard success body: a fixed message plus the
// operation payload.
type Envelope struct {
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
}

func renderSuccess(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	render.Status(r, status)
	render.JSON(w, r, Envelope{Message: "success message", Payload: payload})
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Message string `json:"message"`
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case socialcontent.IsValidationError(err),
		errors.Is(err, socialcontent.ErrEmailTaken),
		errors.Is(err, socialcontent.ErrUsernameTaken):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, socialcontent.ErrInvalidCredential),
		errors.Is(err, socialcontent.ErrAccountNotActivated):
		status = http.StatusUnauthorized
		message = err.Error()
	case socialcontent.IsAuthorizationError(err):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, socialcontent.ErrContentNotFound),
		errors.Is(err, socialcontent.ErrAccountNotFound),
		errors.Is(err, socialcontent.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, socialcontent.ErrRevisionConflict):
		status = http.StatusConflict
		message = err.Error()
	default:
		slog.Error("Request failed", "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Message: message})
}

// TokenIssuer mints access and refresh tokens carrying a credential.
type TokenIssuer struct {
	auth          *jwtauth.JWTAuth
	expiry        time.Duration
	refreshExpiry time.Duration
}

// NewTokenIssuer creates an issuer. A zero expiry defaults to one hour
// for access tokens and thirty days for refresh tokens.
func NewTokenIssuer(auth *jwtauth.JWTAuth, expiry, refreshExpiry time.Duration) *TokenIssuer {
	if expiry <= 0 {
		expiry = time.Hour
	}
	if refreshExpiry <= 0 {
		refreshExpiry = 30 * 24 * time.Hour
	}
	return &TokenIssuer{auth: auth, expiry: expiry, refreshExpiry: refreshExpiry}
}

// Issue encodes the credential into a signed access token string.
func (ti *TokenIssuer) Issue(cred socialcontent.Credential) (string, error) {
	return ti.encode(cred, "access", ti.expiry)
}

// IssueRefresh encodes the credential into a long-lived refresh token.
func (ti *TokenIssuer) IssueRefresh(cred socialcontent.Credential) (string, error) {
	return ti.encode(cred, "refresh", ti.refreshExpiry)
}

func (ti *TokenIssuer) encode(cred socialcontent.Credential, kind string, expiry time.Duration) (string, error) {
	claims := map[string]interface{}{
		"account_id":  cred.AccountID.String(),
		"user_id":     cred.UserID.String(),
		"device_uuid": cred.DeviceUUID,
		"token_type":  kind,
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiryIn(claims, expiry)

	_, tokenString, err := ti.auth.Encode(claims)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// CredentialResolver verifies the bearer token and stores the decoded
// credential in the request context. Requests without a valid token are
// rejected before the handler runs.
func CredentialResolver(auth *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	verifier := jwtauth.Verifier(auth)
	return func(next http.Handler) http.Handler {
		resolve := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				renderError(w, r, socialcontent.ErrInvalidCredential)
				return
			}

			cred, err := credentialFromClaims(claims)
			if err != nil {
				slog.Warn("Malformed token claims", "error", err)
				renderError(w, r, socialcontent.ErrInvalidCredential)
				return
			}

			ctx := context.WithValue(r.Context(), credentialKey, cred)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return verifier(resolve)
	}
}

func credentialFromClaims(claims map[string]interface{}) (socialcontent.Credential, error) {
	var cred socialcontent.Credential

	accountStr, ok := claims["account_id"].(string)
	if !ok {
		return cred, errors.New("missing account_id claim")
	}
	accountID, err := uuid.Parse(accountStr)
	if err != nil {
		return cred, err
	}

	userStr, ok := claims["user_id"].(string)
	if !ok {
		return cred, errors.New("missing user_id claim")
	}
	userID, err := uuid.Parse(userStr)
	if err != nil {
		return cred, err
	}

	cred.AccountID = accountID
	cred.UserID = userID
	if device, ok := claims["device_uuid"].(string); ok {
		cred.DeviceUUID = device
	}
	return cred, nil
}

// CredentialFromContext returns the credential resolved by
// CredentialResolver, or false when the request was unauthenticated.
func CredentialFromContext(ctx context.Context) (socialcontent.Credential, bool) {
	cred, ok := ctx.Value(credentialKey).(socialcontent.Credential)
	return cred, ok
}

// LanguageResolver stores the preferred language from Accept-Language
// in the request context. Only the primary tag is kept.
func LanguageResolver(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := primaryLanguage(r.Header.Get("Accept-Language"))
		ctx := context.WithValue(r.Context(), languageKey, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LanguageFromContext returns the resolved language, defaulting to "en".
func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(languageKey).(string); ok && lang != "" {
		return lang
	}
	return defaultLanguage
}

func primaryLanguage(header string) string {
	if header == "" {
		return defaultLanguage
	}
	// "th-TH,th;q=0.9,en;q=0.8" -> "th"
	lang := header
	for i := 0; i < len(lang); i++ {
		switch lang[i] {
		case ',', ';', '-':
			return lang[:i]
		}
	}
	return lang
}
