package socialcontent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/social-content/pkg/password"
)

// authService implements AuthService on top of a Repository.
type authService struct {
	repository Repository
	now        func() time.Time
}

// NewAuthService creates an AuthService backed by repo.
func NewAuthService(repo Repository) AuthService {
	return &authService{
		repository: repo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateAccount registers a guest account for a device and creates its
// personal user. The user starts without a display name; signup fills
// it in.
func (s *authService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*Account, *User, error) {
	if req.DeviceUUID == "" {
		return nil, nil, &ValidationError{Field: "device_uuid", Reason: "is required"}
	}

	now := s.now()
	account := &Account{
		ID:                uuid.New(),
		Device:            req.Device,
		DeviceUUID:        req.DeviceUUID,
		PreferredLanguage: req.PreferredLanguage,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repository.CreateAccount(ctx, account); err != nil {
		return nil, nil, fmt.Errorf("create account: %w", err)
	}

	user := &User{
		ID:        uuid.New(),
		AccountID: account.ID,
		Type:      AuthorTypeUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user for account %s: %w", account.ID, err)
	}

	return account, user, nil
}

// SignupByEmail attaches an email identity to an existing guest account
// and names its personal user.
func (s *authService) SignupByEmail(ctx context.Context, req SignupByEmailRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if req.Username == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}

	hash, err := password.Create(req.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Reason: err.Error()}
	}

	if _, err := s.repository.GetAccountByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, err
	}
	if _, err := s.repository.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	account, err := s.repository.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	account.Email = email
	account.PasswordHash = hash
	account.UpdatedAt = s.now()
	if err := s.repository.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("update account %s: %w", account.ID, err)
	}

	user, err := s.repository.GetUserByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	user.DisplayName = req.DisplayName
	user.Username = req.Username
	user.UpdatedAt = s.now()
	if err := s.repository.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", user.ID, err)
	}

	return account, nil
}

// VerifyAccount marks an account as activated.
func (s *authService) VerifyAccount(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	account, err := s.repository.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.Activated = true
	account.UpdatedAt = s.now()
	if err := s.repository.UpdateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("update account %s: %w", account.ID, err)
	}
	return account, nil
}

// Login checks an email/password pair against the stored hash.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*Account, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.repository.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if !password.Verify(req.Password, account.PasswordHash) {
		return nil, ErrInvalidCredential
	}
	if !account.Activated {
		return nil, ErrAccountNotActivated
	}
	return account, nil
}

// GetUserFromCredential resolves the personal user of the credential's
// account.
func (s *authService) GetUserFromCredential(ctx context.Context, cred Credential) (*User, error) {
	return s.repository.GetUserByAccount(ctx, cred.AccountID)
}

// userService implements UserService on top of a Repository.
type userService struct {
	repository Repository
	now        func() time.Time
}

// NewUserService creates a UserService backed by repo.
func NewUserService(repo Repository) UserService {
	return &userService{
		repository: repo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repository.GetUser(ctx, id)
}

// CreatePageFromCredential creates a page identity owned by the
// credential's account.
func (s *userService) CreatePageFromCredential(ctx context.Context, cred Credential, req CreatePageRequest) (*User, error) {
	if req.Username == "" {
		return nil, &ValidationError{Field: "username", Reason: "is required"}
	}
	if req.DisplayName == "" {
		return nil, &ValidationError{Field: "display_name", Reason: "is required"}
	}
	if _, err := s.repository.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	now := s.now()
	page := &User{
		ID:             uuid.New(),
		AccountID:      cred.AccountID,
		OwnerAccountID: cred.AccountID,
		Type:           AuthorTypePage,
		DisplayName:    req.DisplayName,
		Username:       req.Username,
		Avatar:         req.Avatar,
		Cover:          req.Cover,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repository.CreateUser(ctx, page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *userService) ListPages(ctx context.Context, cred Credential) ([]*User, error) {
	return s.repository.ListPagesByOwner(ctx, cred.AccountID)
}

// CanActAs implements the author-as entitlement: the caller's own
// identity, or a page owned by the caller's account.
func (s *userService) CanActAs(ctx context.Context, cred Credential, author Author) (bool, error) {
	if author.ID == cred.UserID {
		return true, nil
	}
	user, err := s.repository.GetUser(ctx, author.ID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.Type == AuthorTypePage && user.OwnerAccountID == cred.AccountID, nil
}
