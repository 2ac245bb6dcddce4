package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/social-content/pkg/socialcontent"
)

// Repository implements socialcontent.Repository using in-memory storage
type Repository struct {
	mu              sync.RWMutex
	contents        map[uuid.UUID]*socialcontent.Content
	accounts        map[uuid.UUID]*socialcontent.Account
	accountsByEmail map[string]uuid.UUID
	users           map[uuid.UUID]*socialcontent.User
	usersByName     map[string]uuid.UUID
	hashtags        map[uuid.UUID]*socialcontent.Hashtag
}

// New creates a new in-memory repository
func New() socialcontent.Repository {
	return &Repository{
		contents:        make(map[uuid.UUID]*socialcontent.Content),
		accounts:        make(map[uuid.UUID]*socialcontent.Account),
		accountsByEmail: make(map[string]uuid.UUID),
		users:           make(map[uuid.UUID]*socialcontent.User),
		usersByName:     make(map[string]uuid.UUID),
		hashtags:        make(map[uuid.UUID]*socialcontent.Hashtag),
	}
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *socialcontent.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Create a copy to avoid external modifications
	contentCopy := *content
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*socialcontent.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.contents[id]
	if !exists {
		return nil, socialcontent.ErrContentNotFound
	}
	if content.DeletedAt != nil {
		return nil, socialcontent.ErrContentNotFound
	}

	contentCopy := *content
	return &contentCopy, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *socialcontent.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.contents[content.ID]
	if !exists || stored.DeletedAt != nil {
		return socialcontent.ErrContentNotFound
	}
	if stored.Revision != content.Revision-1 {
		return socialcontent.ErrRevisionConflict
	}

	contentCopy := *content
	r.contents[content.ID] = &contentCopy

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	content, exists := r.contents[id]
	if !exists || content.DeletedAt != nil {
		return socialcontent.ErrContentNotFound
	}

	now := time.Now().UTC()
	content.DeletedAt = &now
	content.UpdatedAt = now
	return nil
}

func (r *Repository) ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*socialcontent.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*socialcontent.Content
	for _, content := range r.contents {
		if content.Author.ID == authorID && content.DeletedAt == nil {
			contentCopy := *content
			result = append(result, &contentCopy)
		}
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// Account operations

func (r *Repository) CreateAccount(ctx context.Context, account *socialcontent.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	accountCopy := *account
	r.accounts[account.ID] = &accountCopy
	if account.Email != "" {
		r.accountsByEmail[strings.ToLower(account.Email)] = account.ID
	}

	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*socialcontent.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, socialcontent.ErrAccountNotFound
	}

	accountCopy := *account
	return &accountCopy, nil
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*socialcontent.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.accountsByEmail[strings.ToLower(email)]
	if !exists {
		return nil, socialcontent.ErrAccountNotFound
	}
	accountCopy := *r.accounts[id]
	return &accountCopy, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account *socialcontent.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.accounts[account.ID]
	if !exists {
		return socialcontent.ErrAccountNotFound
	}
	if stored.Email != "" && stored.Email != account.Email {
		delete(r.accountsByEmail, strings.ToLower(stored.Email))
	}

	accountCopy := *account
	r.accounts[account.ID] = &accountCopy
	if account.Email != "" {
		r.accountsByEmail[strings.ToLower(account.Email)] = account.ID
	}

	return nil
}

// User and page operations

func (r *Repository) CreateUser(ctx context.Context, user *socialcontent.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userCopy := *user
	r.users[user.ID] = &userCopy
	if user.Username != "" {
		r.usersByName[strings.ToLower(user.Username)] = user.ID
	}

	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *socialcontent.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.users[user.ID]
	if !exists {
		return socialcontent.ErrUserNotFound
	}
	if stored.Username != "" && stored.Username != user.Username {
		delete(r.usersByName, strings.ToLower(stored.Username))
	}

	userCopy := *user
	r.users[user.ID] = &userCopy
	if user.Username != "" {
		r.usersByName[strings.ToLower(user.Username)] = user.ID
	}

	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*socialcontent.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, socialcontent.ErrUserNotFound
	}

	userCopy := *user
	return &userCopy, nil
}

func (r *Repository) GetUserByAccount(ctx context.Context, accountID uuid.UUID) (*socialcontent.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.AccountID == accountID && user.Type == socialcontent.AuthorTypeUser {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, socialcontent.ErrUserNotFound
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*socialcontent.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usersByName[strings.ToLower(username)]
	if !exists {
		return nil, socialcontent.ErrUserNotFound
	}
	userCopy := *r.users[id]
	return &userCopy, nil
}

func (r *Repository) ListPagesByOwner(ctx context.Context, accountID uuid.UUID) ([]*socialcontent.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*socialcontent.User
	for _, user := range r.users {
		if user.Type == socialcontent.AuthorTypePage && user.OwnerAccountID == accountID {
			userCopy := *user
			result = append(result, &userCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// Hashtag operations

func (r *Repository) CreateHashtag(ctx context.Context, hashtag *socialcontent.Hashtag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	hashtagCopy := *hashtag
	r.hashtags[hashtag.ID] = &hashtagCopy

	return nil
}

func (r *Repository) ListHashtags(ctx context.Context) ([]*socialcontent.Hashtag, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*socialcontent.Hashtag
	for _, hashtag := range r.hashtags {
		hashtagCopy := *hashtag
		result = append(result, &hashtagCopy)
	}

	// Highest score first, tag as tiebreaker for stable listings.
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Tag < result[j].Tag
	})

	return result, nil
}
