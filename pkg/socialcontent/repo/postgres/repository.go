package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/social-content/pkg/socialcontent"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements socialcontent.Repository using PostgreSQL.
// Content payloads are stored as JSONB and decoded back through the
// variant registry on read.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) socialcontent.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) socialcontent.Repository {
	return &Repository{db: pool}
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "email") {
				return socialcontent.ErrEmailTaken
			}
			if strings.Contains(pgErr.ConstraintName, "username") {
				return socialcontent.ErrUsernameTaken
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return fmt.Errorf("referenced record not found")
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *socialcontent.Content) error {
	payload, err := json.Marshal(content.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	query := `
		INSERT INTO content (
			id, type, payload, author_id, author_type, revision, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.Exec(ctx, query,
		content.ID, string(content.Type), payload,
		content.Author.ID, string(content.Author.Type),
		content.Revision, content.CreatedAt, content.UpdatedAt)

	if err != nil {
		return r.handlePostgresError("create content", err)
	}

	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*socialcontent.Content, error) {
	query := `
		SELECT id, type, payload, author_id, author_type, revision, created_at, updated_at
		FROM content WHERE id = $1 AND deleted_at IS NULL`

	return r.scanContent(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) scanContent(row pgx.Row) (*socialcontent.Content, error) {
	var content socialcontent.Content
	var contentType, authorType string
	var rawPayload []byte

	err := row.Scan(
		&content.ID, &contentType, &rawPayload,
		&content.Author.ID, &authorType,
		&content.Revision, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, socialcontent.ErrContentNotFound
		}
		return nil, err
	}

	content.Type = socialcontent.ContentType(contentType)
	content.Author.Type = socialcontent.AuthorType(authorType)
	content.Payload, err = socialcontent.DecodePayload(content.Type, rawPayload)
	if err != nil {
		return nil, fmt.Errorf("decode stored payload for content %s: %w", content.ID, err)
	}

	return &content, nil
}

func (r *Repository) UpdateContent(ctx context.Context, content *socialcontent.Content) error {
	payload, err := json.Marshal(content.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	// Compare-and-set on revision; a zero row count means the record is
	// gone or another writer got there first.
	query := `
		UPDATE content SET
			type = $2, payload = $3, revision = $4, updated_at = $5
		WHERE id = $1 AND revision = $6 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query,
		content.ID, string(content.Type), payload,
		content.Revision, content.UpdatedAt, content.Revision-1)
	if err != nil {
		return r.handlePostgresError("update content", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetContent(ctx, content.ID); errors.Is(err, socialcontent.ErrContentNotFound) {
			return socialcontent.ErrContentNotFound
		}
		return socialcontent.ErrRevisionConflict
	}

	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE content SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return r.handlePostgresError("delete content", err)
	}
	if tag.RowsAffected() == 0 {
		return socialcontent.ErrContentNotFound
	}

	return nil
}

func (r *Repository) ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*socialcontent.Content, error) {
	query := `
		SELECT id, type, payload, author_id, author_type, revision, created_at, updated_at
		FROM content WHERE author_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, r.handlePostgresError("list content", err)
	}
	defer rows.Close()

	var result []*socialcontent.Content
	for rows.Next() {
		content, err := r.scanContent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, content)
	}

	return result, rows.Err()
}

// Account operations

func (r *Repository) CreateAccount(ctx context.Context, account *socialcontent.Account) error {
	query := `
		INSERT INTO account (
			id, email, password_hash, activated, preferred_language,
			device, device_uuid, created_at, updated_at
		) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		account.ID, strings.ToLower(account.Email), account.PasswordHash,
		account.Activated, account.PreferredLanguage,
		account.Device, account.DeviceUUID, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create account", err)
	}

	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*socialcontent.Account, error) {
	query := `
		SELECT id, COALESCE(email, ''), password_hash, activated, preferred_language,
		       device, device_uuid, created_at, updated_at
		FROM account WHERE id = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*socialcontent.Account, error) {
	query := `
		SELECT id, COALESCE(email, ''), password_hash, activated, preferred_language,
		       device, device_uuid, created_at, updated_at
		FROM account WHERE email = $1`

	return r.scanAccount(r.db.QueryRow(ctx, query, strings.ToLower(email)))
}

func (r *Repository) scanAccount(row pgx.Row) (*socialcontent.Account, error) {
	var account socialcontent.Account
	err := row.Scan(
		&account.ID, &account.Email, &account.PasswordHash, &account.Activated,
		&account.PreferredLanguage, &account.Device, &account.DeviceUUID,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, socialcontent.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdateAccount(ctx context.Context, account *socialcontent.Account) error {
	query := `
		UPDATE account SET
			email = NULLIF($2, ''), password_hash = $3, activated = $4,
			preferred_language = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		account.ID, strings.ToLower(account.Email), account.PasswordHash,
		account.Activated, account.PreferredLanguage, account.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return socialcontent.ErrAccountNotFound
	}

	return nil
}

// User and page operations

func (r *Repository) CreateUser(ctx context.Context, user *socialcontent.User) error {
	query := `
		INSERT INTO app_user (
			id, account_id, owner_account_id, type, display_name,
			username, avatar, cover, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.AccountID, user.OwnerAccountID, string(user.Type),
		user.DisplayName, strings.ToLower(user.Username),
		user.Avatar, user.Cover, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}

	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *socialcontent.User) error {
	query := `
		UPDATE app_user SET
			display_name = $2, username = NULLIF($3, ''), avatar = $4,
			cover = $5, updated_at = $6
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		user.ID, user.DisplayName, strings.ToLower(user.Username),
		user.Avatar, user.Cover, user.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return socialcontent.ErrUserNotFound
	}

	return nil
}

const userColumns = `id, account_id, owner_account_id, type, display_name,
		       COALESCE(username, ''), avatar, cover, created_at, updated_at`

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*socialcontent.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE id = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetUserByAccount(ctx context.Context, accountID uuid.UUID) (*socialcontent.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE account_id = $1 AND type = 'user'`
	return r.scanUser(r.db.QueryRow(ctx, query, accountID))
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*socialcontent.User, error) {
	query := `SELECT ` + userColumns + ` FROM app_user WHERE username = $1`
	return r.scanUser(r.db.QueryRow(ctx, query, strings.ToLower(username)))
}

func (r *Repository) scanUser(row pgx.Row) (*socialcontent.User, error) {
	var user socialcontent.User
	var userType string
	err := row.Scan(
		&user.ID, &user.AccountID, &user.OwnerAccountID, &userType,
		&user.DisplayName, &user.Username, &user.Avatar, &user.Cover,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, socialcontent.ErrUserNotFound
		}
		return nil, err
	}
	user.Type = socialcontent.AuthorType(userType)
	return &user, nil
}

func (r *Repository) ListPagesByOwner(ctx context.Context, accountID uuid.UUID) ([]*socialcontent.User, error) {
	query := `SELECT ` + userColumns + `
		FROM app_user WHERE owner_account_id = $1 AND type = 'page'
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, accountID)
	if err != nil {
		return nil, r.handlePostgresError("list pages", err)
	}
	defer rows.Close()

	var result []*socialcontent.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}

	return result, rows.Err()
}

// Hashtag operations

func (r *Repository) CreateHashtag(ctx context.Context, hashtag *socialcontent.Hashtag) error {
	localized, err := json.Marshal(hashtag.Localized)
	if err != nil {
		return fmt.Errorf("marshal localizations: %w", err)
	}

	query := `
		INSERT INTO hashtag (id, tag, score, localized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.Exec(ctx, query,
		hashtag.ID, hashtag.Tag, hashtag.Score, localized,
		hashtag.CreatedAt, hashtag.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create hashtag", err)
	}

	return nil
}

func (r *Repository) ListHashtags(ctx context.Context) ([]*socialcontent.Hashtag, error) {
	query := `
		SELECT id, tag, score, localized, created_at, updated_at
		FROM hashtag ORDER BY score DESC, tag`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list hashtags", err)
	}
	defer rows.Close()

	var result []*socialcontent.Hashtag
	for rows.Next() {
		var hashtag socialcontent.Hashtag
		var localized []byte
		if err := rows.Scan(&hashtag.ID, &hashtag.Tag, &hashtag.Score,
			&localized, &hashtag.CreatedAt, &hashtag.UpdatedAt); err != nil {
			return nil, err
		}
		if len(localized) > 0 {
			if err := json.Unmarshal(localized, &hashtag.Localized); err != nil {
				return nil, fmt.Errorf("decode localizations for hashtag %s: %w", hashtag.ID, err)
			}
		}
		result = append(result, &hashtag)
	}

	return result, rows.Err()
}
