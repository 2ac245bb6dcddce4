// Package mongo implements socialcontent.Repository on a MongoDB
// document store. Content payloads are stored as raw JSON alongside
// their type tag and decoded through the variant registry on read.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tendant/social-content/pkg/socialcontent"
)

const (
	contentCollection = "contents"
	accountCollection = "accounts"
	userCollection    = "users"
	hashtagCollection = "hashtags"
)

// Repository implements socialcontent.Repository using MongoDB
type Repository struct {
	db *mongo.Database
}

// Connect dials MongoDB and returns a repository bound to the named
// database.
func Connect(ctx context.Context, uri, database string) (*Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return New(client.Database(database)), nil
}

// New creates a repository on an existing database handle.
func New(db *mongo.Database) *Repository {
	return &Repository{db: db}
}

// Close disconnects the underlying client.
func (r *Repository) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}

// contentDoc is the stored shape of a content record. Payload is kept
// as JSON text so the document round-trips through the payload variant
// decoder unchanged.
type contentDoc struct {
	ID         string     `bson:"_id"`
	Type       string     `bson:"type"`
	Payload    string     `bson:"payload"`
	AuthorID   string     `bson:"author_id"`
	AuthorType string     `bson:"author_type"`
	Revision   int        `bson:"revision"`
	CreatedAt  time.Time  `bson:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty"`
}

func toContentDoc(content *socialcontent.Content) (*contentDoc, error) {
	payload, err := encodePayload(content.Payload)
	if err != nil {
		return nil, err
	}
	return &contentDoc{
		ID:         content.ID.String(),
		Type:       string(content.Type),
		Payload:    payload,
		AuthorID:   content.Author.ID.String(),
		AuthorType: string(content.Author.Type),
		Revision:   content.Revision,
		CreatedAt:  content.CreatedAt,
		UpdatedAt:  content.UpdatedAt,
		DeletedAt:  content.DeletedAt,
	}, nil
}

func (d *contentDoc) toContent() (*socialcontent.Content, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid content id %q: %w", d.ID, err)
	}
	authorID, err := uuid.Parse(d.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("invalid author id %q: %w", d.AuthorID, err)
	}
	contentType := socialcontent.ContentType(d.Type)
	payload, err := socialcontent.DecodePayload(contentType, []byte(d.Payload))
	if err != nil {
		return nil, fmt.Errorf("decode stored payload for content %s: %w", d.ID, err)
	}

	return &socialcontent.Content{
		ID:      id,
		Type:    contentType,
		Payload: payload,
		Author: socialcontent.Author{
			ID:   authorID,
			Type: socialcontent.AuthorType(d.AuthorType),
		},
		Revision:  d.Revision,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		DeletedAt: d.DeletedAt,
	}, nil
}

// Content operations

func (r *Repository) CreateContent(ctx context.Context, content *socialcontent.Content) error {
	doc, err := toContentDoc(content)
	if err != nil {
		return err
	}
	if _, err := r.db.Collection(contentCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	return nil
}

func (r *Repository) GetContent(ctx context.Context, id uuid.UUID) (*socialcontent.Content, error) {
	filter := bson.M{"_id": id.String(), "deleted_at": nil}

	var doc contentDoc
	err := r.db.Collection(contentCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, socialcontent.ErrContentNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return doc.toContent()
}

func (r *Repository) UpdateContent(ctx context.Context, content *socialcontent.Content) error {
	doc, err := toContentDoc(content)
	if err != nil {
		return err
	}

	// Compare-and-set on the previous revision.
	filter := bson.M{
		"_id":        doc.ID,
		"revision":   content.Revision - 1,
		"deleted_at": nil,
	}
	update := bson.M{"$set": bson.M{
		"type":       doc.Type,
		"payload":    doc.Payload,
		"revision":   doc.Revision,
		"updated_at": doc.UpdatedAt,
	}}

	result, err := r.db.Collection(contentCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetContent(ctx, content.ID); errors.Is(err, socialcontent.ErrContentNotFound) {
			return socialcontent.ErrContentNotFound
		}
		return socialcontent.ErrRevisionConflict
	}
	return nil
}

func (r *Repository) DeleteContent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": id.String(), "deleted_at": nil}
	update := bson.M{"$set": bson.M{"deleted_at": now, "updated_at": now}}

	result, err := r.db.Collection(contentCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if result.MatchedCount == 0 {
		return socialcontent.ErrContentNotFound
	}
	return nil
}

func (r *Repository) ListContentByAuthor(ctx context.Context, authorID uuid.UUID) ([]*socialcontent.Content, error) {
	filter := bson.M{"author_id": authorID.String(), "deleted_at": nil}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(contentCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list content: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*socialcontent.Content
	for cursor.Next(ctx) {
		var doc contentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		content, err := doc.toContent()
		if err != nil {
			return nil, err
		}
		result = append(result, content)
	}

	return result, cursor.Err()
}

// Account operations

type accountDoc struct {
	ID                string    `bson:"_id"`
	Email             string    `bson:"email,omitempty"`
	PasswordHash      string    `bson:"password_hash,omitempty"`
	Activated         bool      `bson:"activated"`
	PreferredLanguage string    `bson:"preferred_language,omitempty"`
	Device            string    `bson:"device,omitempty"`
	DeviceUUID        string    `bson:"device_uuid,omitempty"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d *accountDoc) toAccount() (*socialcontent.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", d.ID, err)
	}
	return &socialcontent.Account{
		ID:                id,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Activated:         d.Activated,
		PreferredLanguage: d.PreferredLanguage,
		Device:            d.Device,
		DeviceUUID:        d.DeviceUUID,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}

func toAccountDoc(account *socialcontent.Account) *accountDoc {
	return &accountDoc{
		ID:                account.ID.String(),
		Email:             strings.ToLower(account.Email),
		PasswordHash:      account.PasswordHash,
		Activated:         account.Activated,
		PreferredLanguage: account.PreferredLanguage,
		Device:            account.Device,
		DeviceUUID:        account.DeviceUUID,
		CreatedAt:         account.CreatedAt,
		UpdatedAt:         account.UpdatedAt,
	}
}

func (r *Repository) CreateAccount(ctx context.Context, account *socialcontent.Account) error {
	if _, err := r.db.Collection(accountCollection).InsertOne(ctx, toAccountDoc(account)); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, id uuid.UUID) (*socialcontent.Account, error) {
	return r.findAccount(ctx, bson.M{"_id": id.String()})
}

func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*socialcontent.Account, error) {
	return r.findAccount(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *Repository) findAccount(ctx context.Context, filter bson.M) (*socialcontent.Account, error) {
	var doc accountDoc
	err := r.db.Collection(accountCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, socialcontent.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toAccount()
}

func (r *Repository) UpdateAccount(ctx context.Context, account *socialcontent.Account) error {
	doc := toAccountDoc(account)
	result, err := r.db.Collection(accountCollection).ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if result.MatchedCount == 0 {
		return socialcontent.ErrAccountNotFound
	}
	return nil
}

// User and page operations

type userDoc struct {
	ID             string    `bson:"_id"`
	AccountID      string    `bson:"account_id"`
	OwnerAccountID string    `bson:"owner_account_id,omitempty"`
	Type           string    `bson:"type"`
	DisplayName    string    `bson:"display_name,omitempty"`
	Username       string    `bson:"username,omitempty"`
	Avatar         string    `bson:"avatar,omitempty"`
	Cover          string    `bson:"cover,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (d *userDoc) toUser() (*socialcontent.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	accountID, err := uuid.Parse(d.AccountID)
	if err != nil {
		return nil, fmt.Errorf("invalid account id %q: %w", d.AccountID, err)
	}
	user := &socialcontent.User{
		ID:          id,
		AccountID:   accountID,
		Type:        socialcontent.AuthorType(d.Type),
		DisplayName: d.DisplayName,
		Username:    d.Username,
		Avatar:      d.Avatar,
		Cover:       d.Cover,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.OwnerAccountID != "" {
		owner, err := uuid.Parse(d.OwnerAccountID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner account id %q: %w", d.OwnerAccountID, err)
		}
		user.OwnerAccountID = owner
	}
	return user, nil
}

func toUserDoc(user *socialcontent.User) *userDoc {
	doc := &userDoc{
		ID:          user.ID.String(),
		AccountID:   user.AccountID.String(),
		Type:        string(user.Type),
		DisplayName: user.DisplayName,
		Username:    strings.ToLower(user.Username),
		Avatar:      user.Avatar,
		Cover:       user.Cover,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if user.OwnerAccountID != uuid.Nil {
		doc.OwnerAccountID = user.OwnerAccountID.String()
	}
	return doc
}

func (r *Repository) CreateUser(ctx context.Context, user *socialcontent.User) error {
	if _, err := r.db.Collection(userCollection).InsertOne(ctx, toUserDoc(user)); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, user *socialcontent.User) error {
	doc := toUserDoc(user)
	result, err := r.db.Collection(userCollection).ReplaceOne(ctx,
		bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return socialcontent.ErrUserNotFound
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*socialcontent.User, error) {
	return r.findUser(ctx, bson.M{"_id": id.String()})
}

func (r *Repository) GetUserByAccount(ctx context.Context, accountID uuid.UUID) (*socialcontent.User, error) {
	return r.findUser(ctx, bson.M{"account_id": accountID.String(), "type": "user"})
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*socialcontent.User, error) {
	return r.findUser(ctx, bson.M{"username": strings.ToLower(username)})
}

func (r *Repository) findUser(ctx context.Context, filter bson.M) (*socialcontent.User, error) {
	var doc userDoc
	err := r.db.Collection(userCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, socialcontent.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser()
}

func (r *Repository) ListPagesByOwner(ctx context.Context, accountID uuid.UUID) ([]*socialcontent.User, error) {
	filter := bson.M{"owner_account_id": accountID.String(), "type": "page"}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.db.Collection(userCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*socialcontent.User
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		user, err := doc.toUser()
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}

	return result, cursor.Err()
}

// Hashtag operations

type hashtagDoc struct {
	ID        string            `bson:"_id"`
	Tag       string            `bson:"tag"`
	Score     float64           `bson:"score"`
	Localized map[string]string `bson:"localized,omitempty"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func (r *Repository) CreateHashtag(ctx context.Context, hashtag *socialcontent.Hashtag) error {
	doc := &hashtagDoc{
		ID:        hashtag.ID.String(),
		Tag:       hashtag.Tag,
		Score:     hashtag.Score,
		Localized: hashtag.Localized,
		CreatedAt: hashtag.CreatedAt,
		UpdatedAt: hashtag.UpdatedAt,
	}
	if _, err := r.db.Collection(hashtagCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert hashtag: %w", err)
	}
	return nil
}

func (r *Repository) ListHashtags(ctx context.Context) ([]*socialcontent.Hashtag, error) {
	opts := options.Find().SetSort(bson.D{{Key: "score", Value: -1}, {Key: "tag", Value: 1}})

	cursor, err := r.db.Collection(hashtagCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list hashtags: %w", err)
	}
	defer cursor.Close(ctx)

	var result []*socialcontent.Hashtag
	for cursor.Next(ctx) {
		var doc hashtagDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode hashtag: %w", err)
		}
		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid hashtag id %q: %w", doc.ID, err)
		}
		result = append(result, &socialcontent.Hashtag{
			ID:        id,
			Tag:       doc.Tag,
			Score:     doc.Score,
			Localized: doc.Localized,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}

	return result, cursor.Err()
}

func encodePayload(payload socialcontent.Payload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(raw), nil
}
