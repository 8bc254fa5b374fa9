package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/inkpost/inkpost/internal/model"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// MongoStore is the document-store backend.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	posts  *mongo.Collection
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Name      string             `bson:"name"`
	IsAdmin   bool               `bson:"isAdmin"`
	Bio       *string            `bson:"bio,omitempty"`
	AvatarURL *string            `bson:"avatar_url,omitempty"`
	Location  *string            `bson:"location,omitempty"`
	Website   *string            `bson:"website,omitempty"`
	JoinedAt  time.Time          `bson:"joined_at"`
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Title     string             `bson:"title"`
	Body      string             `bson:"body"`
	AuthorID  string             `bson:"author_id"`
	Excerpt   string             `bson:"excerpt"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures
// indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &MongoStore{
		client: client,
		users:  db.Collection(usersCollection),
		posts:  db.Collection(postsCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}

	_, err = s.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}, Options: options.Index().SetName("posts_created_at")},
		{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}, Options: options.Index().SetName("posts_author_created_at")},
	})
	if err != nil {
		return fmt.Errorf("failed to create posts indexes: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *MongoStore) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.client.Disconnect(ctx)
}

// CreateUser inserts a new user. The unique email index closes the
// check-then-insert race at signup.
func (s *MongoStore) CreateUser(ctx context.Context, user *model.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", model.ErrInvalidID)
	}

	doc := userDocument{
		ID:        oid,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
		Location:  user.Location,
		Website:   user.Website,
		JoinedAt:  user.JoinedAt,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

// GetUserByEmail retrieves a user by exact email.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*model.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return doc.toModel(), nil
}

// GetUsersByIDs resolves many authors in a single query.
func (s *MongoStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*model.User, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	out := make(map[string]*model.User, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	cursor, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for i := range docs {
		user := docs[i].toModel()
		out[user.ID] = user
	}
	return out, nil
}

// UpdateUser sets the given profile fields and returns the updated user.
func (s *MongoStore) UpdateUser(ctx context.Context, id string, update model.ProfileUpdate) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if len(set) == 0 {
		return s.GetUserByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return doc.toModel(), nil
}

// CreatePost inserts a new post.
func (s *MongoStore) CreatePost(ctx context.Context, post *model.Post) error {
	oid, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", model.ErrInvalidID)
	}

	doc := postDocument{
		ID:        oid,
		Title:     post.Title,
		Body:      post.Body,
		AuthorID:  post.AuthorID,
		Excerpt:   post.Excerpt,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post by ID.
func (s *MongoStore) GetPostByID(ctx context.Context, id string) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var doc postDocument
	if err := s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return doc.toModel(), nil
}

// ListPosts returns all posts, newest first.
func (s *MongoStore) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

// ListPostsByAuthor returns the author's posts, newest first.
func (s *MongoStore) ListPostsByAuthor(ctx context.Context, authorID string) ([]*model.Post, error) {
	return s.findPosts(ctx, bson.M{"author_id": authorID})
}

func (s *MongoStore) findPosts(ctx context.Context, filter bson.M) ([]*model.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*model.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

// UpdatePost sets the given fields and returns the updated post.
func (s *MongoStore) UpdatePost(ctx context.Context, id string, update model.PostUpdate, updatedAt time.Time) (*model.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	set := bson.M{"updated_at": updatedAt}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Body != nil {
		set["body"] = *update.Body
	}
	if update.Excerpt != nil {
		set["excerpt"] = *update.Excerpt
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDocument
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return doc.toModel(), nil
}

// DeletePost removes a post.
func (s *MongoStore) DeletePost(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		IsAdmin:      d.IsAdmin,
		Bio:          d.Bio,
		AvatarURL:    d.AvatarURL,
		Location:     d.Location,
		Website:      d.Website,
		JoinedAt:     d.JoinedAt.UTC(),
	}
}

func (d *postDocument) toModel() *model.Post {
	return &model.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Body:      d.Body,
		AuthorID:  d.AuthorID,
		Excerpt:   d.Excerpt,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}
