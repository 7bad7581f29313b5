package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/furs-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository defines the interface for report data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorUID string, skip, limit int64) ([]models.Post, error)
	GetPostsByStatus(ctx context.Context, status string, skip, limit int64) ([]models.Post, error)
	GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	UpdatePost(ctx context.Context, id string, post *models.Post) error
	DeletePost(ctx context.Context, id string) error
	IncrementCommentsCount(ctx context.Context, postID string, delta int) error
	WatchPosts(ctx context.Context, limit int64) (<-chan []models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB. All reports
// live in the single "posts" collection; status is a field, not a
// collection name.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// Collection exposes the underlying collection for transactional callers
func (r *MongoPostRepository) Collection() *mongo.Collection {
	return r.collection
}

// CreatePost creates a new report in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a report by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid post ID format: %w", err)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("post not found")
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthor retrieves reports by a specific user from MongoDB
func (r *MongoPostRepository) GetPostsByAuthor(ctx context.Context, authorUID string, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"author_uid": authorUID}, skip, limit)
}

// GetPostsByStatus retrieves reports with a given status from MongoDB
func (r *MongoPostRepository) GetPostsByStatus(ctx context.Context, status string, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{"status": status}, skip, limit)
}

// GetAllPosts retrieves all reports from MongoDB with pagination
func (r *MongoPostRepository) GetAllPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	return r.find(ctx, bson.M{}, skip, limit)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost updates an existing report in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, id string, post *models.Post) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"description": post.Description,
			"photo_url":   post.PhotoURL,
			"status":      post.Status,
			"animal_type": post.AnimalType,
			"breed":       post.Breed,
			"coat_color":  post.CoatColor,
			"location":    post.Location,
			"updated_at":  post.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

// DeletePost deletes a report by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

// IncrementCommentsCount adjusts the comments count of a report
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"comments_count": delta}})
	return err
}

// WatchPosts opens a change stream on the posts collection and delivers the
// newest full result set after every change, most recent first. Snapshots
// are coalesced: if the consumer lags, intermediate snapshots are dropped
// and only the latest is delivered. The channel closes when ctx is
// cancelled or the stream dies.
func (r *MongoPostRepository) WatchPosts(ctx context.Context, limit int64) (<-chan []models.Post, error) {
	stream, err := r.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream: %w", err)
	}

	ch := make(chan []models.Post, 1)
	go func() {
		defer close(ch)
		defer stream.Close(context.Background())

		if !r.deliver(ctx, ch, limit) {
			return
		}

		for stream.Next(ctx) {
			if !r.deliver(ctx, ch, limit) {
				return
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("post change stream closed: %v", err)
		}
	}()

	return ch, nil
}

func (r *MongoPostRepository) deliver(ctx context.Context, ch chan []models.Post, limit int64) bool {
	posts, err := r.GetAllPosts(ctx, 0, limit)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("failed to re-query posts for snapshot: %v", err)
		}
		return ctx.Err() == nil
	}

	// Drop a pending stale snapshot so the consumer always sees the latest.
	select {
	case <-ch:
	default:
	}

	select {
	case ch <- posts:
		return true
	case <-ctx.Done():
		return false
	}
}
