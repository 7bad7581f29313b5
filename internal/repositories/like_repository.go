package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/furs-app/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	ToggleLike(ctx context.Context, postID, userUID string) (bool, error)
	HasUserLikedPost(ctx context.Context, postID, userUID string) (bool, error)
	CountByPostID(ctx context.Context, postID string) (int64, error)
	DeleteByPostID(ctx context.Context, postID string) error
}

// MongoLikeRepository implements LikeRepository for MongoDB. The like marker
// and the denormalized counter on the post live in the same database so the
// toggle can run as one transaction.
type MongoLikeRepository struct {
	client *mongo.Client
	likes  *mongo.Collection
	posts  *mongo.Collection
}

// NewMongoLikeRepository creates a new MongoLikeRepository
func NewMongoLikeRepository(client *mongo.Client, db *mongo.Database) *MongoLikeRepository {
	return &MongoLikeRepository{
		client: client,
		likes:  db.Collection("likes"),
		posts:  db.Collection("posts"),
	}
}

// ToggleLike likes the post if the viewer has no like record, unlikes it
// otherwise. The like-record write and the counter increment commit
// together or not at all; a toggle pair always returns the counter to its
// starting value. Returns the resulting liked state.
func (r *MongoLikeRepository) ToggleLike(ctx context.Context, postID, userUID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post ID format: %w", err)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return false, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		filter := bson.M{"post_id": objID, "user_uid": userUID}

		var existing models.Like
		findErr := r.likes.FindOne(sc, filter).Decode(&existing)
		if findErr != nil && findErr != mongo.ErrNoDocuments {
			return nil, findErr
		}

		if findErr == mongo.ErrNoDocuments {
			like := models.Like{
				ID:        primitive.NewObjectID(),
				PostID:    objID,
				UserUID:   userUID,
				CreatedAt: time.Now(),
			}
			if _, err := r.likes.InsertOne(sc, like); err != nil {
				return nil, err
			}
			if _, err := r.posts.UpdateOne(sc, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"likes_count": 1}}); err != nil {
				return nil, err
			}
			return true, nil
		}

		if _, err := r.likes.DeleteOne(sc, filter); err != nil {
			return nil, err
		}
		if _, err := r.posts.UpdateOne(sc, bson.M{"_id": objID}, bson.M{"$inc": bson.M{"likes_count": -1}}); err != nil {
			return nil, err
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}

	return result.(bool), nil
}

// HasUserLikedPost checks whether a like record exists for the viewer.
// This is the per-item point-read the feed fan-out relies on.
func (r *MongoLikeRepository) HasUserLikedPost(ctx context.Context, postID, userUID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return false, fmt.Errorf("invalid post ID format: %w", err)
	}
	count, err := r.likes.CountDocuments(ctx, bson.M{"post_id": objID, "user_uid": userUID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPostID counts the like records for a report
func (r *MongoLikeRepository) CountByPostID(ctx context.Context, postID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return 0, fmt.Errorf("invalid post ID format: %w", err)
	}
	return r.likes.CountDocuments(ctx, bson.M{"post_id": objID})
}

// DeleteByPostID removes all like records for a report, used when the
// report itself is deleted
func (r *MongoLikeRepository) DeleteByPostID(ctx context.Context, postID string) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("invalid post ID format: %w", err)
	}
	_, err = r.likes.DeleteMany(ctx, bson.M{"post_id": objID})
	return err
}
