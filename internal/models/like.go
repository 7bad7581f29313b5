package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like is an existence-only marker: one per (post, viewer) pair. Its
// presence is the source of truth for "is liked by viewer"; Post.LikesCount
// is the denormalized counter kept in the same transaction.
type Like struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"post_id" bson:"post_id"`
	UserUID   string             `json:"user_uid" bson:"user_uid"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
