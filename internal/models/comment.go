package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a report
type Comment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	PostID         primitive.ObjectID `json:"post_id" bson:"post_id"`
	AuthorUID      string             `json:"author_uid" bson:"author_uid"`
	AuthorUsername string             `json:"author_username" bson:"author_username"`
	Content        string             `json:"content" bson:"content"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
