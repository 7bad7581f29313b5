package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationRating  = "rating"
)

// Notification represents a user notification stored in MongoDB. Created by
// the action that triggers it; only the read flag is mutated afterwards.
type Notification struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	RecipientUID    string             `json:"recipient_uid" bson:"recipient_uid"`
	Type            string             `json:"type" bson:"type"` // like, comment, rating
	SenderUID       string             `json:"sender_uid" bson:"sender_uid"`
	SenderName      string             `json:"sender_name" bson:"sender_name"`
	SenderPhotoURL  string             `json:"sender_photo_url,omitempty" bson:"sender_photo_url,omitempty"`
	Read            bool               `json:"read" bson:"read"`
	PostID          string             `json:"post_id,omitempty" bson:"post_id,omitempty"`
	Rating          float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
}
