package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post statuses. All reports live in one collection with a status field;
// the legacy per-status collections are a migration artifact.
const (
	StatusStrayAnimal = "Stray Animal"
	StatusLostPet     = "Lost Pet"
	StatusUnknown     = "Unknown"
)

// Location is an optional coordinate attached to a report
type Location struct {
	Lat      float64 `json:"lat" bson:"lat"`
	Lng      float64 `json:"lng" bson:"lng"`
	Landmark string  `json:"landmark,omitempty" bson:"landmark,omitempty"`
}

// Post represents an animal report stored in MongoDB
type Post struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorUID      string             `json:"author_uid" bson:"author_uid"` // Firebase UID of the reporter
	AuthorUsername string             `json:"author_username" bson:"author_username"`
	AuthorPhotoURL string             `json:"author_photo_url,omitempty" bson:"author_photo_url,omitempty"`
	Description    string             `json:"description" bson:"description"`
	PhotoURL       string             `json:"photo_url" bson:"photo_url"`
	Status         string             `json:"status" bson:"status"`
	AnimalType     string             `json:"animal_type,omitempty" bson:"animal_type,omitempty"`
	Breed          string             `json:"breed,omitempty" bson:"breed,omitempty"`
	CoatColor      string             `json:"coat_color,omitempty" bson:"coat_color,omitempty"`
	Location       *Location          `json:"location,omitempty" bson:"location,omitempty"`
	LikesCount     int                `json:"likes_count" bson:"likes_count"`
	CommentsCount  int                `json:"comments_count" bson:"comments_count"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for submitting a report. The
// photo upload happens client-side first; the resulting URL is required
// before any document write.
type CreatePostRequest struct {
	Description string    `json:"description" validate:"required,min=1,max=1000"`
	PhotoURL    string    `json:"photo_url" validate:"required,url"`
	Status      string    `json:"status" validate:"required,oneof='Stray Animal' 'Lost Pet' Unknown"`
	AnimalType  string    `json:"animal_type,omitempty" validate:"omitempty,max=50"`
	Breed       string    `json:"breed,omitempty" validate:"omitempty,max=50"`
	CoatColor   string    `json:"coat_color,omitempty" validate:"omitempty,max=50"`
	Location    *Location `json:"location,omitempty"`
}

// UpdatePostRequest defines the request body for editing an existing report
type UpdatePostRequest struct {
	Description string    `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	PhotoURL    string    `json:"photo_url,omitempty" validate:"omitempty,url"`
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof='Stray Animal' 'Lost Pet' Unknown"`
	AnimalType  string    `json:"animal_type,omitempty" validate:"omitempty,max=50"`
	Breed       string    `json:"breed,omitempty" validate:"omitempty,max=50"`
	CoatColor   string    `json:"coat_color,omitempty" validate:"omitempty,max=50"`
	Location    *Location `json:"location,omitempty"`
}
