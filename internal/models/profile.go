package models

import "gorm.io/gorm"

// Profile roles. An unrecognized value is treated as non-admin everywhere.
const (
	RoleCommunityVolunteer = "community_volunteer"
	RoleRescuer            = "rescuer"
	RoleAdmin              = "admin"
)

// Profile is the denormalized user record owned by this service. The
// identity record itself (email, password, verification state) lives in
// Firebase; Profile shares its id via FirebaseUID.
type Profile struct {
	gorm.Model       `json:"-"`
	ID               uint    `json:"id" gorm:"primaryKey"`
	FirebaseUID      string  `json:"firebase_uid" gorm:"uniqueIndex"`
	Username         string  `json:"username" gorm:"uniqueIndex"`
	Email            string  `json:"email" gorm:"uniqueIndex"`
	Role             string  `json:"role" gorm:"type:varchar(30);default:'community_volunteer'"`
	ProfilePhotoURL  string  `json:"profile_photo_url"`
	Description      string  `json:"description"`
	TotalRatingSum   float64 `json:"total_rating_sum" gorm:"default:0"`
	TotalRatingCount int64   `json:"total_rating_count" gorm:"default:0"`
	Disabled         bool    `json:"disabled" gorm:"default:false"`
}

// AverageRating returns the mean rating and whether any rating exists.
func (p *Profile) AverageRating() (float64, bool) {
	if p.TotalRatingCount == 0 {
		return 0, false
	}
	return p.TotalRatingSum / float64(p.TotalRatingCount), true
}

// IsAdmin reports whether the profile carries the admin role. Any value
// outside the known role set counts as non-admin.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// ProfileCompact is the subset embedded in enriched responses
type ProfileCompact struct {
	FirebaseUID     string `json:"firebase_uid"`
	Username        string `json:"username"`
	ProfilePhotoURL string `json:"profile_photo_url"`
	Role            string `json:"role"`
}

func (p *Profile) ToCompact() ProfileCompact {
	return ProfileCompact{
		FirebaseUID:     p.FirebaseUID,
		Username:        p.Username,
		ProfilePhotoURL: p.ProfilePhotoURL,
		Role:            p.Role,
	}
}

// UpdateProfileRequest defines the request body for editing one's own profile
type UpdateProfileRequest struct {
	Username        string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	ProfilePhotoURL string `json:"profile_photo_url,omitempty" validate:"omitempty,url"`
	Description     string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// RateUserRequest defines the request body for rating another user
type RateUserRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

// SetRoleRequest defines the admin request body for changing a user's role
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=community_volunteer rescuer admin"`
}

// SetDisabledRequest defines the admin request body for disabling an account
type SetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}
