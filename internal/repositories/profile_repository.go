package repositories

import (
	"github.com/furs-app/backend/internal/models"
	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	CreateProfile(profile *models.Profile) error
	GetProfileByUID(firebaseUID string) (*models.Profile, error)
	GetProfileByUsername(username string) (*models.Profile, error)
	GetProfiles() ([]models.Profile, error)
	UpdateProfile(profile *models.Profile) error
	DeleteProfile(firebaseUID string) error
	SearchProfiles(query string) ([]models.Profile, error)
	SetRole(firebaseUID, role string) error
	SetDisabled(firebaseUID string, disabled bool) error
	AddRating(firebaseUID string, rating float64) error
	ResetRating(firebaseUID string) error
}

// PostgresProfileRepository implements ProfileRepository for PostgreSQL
type PostgresProfileRepository struct {
	db *gorm.DB
}

// NewPostgresProfileRepository creates a new PostgresProfileRepository
func NewPostgresProfileRepository(db *gorm.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// CreateProfile creates a new profile in PostgreSQL
func (r *PostgresProfileRepository) CreateProfile(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// GetProfileByUID retrieves a profile by Firebase UID from PostgreSQL
func (r *PostgresProfileRepository) GetProfileByUID(firebaseUID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfileByUsername retrieves a profile by username from PostgreSQL
func (r *PostgresProfileRepository) GetProfileByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetProfiles retrieves all profiles from PostgreSQL
func (r *PostgresProfileRepository) GetProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfile updates an existing profile in PostgreSQL
func (r *PostgresProfileRepository) UpdateProfile(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

// DeleteProfile hard-deletes a profile. Only reachable through explicit
// admin action; normal user deletion leaves the profile in place.
func (r *PostgresProfileRepository) DeleteProfile(firebaseUID string) error {
	return r.db.Unscoped().Where("firebase_uid = ?", firebaseUID).Delete(&models.Profile{}).Error
}

// SearchProfiles searches profiles by username substring
func (r *PostgresProfileRepository) SearchProfiles(query string) ([]models.Profile, error) {
	var profiles []models.Profile
	if err := r.db.Where("username ILIKE ?", "%"+query+"%").Limit(20).Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// SetRole updates the role of a profile
func (r *PostgresProfileRepository) SetRole(firebaseUID, role string) error {
	return r.db.Model(&models.Profile{}).Where("firebase_uid = ?", firebaseUID).
		Update("role", role).Error
}

// SetDisabled flips the disabled flag of a profile
func (r *PostgresProfileRepository) SetDisabled(firebaseUID string, disabled bool) error {
	return r.db.Model(&models.Profile{}).Where("firebase_uid = ?", firebaseUID).
		Update("disabled", disabled).Error
}

// AddRating adds a rating to the running sum and count in a single UPDATE,
// so concurrent raters never lose increments.
func (r *PostgresProfileRepository) AddRating(firebaseUID string, rating float64) error {
	return r.db.Model(&models.Profile{}).Where("firebase_uid = ?", firebaseUID).
		Updates(map[string]interface{}{
			"total_rating_sum":   gorm.Expr("total_rating_sum + ?", rating),
			"total_rating_count": gorm.Expr("total_rating_count + 1"),
		}).Error
}

// ResetRating zeroes the rating aggregate of a profile
func (r *PostgresProfileRepository) ResetRating(firebaseUID string) error {
	return r.db.Model(&models.Profile{}).Where("firebase_uid = ?", firebaseUID).
		Updates(map[string]interface{}{
			"total_rating_sum":   0,
			"total_rating_count": 0,
		}).Error
}
