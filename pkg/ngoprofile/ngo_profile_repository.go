package ngoprofile

import (
	"ahaar-backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	NGOProfileRepository interface {
		CreateProfile(ctx context.Context, profile *entities.NGOProfile) error
		GetProfileByID(ctx context.Context, id string) (*entities.NGOProfile, error)
		GetProfileByNGO(ctx context.Context, ngoID string) (*entities.NGOProfile, error)
		ListProfiles(ctx context.Context, page, limit int) ([]*entities.NGOProfile, int64, error)
		GetNeed(ctx context.Context, profileID string, needID string) (*entities.NGONeed, error)
		AddNeed(ctx context.Context, need *entities.NGONeed) error
		RemoveNeed(ctx context.Context, profileID string, needID string) (bool, error)
	}

	ngoProfileRepository struct {
		db *gorm.DB
	}
)

func NewNGOProfileRepository(db *gorm.DB) NGOProfileRepository {
	return &ngoProfileRepository{db: db}
}

func orderedNeeds(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *ngoProfileRepository) CreateProfile(ctx context.Context, profile *entities.NGOProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *ngoProfileRepository) GetProfileByID(ctx context.Context, id string) (*entities.NGOProfile, error) {
	var profile entities.NGOProfile
	if err := r.db.WithContext(ctx).
		Preload("Needs", orderedNeeds).
		Where("id = ?", id).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ngoProfileRepository) GetProfileByNGO(ctx context.Context, ngoID string) (*entities.NGOProfile, error) {
	var profile entities.NGOProfile
	if err := r.db.WithContext(ctx).
		Preload("Needs", orderedNeeds).
		Where("ngo_id = ?", ngoID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ngoProfileRepository) ListProfiles(ctx context.Context, page, limit int) ([]*entities.NGOProfile, int64, error) {
	var profiles []*entities.NGOProfile
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.NGOProfile{}).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Needs", orderedNeeds).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, 0, err
	}

	return profiles, count, nil
}

func (r *ngoProfileRepository) GetNeed(ctx context.Context, profileID string, needID string) (*entities.NGONeed, error) {
	var need entities.NGONeed
	if err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", needID, profileID).
		First(&need).Error; err != nil {
		return nil, err
	}
	return &need, nil
}

// AddNeed appends the need after the profile's current last position.
func (r *ngoProfileRepository) AddNeed(ctx context.Context, need *entities.NGONeed) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&entities.NGONeed{}).
			Select("COALESCE(MAX(position), 0)").
			Where("profile_id = ?", need.ProfileID).
			Scan(&last).Error; err != nil {
			return err
		}
		need.Position = last + 1
		return tx.Create(need).Error
	})
}

func (r *ngoProfileRepository) RemoveNeed(ctx context.Context, profileID string, needID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", needID, profileID).
		Delete(&entities.NGONeed{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
