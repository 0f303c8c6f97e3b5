package user

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		IncrementDonationsCount(ctx context.Context, id string, delta int) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IncrementDonationsCount(ctx context.Context, id string, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		UpdateColumn("donations_count", gorm.Expr("donations_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func ToUserSummary(u *entities.User) domain.UserSummary {
	return domain.UserSummary{
		ID:                u.ID.String(),
		Name:              u.Name,
		UserType:          u.UserType,
		DonationsCount:    u.DonationsCount,
		TotalMoneyDonated: u.TotalMoneyDonated,
		RatingSum:         u.RatingSum,
		TotalRatings:      u.TotalRatings,
		AverageRating:     u.AverageRating,
	}
}
