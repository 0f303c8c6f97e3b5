package donation

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		GetDonationByID(ctx context.Context, id string) (*entities.Donation, error)
		GetAvailableDonations(ctx context.Context, now time.Time, page, limit int) ([]*entities.Donation, int64, error)
		GetDonorDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error)
		GetClaimedDonations(ctx context.Context, claimerID string, page, limit int) ([]*entities.Donation, int64, error)
		GetDonorFeedback(ctx context.Context, donorID string) ([]*entities.Donation, error)
		UpdateDonation(ctx context.Context, id string, donorID string, updates map[string]interface{}) (bool, error)
		DeleteDonation(ctx context.Context, id string, donorID string) (bool, error)

		// Conditional transitions. The bool result is false when the row was
		// not in the required state at write time.
		ClaimDonation(ctx context.Context, id string, claimerID string, claimerName string, at time.Time) (bool, error)
		CompleteDonation(ctx context.Context, id string, at time.Time) (bool, error)
		AttachFeedback(ctx context.Context, id string, claimerID string, feedback entities.DonationFeedback) (bool, error)
		ToggleLike(ctx context.Context, id string, userID string) (bool, int, error)
		ExpireDonations(ctx context.Context, now time.Time) (int64, error)
		RecountLikes(ctx context.Context) (int64, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	var donation entities.Donation
	if err := r.db.WithContext(ctx).
		Preload("LikedBy", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *donationRepository) GetAvailableDonations(ctx context.Context, now time.Time, page, limit int) ([]*entities.Donation, int64, error) {
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB {
		return db.
			Where("status = ?", domain.DonationStatusAvailable).
			Where("expiry_date IS NULL OR expiry_date > ?", now)
	})
}

func (r *donationRepository) GetDonorDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error) {
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("donor_id = ?", donorID)
	})
}

func (r *donationRepository) GetClaimedDonations(ctx context.Context, claimerID string, page, limit int) ([]*entities.Donation, int64, error) {
	return r.paginate(ctx, page, limit, func(db *gorm.DB) *gorm.DB {
		return db.Where("claimer_id = ?", claimerID)
	})
}

func (r *donationRepository) paginate(ctx context.Context, page, limit int, scope func(*gorm.DB) *gorm.DB) ([]*entities.Donation, int64, error) {
	var donations []*entities.Donation
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("LikedBy", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

func (r *donationRepository) GetDonorFeedback(ctx context.Context, donorID string) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Where("donor_id = ? AND feedback_ngo_rating IS NOT NULL", donorID).
		Order("feedback_date DESC").
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) UpdateDonation(ctx context.Context, id string, donorID string, updates map[string]interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND donor_id = ? AND status = ?", id, donorID, domain.DonationStatusAvailable).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *donationRepository) DeleteDonation(ctx context.Context, id string, donorID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND donor_id = ? AND status = ?", id, donorID, domain.DonationStatusAvailable).
		Delete(&entities.Donation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *donationRepository) ClaimDonation(ctx context.Context, id string, claimerID string, claimerName string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND status = ? AND donor_id <> ?", id, domain.DonationStatusAvailable, claimerID).
		Where("expiry_date IS NULL OR expiry_date > ?", at).
		Updates(map[string]interface{}{
			"status":       domain.DonationStatusClaimed,
			"claimer_id":   claimerID,
			"claimer_name": claimerName,
			"claimed_at":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *donationRepository) CompleteDonation(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND status = ?", id, domain.DonationStatusClaimed).
		Updates(map[string]interface{}{
			"status":       domain.DonationStatusCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *donationRepository) AttachFeedback(ctx context.Context, id string, claimerID string, feedback entities.DonationFeedback) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ? AND claimer_id = ? AND feedback_ngo_rating IS NULL", id, claimerID).
		Where("status IN ?", []string{domain.DonationStatusClaimed, domain.DonationStatusCompleted}).
		Updates(map[string]interface{}{
			"feedback_ngo_rating":  feedback.NGORating,
			"feedback_ngo_comment": feedback.NGOComment,
			"feedback_date":        feedback.FeedbackDate,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ToggleLike flips the user's membership in the donation's like set and moves
// the counter by the number of rows that actually changed, all in one
// transaction. It returns the new membership and the new counter.
func (r *donationRepository) ToggleLike(ctx context.Context, id string, userID string) (bool, int, error) {
	donationUUID, err := uuid.Parse(id)
	if err != nil {
		return false, 0, err
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return false, 0, err
	}

	var liked bool
	var likes int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		like := &entities.DonationLike{
			ID:         uuid.New(),
			DonationID: donationUUID,
			UserID:     userUUID,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if res.Error != nil {
			return res.Error
		}

		delta := int64(1)
		liked = true
		if res.RowsAffected == 0 {
			res = tx.Where("donation_id = ? AND user_id = ?", donationUUID, userUUID).Delete(&entities.DonationLike{})
			if res.Error != nil {
				return res.Error
			}
			delta = -res.RowsAffected
			liked = false
		}

		if delta != 0 {
			if err := tx.Model(&entities.Donation{}).
				Where("id = ?", donationUUID).
				UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error; err != nil {
				return err
			}
		}

		return tx.Model(&entities.Donation{}).
			Select("likes").
			Where("id = ?", donationUUID).
			Scan(&likes).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likes, nil
}

func (r *donationRepository) ExpireDonations(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("status = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", domain.DonationStatusAvailable, now).
		Update("status", domain.DonationStatusExpired)
	return res.RowsAffected, res.Error
}

// RecountLikes rewrites every counter that drifted from its like set and
// returns how many donations were corrected.
func (r *donationRepository) RecountLikes(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE donations
		SET likes = counted.total
		FROM (
			SELECT d.id, COUNT(l.id) AS total
			FROM donations d
			LEFT JOIN donation_likes l ON l.donation_id = d.id
			GROUP BY d.id
		) AS counted
		WHERE donations.id = counted.id AND donations.likes <> counted.total
	`)
	return res.RowsAffected, res.Error
}
