package rating

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RatingRepository interface {
		ApplyRating(ctx context.Context, donorID string, rating int) error
		GetDonorIDs(ctx context.Context) ([]string, error)
		GetFeedbackTotals(ctx context.Context) (map[string]domain.RatingTotals, error)
		SetRatingStats(ctx context.Context, donorID string, totals domain.RatingTotals) error
	}

	ratingRepository struct {
		db *gorm.DB
	}
)

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// ApplyRating folds one rating into the donor row in a single statement.
// SET expressions see the pre-update values, so the average is computed from
// the same snapshot as the new sum and count.
func (r *ratingRepository) ApplyRating(ctx context.Context, donorID string, rating int) error {
	res := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", donorID).
		UpdateColumns(map[string]interface{}{
			"rating_sum":     gorm.Expr("rating_sum + ?", rating),
			"total_ratings":  gorm.Expr("total_ratings + 1"),
			"average_rating": gorm.Expr("CAST(rating_sum + ? AS double precision) / (total_ratings + 1)", rating),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetDonorIDs returns every donor-type user plus any other user who owns a
// rated donation, so NGO-owned donations are rebuilt too.
func (r *ratingRepository) GetDonorIDs(ctx context.Context) ([]string, error) {
	rated := r.db.
		Model(&entities.Donation{}).
		Select("donor_id").
		Where("feedback_ngo_rating IS NOT NULL")

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("user_type IN ?", []string{domain.RoleIndividual, domain.RoleRestaurant}).
		Or("id IN (?)", rated).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	result := make([]string, 0, len(ids))
	for _, id := range ids {
		result = append(result, id.String())
	}
	return result, nil
}

func (r *ratingRepository) GetFeedbackTotals(ctx context.Context) (map[string]domain.RatingTotals, error) {
	var rows []struct {
		DonorID uuid.UUID
		Sum     int
		Count   int
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Select("donor_id, COALESCE(SUM(feedback_ngo_rating), 0) AS sum, COUNT(feedback_ngo_rating) AS count").
		Where("feedback_ngo_rating IS NOT NULL").
		Group("donor_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]domain.RatingTotals, len(rows))
	for _, row := range rows {
		totals[row.DonorID.String()] = domain.RatingTotals{Sum: row.Sum, Count: row.Count}
	}
	return totals, nil
}

func (r *ratingRepository) SetRatingStats(ctx context.Context, donorID string, totals domain.RatingTotals) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", donorID).
		UpdateColumns(map[string]interface{}{
			"rating_sum":     totals.Sum,
			"total_ratings":  totals.Count,
			"average_rating": totals.Average(),
		}).Error
}
