package rating

import (
	"ahaar-backend/domain"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	RatingService interface {
		ApplyRating(ctx context.Context, donorID string, rating int) error
		RecalculateAll(ctx context.Context) (*domain.RecalculateResult, error)
	}

	ratingService struct {
		ratingRepository RatingRepository
		log              logrus.FieldLogger
	}
)

func NewRatingService(ratingRepository RatingRepository, log logrus.FieldLogger) RatingService {
	return &ratingService{
		ratingRepository: ratingRepository,
		log:              log,
	}
}

func (s *ratingService) ApplyRating(ctx context.Context, donorID string, rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.ErrInvalidRating
	}
	if _, err := uuid.Parse(donorID); err != nil {
		return domain.ErrParseUUID
	}

	if err := s.ratingRepository.ApplyRating(ctx, donorID, rating); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

// RecalculateAll rebuilds every donor's rating statistics from the feedback
// stored on donations. Donors without feedback are reset to zero.
func (s *ratingService) RecalculateAll(ctx context.Context) (*domain.RecalculateResult, error) {
	donorIDs, err := s.ratingRepository.GetDonorIDs(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.ratingRepository.GetFeedbackTotals(ctx)
	if err != nil {
		return nil, err
	}

	for _, donorID := range donorIDs {
		if err := s.ratingRepository.SetRatingStats(ctx, donorID, totals[donorID]); err != nil {
			return nil, err
		}
	}

	s.log.WithField("donors", len(donorIDs)).Info("donor ratings recalculated")
	return &domain.RecalculateResult{Donors: len(donorIDs)}, nil
}
