package donation

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"ahaar-backend/internal/metrics"
	"ahaar-backend/internal/utils/storage"
	"ahaar-backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var expiryLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

type (
	DonationService interface {
		CreateDonation(ctx context.Context, req domain.CreateDonationRequest, donorID string) (*domain.Donation, error)
		GetDonationByID(ctx context.Context, id string) (*domain.Donation, error)
		ListAvailable(ctx context.Context, page, limit int) ([]*domain.Donation, int64, error)
		GetMyDonations(ctx context.Context, donorID string, page, limit int) ([]*domain.Donation, int64, error)
		GetClaimedDonations(ctx context.Context, claimerID string, page, limit int) ([]*domain.Donation, int64, error)
		GetDonorProfile(ctx context.Context, donorID string) (*domain.DonorProfile, error)
		UpdateDonation(ctx context.Context, id string, req domain.UpdateDonationRequest, userID string) (*domain.Donation, error)
		DeleteDonation(ctx context.Context, id string, userID string) error

		ClaimDonation(ctx context.Context, id string, claimerID string, claimerName string) (*domain.Donation, error)
		CompleteDonation(ctx context.Context, id string, userID string) (*domain.Donation, error)
		SubmitFeedback(ctx context.Context, id string, userID string, req domain.SubmitFeedbackRequest) (*domain.Donation, error)
		ToggleLike(ctx context.Context, id string, userID string) (*domain.LikeResult, error)

		SweepExpired(ctx context.Context) (int64, error)
		RecountLikes(ctx context.Context) (int64, error)
	}

	// Notifier and RatingApplier are the secondary effects of a transition.
	Notifier interface {
		Emit(ctx context.Context, userID string, notificationType string, title string, message string, data domain.NotificationData) error
	}

	RatingApplier interface {
		ApplyRating(ctx context.Context, donorID string, rating int) error
	}

	Option func(*donationService)

	donationService struct {
		donationRepository DonationRepository
		userRepository     user.UserRepository
		notifier           Notifier
		rater              RatingApplier
		s3                 storage.AwsS3
		log                logrus.FieldLogger
		now                func() time.Time
	}
)

func WithClock(now func() time.Time) Option {
	return func(s *donationService) {
		s.now = now
	}
}

func NewDonationService(
	donationRepository DonationRepository,
	userRepository user.UserRepository,
	notifier Notifier,
	rater RatingApplier,
	s3 storage.AwsS3,
	log logrus.FieldLogger,
	opts ...Option,
) DonationService {
	s := &donationService{
		donationRepository: donationRepository,
		userRepository:     userRepository,
		notifier:           notifier,
		rater:              rater,
		s3:                 s3,
		log:                log,
		now:                time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *donationService) CreateDonation(ctx context.Context, req domain.CreateDonationRequest, donorID string) (*domain.Donation, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donor, err := s.userRepository.GetUserByID(ctx, donorUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if donor.UserType == domain.RoleAdmin {
		return nil, domain.ErrDonorCannotDonate
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	quantity := strings.TrimSpace(req.Quantity)
	location := strings.TrimSpace(req.Location)
	if title == "" || description == "" || quantity == "" || location == "" || req.Category == "" {
		return nil, domain.ErrMissingDonationField
	}
	if !domain.IsValidCategory(req.Category) {
		return nil, domain.ErrInvalidCategory
	}

	var expiryDate *time.Time
	if req.ExpiryDate != "" {
		expiryDate, err = s.parseExpiry(req.ExpiryDate)
		if err != nil {
			return nil, err
		}
	}

	donationID := uuid.New()

	var imageURL string
	if req.Image != nil {
		if s.s3 == nil {
			s.log.WithField("donation_id", donationID.String()).Warn("image upload skipped, object storage is not configured")
		} else {
			objectKey, err := s.s3.UploadFile(
				fmt.Sprintf("donation-%s", donationID.String()),
				req.Image,
				"donations",
				storage.AllowImage...,
			)
			if err != nil {
				return nil, err
			}
			imageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	donation := &entities.Donation{
		ID:                 donationID,
		DonorID:            donor.ID,
		DonorName:          donor.Name,
		DonorType:          donor.UserType,
		Title:              title,
		Description:        description,
		Category:           req.Category,
		Quantity:           quantity,
		Location:           location,
		ExpiryDate:         expiryDate,
		PickupInstructions: req.PickupInstructions,
		ContactPhone:       req.ContactPhone,
		ImageURL:           imageURL,
		Status:             domain.DonationStatusAvailable,
	}
	if err := s.donationRepository.CreateDonation(ctx, donation); err != nil {
		return nil, err
	}

	metrics.RecordTransition(domain.DonationStatusAvailable)
	s.log.WithFields(logrus.Fields{
		"donation_id": donationID.String(),
		"donor_id":    donorID,
		"category":    req.Category,
	}).Info("donation created")

	return toDomainDonation(donation), nil
}

func (s *donationService) GetDonationByID(ctx context.Context, id string) (*domain.Donation, error) {
	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainDonation(donation), nil
}

// ListAvailable sweeps first so that the listing never shows a donation whose
// expiry has passed. The query filters on time as well, so a failed sweep
// only delays the status change.
func (s *donationService) ListAvailable(ctx context.Context, page, limit int) ([]*domain.Donation, int64, error) {
	if _, err := s.SweepExpired(ctx); err != nil {
		s.sideEffectFailed("sweep_expired", "", err)
	}

	donations, count, err := s.donationRepository.GetAvailableDonations(ctx, s.now(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDomainDonations(donations), count, nil
}

func (s *donationService) GetMyDonations(ctx context.Context, donorID string, page, limit int) ([]*domain.Donation, int64, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	donations, count, err := s.donationRepository.GetDonorDonations(ctx, donorUUID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDomainDonations(donations), count, nil
}

func (s *donationService) GetClaimedDonations(ctx context.Context, claimerID string, page, limit int) ([]*domain.Donation, int64, error) {
	claimerUUID, err := uuid.Parse(claimerID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	donations, count, err := s.donationRepository.GetClaimedDonations(ctx, claimerUUID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDomainDonations(donations), count, nil
}

func (s *donationService) GetDonorProfile(ctx context.Context, donorID string) (*domain.DonorProfile, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donor, err := s.userRepository.GetUserByID(ctx, donorUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	donations, err := s.donationRepository.GetDonorFeedback(ctx, donorUUID.String())
	if err != nil {
		return nil, err
	}

	history := make([]domain.FeedbackEntry, 0, len(donations))
	for _, d := range donations {
		if d.Feedback.NGORating == nil {
			continue
		}
		entry := domain.FeedbackEntry{
			DonationID:    d.ID.String(),
			DonationTitle: d.Title,
			ClaimerName:   d.ClaimerName,
			Rating:        *d.Feedback.NGORating,
			Comment:       d.Feedback.NGOComment,
			FeedbackDate:  d.Feedback.FeedbackDate,
		}
		if d.ClaimerID != nil {
			entry.ClaimerID = d.ClaimerID.String()
		}
		history = append(history, entry)
	}

	return &domain.DonorProfile{
		Donor:           user.ToUserSummary(donor),
		FeedbackHistory: history,
	}, nil
}

func (s *donationService) UpdateDonation(ctx context.Context, id string, req domain.UpdateDonationRequest, userID string) (*domain.Donation, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation.DonorID != userUUID {
		return nil, domain.ErrUnauthorizedDonationAccess
	}
	if donation.Status != domain.DonationStatusAvailable {
		return nil, domain.ErrDonationNotEditable
	}

	updates, err := s.buildUpdates(req)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return toDomainDonation(donation), nil
	}

	ok, err := s.donationRepository.UpdateDonation(ctx, donation.ID.String(), userUUID.String(), updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.classifyOwnerMiss(ctx, donation.ID.String())
	}

	updated, err := s.findDonation(ctx, donation.ID.String())
	if err != nil {
		return nil, err
	}
	return toDomainDonation(updated), nil
}

func (s *donationService) DeleteDonation(ctx context.Context, id string, userID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return err
	}
	if donation.DonorID != userUUID {
		return domain.ErrUnauthorizedDonationAccess
	}
	if donation.Status != domain.DonationStatusAvailable {
		return domain.ErrDonationNotEditable
	}

	ok, err := s.donationRepository.DeleteDonation(ctx, donation.ID.String(), userUUID.String())
	if err != nil {
		return err
	}
	if !ok {
		return s.classifyOwnerMiss(ctx, donation.ID.String())
	}

	s.log.WithField("donation_id", donation.ID.String()).Info("donation deleted")
	return nil
}

func (s *donationService) ClaimDonation(ctx context.Context, id string, claimerID string, claimerName string) (*domain.Donation, error) {
	claimerUUID, err := uuid.Parse(claimerID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	if donation.DonorID == claimerUUID {
		return nil, domain.ErrSelfClaim
	}

	now := s.now()
	if donation.Status != domain.DonationStatusAvailable || isExpired(donation, now) {
		return nil, domain.ErrDonationNotAvailable
	}

	claimerName = strings.TrimSpace(claimerName)
	if claimerName == "" {
		claimer, err := s.userRepository.GetUserByID(ctx, claimerUUID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrUserNotFound
			}
			return nil, err
		}
		claimerName = claimer.Name
	}

	ok, err := s.donationRepository.ClaimDonation(ctx, donation.ID.String(), claimerUUID.String(), claimerName, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.findDonation(ctx, donation.ID.String()); err != nil {
			return nil, err
		}
		return nil, domain.ErrDonationNotAvailable
	}

	donation.Status = domain.DonationStatusClaimed
	donation.ClaimerID = &claimerUUID
	donation.ClaimerName = claimerName
	donation.ClaimedAt = &now
	metrics.RecordTransition(domain.DonationStatusClaimed)

	s.log.WithFields(logrus.Fields{
		"donation_id": donation.ID.String(),
		"claimer_id":  claimerUUID.String(),
	}).Info("donation claimed")

	if err := s.notifier.Emit(ctx, donation.DonorID.String(), domain.NotificationDonationClaimed,
		"Donation claimed",
		fmt.Sprintf("%s has claimed your donation: %s", claimerName, donation.Title),
		domain.NotificationData{
			DonationID:  donation.ID.String(),
			ClaimerID:   claimerUUID.String(),
			ClaimerName: claimerName,
		}); err != nil {
		s.sideEffectFailed("notify_donation_claimed", donation.ID.String(), err)
	}

	if err := s.userRepository.IncrementDonationsCount(ctx, donation.DonorID.String(), 1); err != nil {
		s.sideEffectFailed("increment_donations_count", donation.ID.String(), err)
	}

	return toDomainDonation(donation), nil
}

// CompleteDonation may be invoked by either side of a claim. The other side
// is notified.
func (s *donationService) CompleteDonation(ctx context.Context, id string, userID string) (*domain.Donation, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	isDonor := donation.DonorID == userUUID
	isClaimer := donation.ClaimerID != nil && *donation.ClaimerID == userUUID
	if !isDonor && !isClaimer {
		return nil, domain.ErrUnauthorizedDonationAccess
	}
	if donation.Status != domain.DonationStatusClaimed {
		return nil, domain.ErrDonationNotClaimed
	}

	now := s.now()
	ok, err := s.donationRepository.CompleteDonation(ctx, donation.ID.String(), now)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.findDonation(ctx, donation.ID.String()); err != nil {
			return nil, err
		}
		return nil, domain.ErrDonationNotClaimed
	}

	donation.Status = domain.DonationStatusCompleted
	donation.CompletedAt = &now
	metrics.RecordTransition(domain.DonationStatusCompleted)

	s.log.WithFields(logrus.Fields{
		"donation_id": donation.ID.String(),
		"actor_id":    userUUID.String(),
	}).Info("donation completed")

	recipient := donation.DonorID.String()
	if isDonor && donation.ClaimerID != nil {
		recipient = donation.ClaimerID.String()
	}
	if err := s.notifier.Emit(ctx, recipient, domain.NotificationDonationCompleted,
		"Donation completed",
		fmt.Sprintf("The donation %s has been marked as completed", donation.Title),
		domain.NotificationData{DonationID: donation.ID.String()}); err != nil {
		s.sideEffectFailed("notify_donation_completed", donation.ID.String(), err)
	}

	return toDomainDonation(donation), nil
}

func (s *donationService) SubmitFeedback(ctx context.Context, id string, userID string, req domain.SubmitFeedbackRequest) (*domain.Donation, error) {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, domain.ErrInvalidRating
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := feedbackPrecondition(donation, userUUID); err != nil {
		return nil, err
	}

	now := s.now()
	rating := req.Rating
	feedback := entities.DonationFeedback{
		NGORating:    &rating,
		NGOComment:   strings.TrimSpace(req.Comment),
		FeedbackDate: &now,
	}

	ok, err := s.donationRepository.AttachFeedback(ctx, donation.ID.String(), userUUID.String(), feedback)
	if err != nil {
		return nil, err
	}
	if !ok {
		current, err := s.findDonation(ctx, donation.ID.String())
		if err != nil {
			return nil, err
		}
		if err := feedbackPrecondition(current, userUUID); err != nil {
			return nil, err
		}
		return nil, domain.ErrFeedbackExists
	}

	donation.Feedback = feedback
	s.log.WithFields(logrus.Fields{
		"donation_id": donation.ID.String(),
		"donor_id":    donation.DonorID.String(),
		"rating":      rating,
	}).Info("feedback submitted")

	if err := s.rater.ApplyRating(ctx, donation.DonorID.String(), rating); err != nil {
		s.sideEffectFailed("apply_rating", donation.ID.String(), err)
	}

	if err := s.notifier.Emit(ctx, donation.DonorID.String(), domain.NotificationFeedbackReceived,
		"New feedback received",
		fmt.Sprintf("%s rated your donation %s with %d stars", donation.ClaimerName, donation.Title, rating),
		domain.NotificationData{
			DonationID: donation.ID.String(),
			Rating:     rating,
			Feedback:   feedback.NGOComment,
		}); err != nil {
		s.sideEffectFailed("notify_feedback_received", donation.ID.String(), err)
	}

	return toDomainDonation(donation), nil
}

func (s *donationService) ToggleLike(ctx context.Context, id string, userID string) (*domain.LikeResult, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.findDonation(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, likes, err := s.donationRepository.ToggleLike(ctx, donation.ID.String(), userUUID.String())
	if err != nil {
		return nil, err
	}

	return &domain.LikeResult{
		DonationID: donation.ID.String(),
		Liked:      liked,
		Likes:      likes,
	}, nil
}

// SweepExpired moves every available donation whose expiry has passed to
// expired. Running it twice in a row changes nothing the second time.
func (s *donationService) SweepExpired(ctx context.Context) (int64, error) {
	swept, err := s.donationRepository.ExpireDonations(ctx, s.now())
	if err != nil {
		return 0, err
	}

	metrics.RecordSwept(swept)
	if swept > 0 {
		s.log.WithField("expired", swept).Info("expired donations swept")
	}
	return swept, nil
}

func (s *donationService) RecountLikes(ctx context.Context) (int64, error) {
	fixed, err := s.donationRepository.RecountLikes(ctx)
	if err != nil {
		return 0, err
	}

	s.log.WithField("corrected", fixed).Info("donation likes recounted")
	return fixed, nil
}

func (s *donationService) findDonation(ctx context.Context, id string) (*entities.Donation, error) {
	donationUUID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	donation, err := s.donationRepository.GetDonationByID(ctx, donationUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

// classifyOwnerMiss explains why an owner-guarded write matched no row.
func (s *donationService) classifyOwnerMiss(ctx context.Context, id string) error {
	if _, err := s.findDonation(ctx, id); err != nil {
		return err
	}
	return domain.ErrDonationNotEditable
}

func (s *donationService) buildUpdates(req domain.UpdateDonationRequest) (map[string]interface{}, error) {
	updates := make(map[string]interface{})

	required := []struct {
		column string
		value  *string
	}{
		{"title", req.Title},
		{"description", req.Description},
		{"quantity", req.Quantity},
		{"location", req.Location},
	}
	for _, field := range required {
		if field.value == nil {
			continue
		}
		v := strings.TrimSpace(*field.value)
		if v == "" {
			return nil, domain.ErrMissingDonationField
		}
		updates[field.column] = v
	}

	if req.Category != nil {
		if !domain.IsValidCategory(*req.Category) {
			return nil, domain.ErrInvalidCategory
		}
		updates["category"] = *req.Category
	}
	if req.ExpiryDate != nil {
		expiry, err := s.parseExpiry(*req.ExpiryDate)
		if err != nil {
			return nil, err
		}
		updates["expiry_date"] = expiry
	}
	if req.PickupInstructions != nil {
		updates["pickup_instructions"] = *req.PickupInstructions
	}
	if req.ContactPhone != nil {
		updates["contact_phone"] = *req.ContactPhone
	}

	return updates, nil
}

func (s *donationService) parseExpiry(value string) (*time.Time, error) {
	for _, layout := range expiryLayouts {
		expiry, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if !expiry.After(s.now()) {
			return nil, domain.ErrInvalidExpiryDate
		}
		return &expiry, nil
	}
	return nil, domain.ErrInvalidExpiryDate
}

func (s *donationService) sideEffectFailed(effect string, donationID string, err error) {
	metrics.RecordDependencyFailure(effect)
	entry := s.log.WithField("effect", effect).WithError(domain.DependencyError(effect, err))
	if donationID != "" {
		entry = entry.WithField("donation_id", donationID)
	}
	entry.Warn("secondary effect failed")
}

func feedbackPrecondition(donation *entities.Donation, claimerID uuid.UUID) error {
	if donation.Status != domain.DonationStatusClaimed && donation.Status != domain.DonationStatusCompleted {
		return domain.ErrFeedbackNotAllowed
	}
	if donation.ClaimerID == nil || *donation.ClaimerID != claimerID {
		return domain.ErrNotDonationClaimer
	}
	if donation.Feedback.NGORating != nil {
		return domain.ErrFeedbackExists
	}
	return nil
}

func isExpired(donation *entities.Donation, now time.Time) bool {
	return donation.ExpiryDate != nil && !donation.ExpiryDate.After(now)
}

func toDomainDonations(donations []*entities.Donation) []*domain.Donation {
	result := make([]*domain.Donation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainDonation(d))
	}
	return result
}

func toDomainDonation(d *entities.Donation) *domain.Donation {
	likedBy := make([]string, 0, len(d.LikedBy))
	for _, like := range d.LikedBy {
		likedBy = append(likedBy, like.UserID.String())
	}

	result := &domain.Donation{
		ID:                 d.ID.String(),
		Title:              d.Title,
		Description:        d.Description,
		Category:           d.Category,
		Quantity:           d.Quantity,
		Location:           d.Location,
		ExpiryDate:         d.ExpiryDate,
		PickupInstructions: d.PickupInstructions,
		ContactPhone:       d.ContactPhone,
		ImageURL:           d.ImageURL,
		DonorID:            d.DonorID.String(),
		DonorName:          d.DonorName,
		DonorType:          d.DonorType,
		Status:             d.Status,
		ClaimerName:        d.ClaimerName,
		ClaimedAt:          d.ClaimedAt,
		CompletedAt:        d.CompletedAt,
		Likes:              d.Likes,
		LikedBy:            likedBy,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.ClaimerID != nil {
		result.ClaimerID = d.ClaimerID.String()
	}
	if d.Feedback.NGORating != nil {
		result.Feedback = &domain.DonationFeedback{
			NGORating:    *d.Feedback.NGORating,
			NGOComment:   d.Feedback.NGOComment,
			FeedbackDate: d.Feedback.FeedbackDate,
		}
	}
	return result
}
