package memory

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	if _, exists := s.donations[donation.ID]; exists {
		return gorm.ErrDuplicatedKey
	}
	if donation.Status == "" {
		donation.Status = domain.DonationStatusAvailable
	}
	s.stamp(donation.ID, &donation.Timestamp)

	stored := *donation
	stored.LikedBy = nil
	s.donations[donation.ID] = &stored
	return nil
}

func (s *Store) GetDonationByID(ctx context.Context, id string) (*entities.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil {
		return nil, err
	}
	return s.copyDonation(d), nil
}

func (s *Store) donation(id string) (*entities.Donation, error) {
	did, ok := parseID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d, ok := s.donations[did]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (s *Store) copyDonation(d *entities.Donation) *entities.Donation {
	cp := *d
	likes := s.likes[d.ID]
	cp.LikedBy = make([]*entities.DonationLike, 0, len(likes))
	for i := range likes {
		like := likes[i]
		cp.LikedBy = append(cp.LikedBy, &like)
	}
	return &cp
}

func (s *Store) listDonations(page, limit int, keep func(*entities.Donation) bool) ([]*entities.Donation, int64) {
	matched := make([]*entities.Donation, 0)
	for _, d := range s.donations {
		if keep(d) {
			matched = append(matched, d)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return s.newerFirst(matched[i].ID, matched[j].ID, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	start, end := window(len(matched), page, limit)
	result := make([]*entities.Donation, 0, end-start)
	for _, d := range matched[start:end] {
		result = append(result, s.copyDonation(d))
	}
	return result, int64(len(matched))
}

func (s *Store) GetAvailableDonations(ctx context.Context, now time.Time, page, limit int) ([]*entities.Donation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, count := s.listDonations(page, limit, func(d *entities.Donation) bool {
		return d.Status == domain.DonationStatusAvailable && (d.ExpiryDate == nil || d.ExpiryDate.After(now))
	})
	return donations, count, nil
}

func (s *Store) GetDonorDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.Donation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, count := s.listDonations(page, limit, func(d *entities.Donation) bool {
		return d.DonorID.String() == donorID
	})
	return donations, count, nil
}

func (s *Store) GetClaimedDonations(ctx context.Context, claimerID string, page, limit int) ([]*entities.Donation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, count := s.listDonations(page, limit, func(d *entities.Donation) bool {
		return d.ClaimerID != nil && d.ClaimerID.String() == claimerID
	})
	return donations, count, nil
}

func (s *Store) GetDonorFeedback(ctx context.Context, donorID string) ([]*entities.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*entities.Donation, 0)
	for _, d := range s.donations {
		if d.DonorID.String() == donorID && d.Feedback.NGORating != nil {
			result = append(result, s.copyDonation(d))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Feedback.FeedbackDate, result[j].Feedback.FeedbackDate
		if a == nil || b == nil || a.Equal(*b) {
			return s.order[result[i].ID] > s.order[result[j].ID]
		}
		return a.After(*b)
	})
	return result, nil
}

func (s *Store) UpdateDonation(ctx context.Context, id string, donorID string, updates map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil || d.DonorID.String() != donorID || d.Status != domain.DonationStatusAvailable {
		return false, nil
	}

	for column, value := range updates {
		switch column {
		case "title":
			d.Title = value.(string)
		case "description":
			d.Description = value.(string)
		case "category":
			d.Category = value.(string)
		case "quantity":
			d.Quantity = value.(string)
		case "location":
			d.Location = value.(string)
		case "pickup_instructions":
			d.PickupInstructions = value.(string)
		case "contact_phone":
			d.ContactPhone = value.(string)
		case "expiry_date":
			d.ExpiryDate = value.(*time.Time)
		}
	}
	d.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) DeleteDonation(ctx context.Context, id string, donorID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil || d.DonorID.String() != donorID || d.Status != domain.DonationStatusAvailable {
		return false, nil
	}
	delete(s.donations, d.ID)
	delete(s.likes, d.ID)
	return true, nil
}

func (s *Store) ClaimDonation(ctx context.Context, id string, claimerID string, claimerName string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil {
		return false, nil
	}
	claimer, ok := parseID(claimerID)
	if !ok {
		return false, nil
	}
	if d.Status != domain.DonationStatusAvailable || d.DonorID == claimer {
		return false, nil
	}
	if d.ExpiryDate != nil && !d.ExpiryDate.After(at) {
		return false, nil
	}

	claimedAt := at
	d.Status = domain.DonationStatusClaimed
	d.ClaimerID = &claimer
	d.ClaimerName = claimerName
	d.ClaimedAt = &claimedAt
	d.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) CompleteDonation(ctx context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil || d.Status != domain.DonationStatusClaimed {
		return false, nil
	}

	completedAt := at
	d.Status = domain.DonationStatusCompleted
	d.CompletedAt = &completedAt
	d.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) AttachFeedback(ctx context.Context, id string, claimerID string, feedback entities.DonationFeedback) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil {
		return false, nil
	}
	if d.Status != domain.DonationStatusClaimed && d.Status != domain.DonationStatusCompleted {
		return false, nil
	}
	if d.ClaimerID == nil || d.ClaimerID.String() != claimerID || d.Feedback.NGORating != nil {
		return false, nil
	}

	d.Feedback = feedback
	d.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) ToggleLike(ctx context.Context, id string, userID string) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.donation(id)
	if err != nil {
		return false, 0, err
	}
	uid, ok := parseID(userID)
	if !ok {
		return false, 0, gorm.ErrRecordNotFound
	}

	likes := s.likes[d.ID]
	for i, like := range likes {
		if like.UserID == uid {
			s.likes[d.ID] = append(likes[:i:i], likes[i+1:]...)
			d.Likes--
			return false, d.Likes, nil
		}
	}

	s.likes[d.ID] = append(likes, entities.DonationLike{
		ID:         uuid.New(),
		DonationID: d.ID,
		UserID:     uid,
		CreatedAt:  s.now(),
	})
	d.Likes++
	return true, d.Likes, nil
}

func (s *Store) ExpireDonations(ctx context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired int64
	for _, d := range s.donations {
		if d.Status == domain.DonationStatusAvailable && d.ExpiryDate != nil && !d.ExpiryDate.After(now) {
			d.Status = domain.DonationStatusExpired
			d.UpdatedAt = s.now()
			expired++
		}
	}
	return expired, nil
}

func (s *Store) RecountLikes(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var corrected int64
	for _, d := range s.donations {
		if actual := len(s.likes[d.ID]); d.Likes != actual {
			d.Likes = actual
			corrected++
		}
	}
	return corrected, nil
}

// SetLikes overwrites a donation's counter without touching its like set.
// It exists to reproduce counter drift.
func (s *Store) SetLikes(id string, likes int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, err := s.donation(id); err == nil {
		d.Likes = likes
	}
}
