// Package memory is an in-process implementation of every repository in the
// backend. One mutex serializes all operations, which gives the conditional
// writes the same all-or-nothing outcome the SQL statements have.
package memory

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	mu  sync.Mutex
	seq int64
	now func() time.Time

	order         map[uuid.UUID]int64
	users         map[uuid.UUID]*entities.User
	donations     map[uuid.UUID]*entities.Donation
	likes         map[uuid.UUID][]entities.DonationLike
	notifications map[uuid.UUID]*entities.Notification
	profiles      map[uuid.UUID]*entities.NGOProfile
	needs         map[uuid.UUID]*entities.NGONeed
	ledger        []*entities.MoneyDonation
}

func New() *Store {
	return &Store{
		now:           time.Now,
		order:         make(map[uuid.UUID]int64),
		users:         make(map[uuid.UUID]*entities.User),
		donations:     make(map[uuid.UUID]*entities.Donation),
		likes:         make(map[uuid.UUID][]entities.DonationLike),
		notifications: make(map[uuid.UUID]*entities.Notification),
		profiles:      make(map[uuid.UUID]*entities.NGOProfile),
		needs:         make(map[uuid.UUID]*entities.NGONeed),
	}
}

// AddUser seeds an account. Accounts are owned by the identity service, so
// the repositories never create them.
func (s *Store) AddUser(u *entities.User) *entities.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.stamp(u.ID, &u.Timestamp)
	stored := *u
	s.users[u.ID] = &stored
	return u
}

func (s *Store) stamp(id uuid.UUID, ts *entities.Timestamp) {
	s.seq++
	s.order[id] = s.seq
	now := s.now()
	if ts.CreatedAt.IsZero() {
		ts.CreatedAt = now
	}
	ts.UpdatedAt = now
}

// newerFirst orders records by creation time, falling back to insertion order.
func (s *Store) newerFirst(a, b uuid.UUID, ta, tb time.Time) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return s.order[a] > s.order[b]
}

func parseID(id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	return parsed, err == nil
}

func window(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := start + limit
	if limit <= 0 || end > total {
		end = total
	}
	return start, end
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (s *Store) user(id string) (*entities.User, error) {
	uid, ok := parseID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	u, ok := s.users[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (s *Store) IncrementDonationsCount(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(id)
	if err != nil {
		return err
	}
	u.DonationsCount += delta
	return nil
}

func (s *Store) ApplyRating(ctx context.Context, donorID string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(donorID)
	if err != nil {
		return err
	}
	u.RatingSum += rating
	u.TotalRatings++
	u.AverageRating = float64(u.RatingSum) / float64(u.TotalRatings)
	return nil
}

func (s *Store) GetDonorIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rated := make(map[uuid.UUID]bool)
	for _, d := range s.donations {
		if d.Feedback.NGORating != nil {
			rated[d.DonorID] = true
		}
	}

	donors := make([]*entities.User, 0, len(s.users))
	for _, u := range s.users {
		if domain.IsDonorType(u.UserType) || rated[u.ID] {
			donors = append(donors, u)
		}
	}
	sort.Slice(donors, func(i, j int) bool {
		return s.order[donors[i].ID] < s.order[donors[j].ID]
	})

	ids := make([]string, 0, len(donors))
	for _, u := range donors {
		ids = append(ids, u.ID.String())
	}
	return ids, nil
}

func (s *Store) GetFeedbackTotals(ctx context.Context) (map[string]domain.RatingTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[string]domain.RatingTotals)
	for _, d := range s.donations {
		if d.Feedback.NGORating == nil {
			continue
		}
		t := totals[d.DonorID.String()]
		t.Sum += *d.Feedback.NGORating
		t.Count++
		totals[d.DonorID.String()] = t
	}
	return totals, nil
}

func (s *Store) SetRatingStats(ctx context.Context, donorID string, totals domain.RatingTotals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(donorID)
	if err != nil {
		// an UPDATE that matches no row is not an error
		return nil
	}
	u.RatingSum = totals.Sum
	u.TotalRatings = totals.Count
	u.AverageRating = totals.Average()
	return nil
}
