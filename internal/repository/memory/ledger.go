package memory

import (
	"ahaar-backend/entities"
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) RecordMoneyDonation(ctx context.Context, donation *entities.MoneyDonation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	need, ok := s.needs[donation.NeedID]
	if !ok || need.ProfileID != donation.NGOProfileID {
		return gorm.ErrRecordNotFound
	}
	profile, ok := s.profiles[donation.NGOProfileID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	donor, ok := s.users[donation.DonorID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, entry := range s.ledger {
		if entry.TransactionID == donation.TransactionID {
			return gorm.ErrDuplicatedKey
		}
	}

	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = s.now()
	}
	s.seq++
	s.order[donation.ID] = s.seq

	stored := *donation
	s.ledger = append(s.ledger, &stored)
	need.CurrentAmount += donation.Amount
	profile.TotalDonationsReceived += donation.Amount
	donor.TotalMoneyDonated += donation.Amount
	return nil
}

func (s *Store) GetDonorMoneyDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.MoneyDonation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, count := s.ledgerPage(page, limit, func(d *entities.MoneyDonation) bool {
		return d.DonorID.String() == donorID
	})
	return donations, count, nil
}

func (s *Store) GetProfileMoneyDonations(ctx context.Context, profileID string, page, limit int) ([]*entities.MoneyDonation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	donations, count := s.ledgerPage(page, limit, func(d *entities.MoneyDonation) bool {
		return d.NGOProfileID.String() == profileID
	})
	return donations, count, nil
}

func (s *Store) ledgerPage(page, limit int, keep func(*entities.MoneyDonation) bool) ([]*entities.MoneyDonation, int64) {
	matched := make([]*entities.MoneyDonation, 0)
	for _, d := range s.ledger {
		if keep(d) {
			matched = append(matched, d)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return s.newerFirst(matched[i].ID, matched[j].ID, matched[i].CreatedAt, matched[j].CreatedAt)
	})

	start, end := window(len(matched), page, limit)
	result := make([]*entities.MoneyDonation, 0, end-start)
	for _, d := range matched[start:end] {
		cp := *d
		result = append(result, &cp)
	}
	return result, int64(len(matched))
}

func (s *Store) ReconcileTotals(ctx context.Context) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byProfile := make(map[uuid.UUID]float64)
	byDonor := make(map[uuid.UUID]float64)
	for _, d := range s.ledger {
		byProfile[d.NGOProfileID] += d.Amount
		byDonor[d.DonorID] += d.Amount
	}

	var profiles, donors int64
	for id, p := range s.profiles {
		if p.TotalDonationsReceived != byProfile[id] {
			p.TotalDonationsReceived = byProfile[id]
			profiles++
		}
	}
	for id, u := range s.users {
		if u.TotalMoneyDonated != byDonor[id] {
			u.TotalMoneyDonated = byDonor[id]
			donors++
		}
	}
	return profiles, donors, nil
}

// SetProfileTotal overwrites a profile's running total without a ledger
// entry. It exists to reproduce drift for reconciliation.
func (s *Store) SetProfileTotal(id string, total float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, err := s.profile(id); err == nil {
		p.TotalDonationsReceived = total
	}
}
