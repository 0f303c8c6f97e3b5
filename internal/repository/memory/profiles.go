package memory

import (
	"ahaar-backend/entities"
	"context"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateProfile(ctx context.Context, profile *entities.NGOProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.NGOID == profile.NGOID {
			return gorm.ErrDuplicatedKey
		}
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	s.stamp(profile.ID, &profile.Timestamp)

	for i, need := range profile.Needs {
		if need.ID == uuid.Nil {
			need.ID = uuid.New()
		}
		need.ProfileID = profile.ID
		need.Position = i + 1
		s.stamp(need.ID, &need.Timestamp)
		stored := *need
		s.needs[need.ID] = &stored
	}

	stored := *profile
	stored.Needs = nil
	s.profiles[profile.ID] = &stored
	return nil
}

func (s *Store) copyProfile(p *entities.NGOProfile) *entities.NGOProfile {
	cp := *p
	cp.Needs = make([]*entities.NGONeed, 0)
	for _, need := range s.needs {
		if need.ProfileID == p.ID {
			n := *need
			cp.Needs = append(cp.Needs, &n)
		}
	}
	sort.Slice(cp.Needs, func(i, j int) bool {
		return cp.Needs[i].Position < cp.Needs[j].Position
	})
	return &cp
}

func (s *Store) profile(id string) (*entities.NGOProfile, error) {
	pid, ok := parseID(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p, ok := s.profiles[pid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *Store) GetProfileByID(ctx context.Context, id string) (*entities.NGOProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profile(id)
	if err != nil {
		return nil, err
	}
	return s.copyProfile(p), nil
}

func (s *Store) GetProfileByNGO(ctx context.Context, ngoID string) (*entities.NGOProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.profiles {
		if p.NGOID.String() == ngoID {
			return s.copyProfile(p), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) ListProfiles(ctx context.Context, page, limit int) ([]*entities.NGOProfile, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*entities.NGOProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return s.newerFirst(all[i].ID, all[j].ID, all[i].CreatedAt, all[j].CreatedAt)
	})

	start, end := window(len(all), page, limit)
	result := make([]*entities.NGOProfile, 0, end-start)
	for _, p := range all[start:end] {
		result = append(result, s.copyProfile(p))
	}
	return result, int64(len(all)), nil
}

func (s *Store) need(profileID string, needID string) (*entities.NGONeed, error) {
	nid, ok := parseID(needID)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	n, ok := s.needs[nid]
	if !ok || n.ProfileID.String() != profileID {
		return nil, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (s *Store) GetNeed(ctx context.Context, profileID string, needID string) (*entities.NGONeed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.need(profileID, needID)
	if err != nil {
		return nil, err
	}
	cp := *n
	return &cp, nil
}

func (s *Store) AddNeed(ctx context.Context, need *entities.NGONeed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[need.ProfileID]; !ok {
		return gorm.ErrRecordNotFound
	}

	last := 0
	for _, n := range s.needs {
		if n.ProfileID == need.ProfileID && n.Position > last {
			last = n.Position
		}
	}
	if need.ID == uuid.Nil {
		need.ID = uuid.New()
	}
	need.Position = last + 1
	s.stamp(need.ID, &need.Timestamp)

	stored := *need
	s.needs[need.ID] = &stored
	return nil
}

func (s *Store) RemoveNeed(ctx context.Context, profileID string, needID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.need(profileID, needID)
	if err != nil {
		return false, nil
	}
	delete(s.needs, n.ID)
	return true, nil
}
