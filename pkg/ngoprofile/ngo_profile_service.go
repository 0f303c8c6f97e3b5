package ngoprofile

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"ahaar-backend/pkg/user"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	NGOProfileService interface {
		CreateProfile(ctx context.Context, req domain.CreateProfileRequest, ngoID string) (*domain.NGOProfile, error)
		GetProfile(ctx context.Context, profileID string) (*domain.NGOProfile, error)
		GetProfileByNGO(ctx context.Context, ngoID string) (*domain.NGOProfile, error)
		ListProfiles(ctx context.Context, page, limit int) ([]*domain.NGOProfile, int64, error)
		AddNeed(ctx context.Context, profileID string, req domain.AddNeedRequest, userID string) (*domain.NGOProfile, error)
		RemoveNeed(ctx context.Context, profileID string, needID string, userID string) (*domain.NGOProfile, error)
	}

	ngoProfileService struct {
		profileRepository NGOProfileRepository
		userRepository    user.UserRepository
		log               logrus.FieldLogger
	}
)

func NewNGOProfileService(profileRepository NGOProfileRepository, userRepository user.UserRepository, log logrus.FieldLogger) NGOProfileService {
	return &ngoProfileService{
		profileRepository: profileRepository,
		userRepository:    userRepository,
		log:               log,
	}
}

func (s *ngoProfileService) CreateProfile(ctx context.Context, req domain.CreateProfileRequest, ngoID string) (*domain.NGOProfile, error) {
	ngoUUID, err := uuid.Parse(ngoID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	ngo, err := s.userRepository.GetUserByID(ctx, ngoUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if ngo.UserType != domain.RoleNGO {
		return nil, domain.ErrNotNGO
	}

	if _, err := s.profileRepository.GetProfileByNGO(ctx, ngoUUID.String()); err == nil {
		return nil, domain.ErrProfileExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(req.OrganizationName)
	if name == "" {
		name = ngo.Name
	}

	profile := &entities.NGOProfile{
		ID:               uuid.New(),
		NGOID:            ngoUUID,
		OrganizationName: name,
		Description:      req.Description,
		Address:          req.Address,
		Phone:            req.Phone,
		Needs:            []*entities.NGONeed{},
	}
	if err := s.profileRepository.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrProfileExists
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"profile_id": profile.ID.String(),
		"ngo_id":     ngoUUID.String(),
	}).Info("ngo profile created")

	return ToDomainProfile(profile), nil
}

func (s *ngoProfileService) GetProfile(ctx context.Context, profileID string) (*domain.NGOProfile, error) {
	profile, err := s.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return ToDomainProfile(profile), nil
}

func (s *ngoProfileService) GetProfileByNGO(ctx context.Context, ngoID string) (*domain.NGOProfile, error) {
	ngoUUID, err := uuid.Parse(ngoID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.profileRepository.GetProfileByNGO(ctx, ngoUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return ToDomainProfile(profile), nil
}

func (s *ngoProfileService) ListProfiles(ctx context.Context, page, limit int) ([]*domain.NGOProfile, int64, error) {
	profiles, count, err := s.profileRepository.ListProfiles(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.NGOProfile, 0, len(profiles))
	for _, p := range profiles {
		result = append(result, ToDomainProfile(p))
	}
	return result, count, nil
}

func (s *ngoProfileService) AddNeed(ctx context.Context, profileID string, req domain.AddNeedRequest, userID string) (*domain.NGOProfile, error) {
	profile, err := s.ownedProfile(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.NewValidationError("need description is required")
	}
	if req.Type == domain.NeedTypeMoney && req.TargetAmount <= 0 {
		return nil, domain.ErrInvalidTargetAmount
	}

	need := &entities.NGONeed{
		ID:          uuid.New(),
		ProfileID:   profile.ID,
		Type:        req.Type,
		Description: description,
	}
	if req.Type == domain.NeedTypeMoney {
		need.TargetAmount = req.TargetAmount
		need.CurrentAmount = req.CurrentAmount
	}
	if err := s.profileRepository.AddNeed(ctx, need); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"profile_id": profile.ID.String(),
		"need_id":    need.ID.String(),
		"type":       need.Type,
	}).Info("need added")

	return s.GetProfile(ctx, profile.ID.String())
}

func (s *ngoProfileService) RemoveNeed(ctx context.Context, profileID string, needID string, userID string) (*domain.NGOProfile, error) {
	needUUID, err := uuid.Parse(needID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.ownedProfile(ctx, profileID, userID)
	if err != nil {
		return nil, err
	}

	removed, err := s.profileRepository.RemoveNeed(ctx, profile.ID.String(), needUUID.String())
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, domain.ErrNeedNotFound
	}

	s.log.WithFields(logrus.Fields{
		"profile_id": profile.ID.String(),
		"need_id":    needUUID.String(),
	}).Info("need removed")

	return s.GetProfile(ctx, profile.ID.String())
}

func (s *ngoProfileService) findProfile(ctx context.Context, profileID string) (*entities.NGOProfile, error) {
	profileUUID, err := uuid.Parse(profileID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.profileRepository.GetProfileByID(ctx, profileUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *ngoProfileService) ownedProfile(ctx context.Context, profileID string, userID string) (*entities.NGOProfile, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	profile, err := s.findProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile.NGOID != userUUID {
		return nil, domain.ErrNotProfileOwner
	}
	return profile, nil
}

func ToDomainProfile(p *entities.NGOProfile) *domain.NGOProfile {
	needs := make([]domain.Need, 0, len(p.Needs))
	for _, n := range p.Needs {
		needs = append(needs, ToDomainNeed(n))
	}

	return &domain.NGOProfile{
		ID:                     p.ID.String(),
		NGOID:                  p.NGOID.String(),
		OrganizationName:       p.OrganizationName,
		Description:            p.Description,
		Address:                p.Address,
		Phone:                  p.Phone,
		TotalDonationsReceived: p.TotalDonationsReceived,
		Needs:                  needs,
		CreatedAt:              p.CreatedAt,
	}
}

func ToDomainNeed(n *entities.NGONeed) domain.Need {
	need := domain.Need{
		ID:          n.ID.String(),
		Type:        n.Type,
		Description: n.Description,
	}
	if n.Type == domain.NeedTypeMoney {
		need.TargetAmount = n.TargetAmount
		need.CurrentAmount = n.CurrentAmount
		need.GoalReached = n.TargetAmount > 0 && n.CurrentAmount >= n.TargetAmount
	}
	return need
}
