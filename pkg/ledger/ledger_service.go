package ledger

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"ahaar-backend/internal/metrics"
	"ahaar-backend/internal/utils/mailing"
	"ahaar-backend/pkg/ngoprofile"
	"ahaar-backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type (
	LedgerService interface {
		Donate(ctx context.Context, profileID string, needID string, req domain.DonateMoneyRequest, donorID string) (*domain.DonateMoneyResponse, error)
		GetDonorHistory(ctx context.Context, donorID string, page, limit int) ([]*domain.MoneyDonation, int64, error)
		GetProfileHistory(ctx context.Context, profileID string, page, limit int) ([]*domain.MoneyDonation, int64, error)
		Reconcile(ctx context.Context) (*domain.ReconcileResult, error)
	}

	Notifier interface {
		Emit(ctx context.Context, userID string, notificationType string, title string, message string, data domain.NotificationData) error
	}

	Option func(*ledgerService)

	ledgerService struct {
		ledgerRepository  LedgerRepository
		profileRepository ngoprofile.NGOProfileRepository
		userRepository    user.UserRepository
		notifier          Notifier
		mailer            mailing.Mailer
		log               logrus.FieldLogger
		now               func() time.Time
	}
)

func WithClock(now func() time.Time) Option {
	return func(s *ledgerService) {
		s.now = now
	}
}

func NewLedgerService(
	ledgerRepository LedgerRepository,
	profileRepository ngoprofile.NGOProfileRepository,
	userRepository user.UserRepository,
	notifier Notifier,
	mailer mailing.Mailer,
	log logrus.FieldLogger,
	opts ...Option,
) LedgerService {
	s := &ledgerService{
		ledgerRepository:  ledgerRepository,
		profileRepository: profileRepository,
		userRepository:    userRepository,
		notifier:          notifier,
		mailer:            mailer,
		log:               log,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTransactionID returns a reference of the form TXN-<unix millis>-<8 hex>.
func NewTransactionID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN-%d-%s", at.UnixMilli(), strings.ToUpper(suffix))
}

func (s *ledgerService) Donate(ctx context.Context, profileID string, needID string, req domain.DonateMoneyRequest, donorID string) (*domain.DonateMoneyResponse, error) {
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount < domain.MinMoneyDonation {
		return nil, domain.ErrInvalidAmount
	}
	if !domain.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	profileUUID, err := uuid.Parse(profileID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	needUUID, err := uuid.Parse(needID)
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

	profile, err := s.profileRepository.GetProfileByID(ctx, profileUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	need, err := s.profileRepository.GetNeed(ctx, profile.ID.String(), needUUID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNeedNotFound
		}
		return nil, err
	}
	if need.Type != domain.NeedTypeMoney {
		return nil, domain.ErrNeedNotMonetary
	}
	if profile.NGOID == donor.ID {
		return nil, domain.ErrSelfDonation
	}

	now := s.now()
	entry := &entities.MoneyDonation{
		ID:            uuid.New(),
		DonorID:       donor.ID,
		NGOID:         profile.NGOID,
		NGOProfileID:  profile.ID,
		NeedID:        need.ID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		TransactionID: NewTransactionID(now),
		Status:        domain.MoneyDonationStatusCompleted,
		Message:       strings.TrimSpace(req.Message),
		CreatedAt:     now,
	}
	if err := s.ledgerRepository.RecordMoneyDonation(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNeedNotFound
		}
		return nil, err
	}

	metrics.RecordMoneyDonation(entry.PaymentMethod, entry.Amount)
	s.log.WithFields(logrus.Fields{
		"transaction_id": entry.TransactionID,
		"profile_id":     profile.ID.String(),
		"need_id":        need.ID.String(),
		"amount":         entry.Amount,
	}).Info("money donation recorded")

	if err := s.notifier.Emit(ctx, profile.NGOID.String(), domain.NotificationMoneyDonationReceived,
		"Money donation received",
		fmt.Sprintf("%s donated %.2f towards %s", donor.Name, entry.Amount, need.Description),
		domain.NotificationData{
			Amount:        entry.Amount,
			TransactionID: entry.TransactionID,
		}); err != nil {
		s.sideEffectFailed("notify_money_donation", entry.TransactionID, err)
	}

	s.sendReceipt(donor, profile, entry)

	result := toDomainMoneyDonation(entry)
	return &domain.DonateMoneyResponse{
		Donation:      *result,
		TransactionID: entry.TransactionID,
	}, nil
}

func (s *ledgerService) GetDonorHistory(ctx context.Context, donorID string, page, limit int) ([]*domain.MoneyDonation, int64, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	donations, count, err := s.ledgerRepository.GetDonorMoneyDonations(ctx, donorUUID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDomainMoneyDonations(donations), count, nil
}

func (s *ledgerService) GetProfileHistory(ctx context.Context, profileID string, page, limit int) ([]*domain.MoneyDonation, int64, error) {
	profileUUID, err := uuid.Parse(profileID)
	if err != nil {
		return nil, 0, domain.ErrParseUUID
	}

	if _, err := s.profileRepository.GetProfileByID(ctx, profileUUID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, domain.ErrProfileNotFound
		}
		return nil, 0, err
	}

	donations, count, err := s.ledgerRepository.GetProfileMoneyDonations(ctx, profileUUID.String(), page, limit)
	if err != nil {
		return nil, 0, err
	}
	return toDomainMoneyDonations(donations), count, nil
}

func (s *ledgerService) Reconcile(ctx context.Context) (*domain.ReconcileResult, error) {
	profiles, donors, err := s.ledgerRepository.ReconcileTotals(ctx)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"profiles": profiles,
		"donors":   donors,
	}).Info("ledger totals reconciled")
	return &domain.ReconcileResult{Profiles: int(profiles), Donors: int(donors)}, nil
}

func (s *ledgerService) sendReceipt(donor *entities.User, profile *entities.NGOProfile, entry *entities.MoneyDonation) {
	if s.mailer == nil || donor.Email == "" {
		return
	}

	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Thank you for donating %.2f to %s.</p><p>Transaction reference: <b>%s</b></p>",
		donor.Name, entry.Amount, profile.OrganizationName, entry.TransactionID,
	)
	err := s.mailer.SendMail(donor.Email, "Your Ahaar donation receipt", body)
	if errors.Is(err, mailing.ErrMailNotConfigured) {
		s.log.WithField("transaction_id", entry.TransactionID).Debug("receipt mail skipped, smtp is not configured")
		return
	}
	if err != nil {
		s.sideEffectFailed("send_receipt_mail", entry.TransactionID, err)
	}
}

func (s *ledgerService) sideEffectFailed(effect string, transactionID string, err error) {
	metrics.RecordDependencyFailure(effect)
	s.log.WithFields(logrus.Fields{
		"effect":         effect,
		"transaction_id": transactionID,
	}).WithError(domain.DependencyError(effect, err)).Warn("secondary effect failed")
}

func toDomainMoneyDonations(donations []*entities.MoneyDonation) []*domain.MoneyDonation {
	result := make([]*domain.MoneyDonation, 0, len(donations))
	for _, d := range donations {
		result = append(result, toDomainMoneyDonation(d))
	}
	return result
}

func toDomainMoneyDonation(d *entities.MoneyDonation) *domain.MoneyDonation {
	return &domain.MoneyDonation{
		ID:            d.ID.String(),
		DonorID:       d.DonorID.String(),
		NGOID:         d.NGOID.String(),
		NGOProfileID:  d.NGOProfileID.String(),
		NeedID:        d.NeedID.String(),
		Amount:        d.Amount,
		PaymentMethod: d.PaymentMethod,
		TransactionID: d.TransactionID,
		Status:        d.Status,
		Message:       d.Message,
		CreatedAt:     d.CreatedAt,
	}
}
