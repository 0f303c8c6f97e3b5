package ledger

import (
	"ahaar-backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	LedgerRepository interface {
		RecordMoneyDonation(ctx context.Context, donation *entities.MoneyDonation) error
		GetDonorMoneyDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.MoneyDonation, int64, error)
		GetProfileMoneyDonations(ctx context.Context, profileID string, page, limit int) ([]*entities.MoneyDonation, int64, error)
		ReconcileTotals(ctx context.Context) (int64, int64, error)
	}

	ledgerRepository struct {
		db *gorm.DB
	}
)

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

// RecordMoneyDonation appends the ledger entry and moves the three running
// totals it feeds. Either all four writes land or none do.
func (r *ledgerRepository) RecordMoneyDonation(ctx context.Context, donation *entities.MoneyDonation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(donation).Error; err != nil {
			return err
		}

		increments := []struct {
			model  interface{}
			column string
			query  string
			args   []interface{}
		}{
			{&entities.NGONeed{}, "current_amount", "id = ? AND profile_id = ?", []interface{}{donation.NeedID, donation.NGOProfileID}},
			{&entities.NGOProfile{}, "total_donations_received", "id = ?", []interface{}{donation.NGOProfileID}},
			{&entities.User{}, "total_money_donated", "id = ?", []interface{}{donation.DonorID}},
		}
		for _, inc := range increments {
			res := tx.Model(inc.model).
				Where(inc.query, inc.args...).
				Update(inc.column, gorm.Expr(inc.column+" + ?", donation.Amount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *ledgerRepository) GetDonorMoneyDonations(ctx context.Context, donorID string, page, limit int) ([]*entities.MoneyDonation, int64, error) {
	return r.paginate(ctx, "donor_id = ?", donorID, page, limit)
}

func (r *ledgerRepository) GetProfileMoneyDonations(ctx context.Context, profileID string, page, limit int) ([]*entities.MoneyDonation, int64, error) {
	return r.paginate(ctx, "ngo_profile_id = ?", profileID, page, limit)
}

func (r *ledgerRepository) paginate(ctx context.Context, query string, arg string, page, limit int) ([]*entities.MoneyDonation, int64, error) {
	var donations []*entities.MoneyDonation
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.MoneyDonation{}).
		Where(query, arg).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&donations).Error; err != nil {
		return nil, 0, err
	}

	return donations, count, nil
}

// ReconcileTotals rebuilds profile and donor totals from the ledger and
// returns how many profiles and donors were corrected. Need amounts are left
// alone because they may include an opening balance declared by the NGO.
func (r *ledgerRepository) ReconcileTotals(ctx context.Context) (int64, int64, error) {
	var profiles, donors int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE ngo_profiles
			SET total_donations_received = summed.total
			FROM (
				SELECT p.id, COALESCE(SUM(m.amount), 0) AS total
				FROM ngo_profiles p
				LEFT JOIN money_donations m ON m.ngo_profile_id = p.id
				GROUP BY p.id
			) AS summed
			WHERE ngo_profiles.id = summed.id AND ngo_profiles.total_donations_received <> summed.total
		`)
		if res.Error != nil {
			return res.Error
		}
		profiles = res.RowsAffected

		res = tx.Exec(`
			UPDATE users
			SET total_money_donated = summed.total
			FROM (
				SELECT u.id, COALESCE(SUM(m.amount), 0) AS total
				FROM users u
				LEFT JOIN money_donations m ON m.donor_id = u.id
				GROUP BY u.id
			) AS summed
			WHERE users.id = summed.id AND users.total_money_donated <> summed.total
		`)
		if res.Error != nil {
			return res.Error
		}
		donors = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return profiles, donors, nil
}
