package ledger

import (
	"ahaar-backend/entities"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepository(t *testing.T) (LedgerRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewLedgerRepository(db), mock
}

func newEntry() *entities.MoneyDonation {
	return &entities.MoneyDonation{
		ID:            uuid.New(),
		DonorID:       uuid.New(),
		NGOID:         uuid.New(),
		NGOProfileID:  uuid.New(),
		NeedID:        uuid.New(),
		Amount:        1500,
		PaymentMethod: "upi",
		TransactionID: NewTransactionID(time.Now()),
		Status:        "completed",
		CreatedAt:     time.Now(),
	}
}

func TestRepositoryRecordMoneyDonationCommitsAllTotals(t *testing.T) {
	repo, mock := newMockRepository(t)
	entry := newEntry()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "money_donations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entry.ID.String()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ngo_needs" SET "current_amount"=current_amount + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ngo_profiles" SET "total_donations_received"=total_donations_received + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "total_money_donated"=total_money_donated + $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.RecordMoneyDonation(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRecordMoneyDonationRollsBackWhenDonorIsMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	entry := newEntry()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "money_donations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entry.ID.String()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ngo_needs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ngo_profiles" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RecordMoneyDonation(context.Background(), entry)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRecordMoneyDonationRollsBackWhenNeedIsMissing(t *testing.T) {
	repo, mock := newMockRepository(t)
	entry := newEntry()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "money_donations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(entry.ID.String()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "ngo_needs" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RecordMoneyDonation(context.Background(), entry)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
