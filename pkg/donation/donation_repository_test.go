package donation

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

func newMockRepository(t *testing.T) (DonationRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewDonationRepository(db), mock
}

func feedbackOf(rating int, at time.Time) entities.DonationFeedback {
	return entities.DonationFeedback{NGORating: &rating, FeedbackDate: &at}
}

func TestRepositoryClaimIsConditionalUpdate(t *testing.T) {
	repo, mock := newMockRepository(t)
	id := uuid.NewString()

	query := regexp.QuoteMeta(`UPDATE "donations" SET`) +
		`.*WHERE \(id = \$\d+ AND status = \$\d+ AND donor_id <> \$\d+\) AND \(expiry_date IS NULL OR expiry_date > \$\d+\)`

	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.ClaimDonation(context.Background(), id, uuid.NewString(), "Roti Bank", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.ClaimDonation(context.Background(), id, uuid.NewString(), "Seva Trust", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCompleteRequiresClaimedStatus(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET`) + `.*"status"=.*WHERE \(id = \$\d+ AND status = \$\d+\)`).
		WithArgs(sqlmock.AnyArg(), "completed", sqlmock.AnyArg(), sqlmock.AnyArg(), "claimed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.CompleteDonation(context.Background(), uuid.NewString(), time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFeedbackGuardsExistingRating(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET`) + `.*feedback_ngo_rating IS NULL.*status IN`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.AttachFeedback(context.Background(), uuid.NewString(), uuid.NewString(), feedbackOf(5, time.Now()))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryExpireReturnsRowsAffected(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET "status"=`) + `.*expiry_date IS NOT NULL AND expiry_date <= \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := repo.ExpireDonations(context.Background(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 3, swept)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRecountLikes(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE donations\s+SET likes = counted.total`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	fixed, err := repo.RecountLikes(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fixed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryToggleLikeAddsInOneTransaction(t *testing.T) {
	repo, mock := newMockRepository(t)
	donationID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "donation_likes"`) + `.*ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET "likes"=likes + $1`)).
		WithArgs(int64(1), donationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes FROM "donations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(3))
	mock.ExpectCommit()

	liked, likes, err := repo.ToggleLike(context.Background(), donationID.String(), userID.String())
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 3, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryToggleLikeRemovesExistingLike(t *testing.T) {
	repo, mock := newMockRepository(t)
	donationID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "donation_likes"`) + `.*ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "donation_likes" WHERE donation_id = $1 AND user_id = $2`)).
		WithArgs(donationID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET "likes"=likes + $1`)).
		WithArgs(int64(-1), donationID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes FROM "donations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"likes"}).AddRow(2))
	mock.ExpectCommit()

	liked, likes, err := repo.ToggleLike(context.Background(), donationID.String(), userID.String())
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 2, likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryToggleLikeRollsBackOnCounterFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "donation_likes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "donations" SET "likes"=likes + $1`)).
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	_, _, err := repo.ToggleLike(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrInvalidDB)
	assert.NoError(t, mock.ExpectationsWereMet())
}
