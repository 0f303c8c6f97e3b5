package donation

import (
	"ahaar-backend/domain"
	"ahaar-backend/entities"
	"ahaar-backend/internal/repository/memory"
	"ahaar-backend/pkg/notification"
	"ahaar-backend/pkg/rating"
	"ahaar-backend/pkg/user"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store         *memory.Store
	notifications notification.NotificationService
	service       DonationService
	hook          *test.Hook
	now           time.Time

	donor    *entities.User
	ngo      *entities.User
	otherNGO *entities.User
	admin    *entities.User
}

// fixtureOption swaps one collaborator of the service under test.
type fixtureOption func(deps *fixtureDeps)

type fixtureDeps struct {
	notifier Notifier
	rater    RatingApplier
	users    user.UserRepository
}

func withNotifier(n Notifier) fixtureOption {
	return func(deps *fixtureDeps) { deps.notifier = n }
}

func withRater(r RatingApplier) fixtureOption {
	return func(deps *fixtureDeps) { deps.rater = r }
}

func withUsers(wrap func(user.UserRepository) user.UserRepository) fixtureOption {
	return func(deps *fixtureDeps) { deps.users = wrap(deps.users) }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	store := memory.New()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	f := &fixture{
		store: store,
		hook:  hook,
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.notifications = notification.NewNotificationService(store, log)

	deps := &fixtureDeps{
		notifier: f.notifications,
		rater:    rating.NewRatingService(store, log),
		users:    store,
	}
	for _, opt := range opts {
		opt(deps)
	}

	f.service = NewDonationService(
		store,
		deps.users,
		deps.notifier,
		deps.rater,
		nil,
		log,
		WithClock(func() time.Time { return f.now }),
	)

	f.donor = store.AddUser(&entities.User{Name: "Annapurna Kitchen", UserType: domain.RoleRestaurant})
	f.ngo = store.AddUser(&entities.User{Name: "Roti Bank", UserType: domain.RoleNGO})
	f.otherNGO = store.AddUser(&entities.User{Name: "Seva Trust", UserType: domain.RoleNGO})
	f.admin = store.AddUser(&entities.User{Name: "Ops", UserType: domain.RoleAdmin})
	return f
}

func (f *fixture) create(t *testing.T, expiry string) *domain.Donation {
	t.Helper()
	d, err := f.service.CreateDonation(context.Background(), domain.CreateDonationRequest{
		Title:       "Veg biryani",
		Description: "Thirty portions left after lunch service",
		Category:    domain.CategoryFood,
		Quantity:    "30 portions",
		Location:    "MG Road",
		ExpiryDate:  expiry,
	}, f.donor.ID.String())
	require.NoError(t, err)
	return d
}

func (f *fixture) claim(t *testing.T, id string) *domain.Donation {
	t.Helper()
	d, err := f.service.ClaimDonation(context.Background(), id, f.ngo.ID.String(), "")
	require.NoError(t, err)
	return d
}

func testLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

type failingNotifier struct{}

func (failingNotifier) Emit(ctx context.Context, userID string, notificationType string, title string, message string, data domain.NotificationData) error {
	return errors.New("notification store unavailable")
}

type failingRater struct{}

func (failingRater) ApplyRating(ctx context.Context, donorID string, rating int) error {
	return errors.New("users table locked")
}

// countlessUsers serves lookups but cannot move the donations counter.
type countlessUsers struct {
	user.UserRepository
}

func (countlessUsers) IncrementDonationsCount(ctx context.Context, id string, delta int) error {
	return errors.New("users table locked")
}

// requireDependencyWarning asserts exactly one warn entry for effect, carrying
// the donation id and a DependencyError.
func requireDependencyWarning(t *testing.T, hook *test.Hook, effect string, donationID string) {
	t.Helper()

	var found int
	for _, entry := range hook.AllEntries() {
		if entry.Data["effect"] != effect {
			continue
		}
		found++
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Equal(t, donationID, entry.Data["donation_id"])
		err, ok := entry.Data[logrus.ErrorKey].(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, domain.ErrDependency)
	}
	assert.Equal(t, 1, found, effect)
}

func TestCreateDonationSnapshotsDonor(t *testing.T) {
	f := newFixture(t)

	d := f.create(t, "2026-03-02T10:00")

	assert.Equal(t, domain.DonationStatusAvailable, d.Status)
	assert.Equal(t, "Annapurna Kitchen", d.DonorName)
	assert.Equal(t, domain.RoleRestaurant, d.DonorType)
	require.NotNil(t, d.ExpiryDate)
	assert.True(t, d.ExpiryDate.After(f.now))
	assert.Zero(t, d.Likes)
	assert.Empty(t, d.LikedBy)
}

func TestCreateDonationValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	valid := domain.CreateDonationRequest{
		Title:       "Blankets",
		Description: "Winter blankets",
		Category:    domain.CategoryClothing,
		Quantity:    "12",
		Location:    "Koramangala",
	}

	tests := []struct {
		name   string
		mutate func(*domain.CreateDonationRequest)
		want   error
	}{
		{"missing title", func(r *domain.CreateDonationRequest) { r.Title = "  " }, domain.ErrMissingDonationField},
		{"missing location", func(r *domain.CreateDonationRequest) { r.Location = "" }, domain.ErrMissingDonationField},
		{"unknown category", func(r *domain.CreateDonationRequest) { r.Category = "toys" }, domain.ErrInvalidCategory},
		{"expiry in the past", func(r *domain.CreateDonationRequest) { r.ExpiryDate = "2026-02-28T10:00" }, domain.ErrInvalidExpiryDate},
		{"expiry equal to now", func(r *domain.CreateDonationRequest) { r.ExpiryDate = "2026-03-01T12:00:00Z" }, domain.ErrInvalidExpiryDate},
		{"unparseable expiry", func(r *domain.CreateDonationRequest) { r.ExpiryDate = "tomorrow" }, domain.ErrInvalidExpiryDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			_, err := f.service.CreateDonation(ctx, req, f.donor.ID.String())
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateDonationRejectsUnknownAndAdminDonors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := domain.CreateDonationRequest{
		Title: "Rice", Description: "Rice bags", Category: domain.CategoryFood, Quantity: "5kg", Location: "Indiranagar",
	}

	_, err := f.service.CreateDonation(ctx, req, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.service.CreateDonation(ctx, req, f.admin.ID.String())
	assert.ErrorIs(t, err, domain.ErrDonorCannotDonate)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.CreateDonation(ctx, req, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}

func TestClaimDonationNotifiesDonorAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	claimed := f.claim(t, d.ID)

	assert.Equal(t, domain.DonationStatusClaimed, claimed.Status)
	assert.Equal(t, f.ngo.ID.String(), claimed.ClaimerID)
	assert.Equal(t, "Roti Bank", claimed.ClaimerName)
	require.NotNil(t, claimed.ClaimedAt)
	assert.Equal(t, f.now, *claimed.ClaimedAt)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, donor.DonationsCount)

	notes, count, err := f.notifications.GetNotifications(ctx, f.donor.ID.String(), true, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, domain.NotificationDonationClaimed, notes[0].Type)
	assert.Equal(t, d.ID, notes[0].Data.DonationID)
	assert.Equal(t, "Roti Bank", notes[0].Data.ClaimerName)
}

func TestClaimDonationRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	_, err := f.service.ClaimDonation(ctx, d.ID, f.donor.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrSelfClaim)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.ClaimDonation(ctx, uuid.NewString(), f.ngo.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)

	f.claim(t, d.ID)
	_, err = f.service.ClaimDonation(ctx, d.ID, f.otherNGO.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrDonationNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClaimDonationRefusesPastExpiryBeforeSweep(t *testing.T) {
	f := newFixture(t)
	d := f.create(t, "2026-03-01T13:00")
	f.now = f.now.Add(2 * time.Hour)

	_, err := f.service.ClaimDonation(context.Background(), d.ID, f.ngo.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrDonationNotAvailable)
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	claimers := make([]*entities.User, 10)
	for i := range claimers {
		claimers[i] = f.store.AddUser(&entities.User{Name: "NGO", UserType: domain.RoleNGO})
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(claimers))
	for _, c := range claimers {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.service.ClaimDonation(ctx, d.ID, id, "")
			errs <- err
		}(c.ID.String())
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, len(claimers)-1, conflicts)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, donor.DonationsCount)
}

func TestClaimSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t, withNotifier(failingNotifier{}))
	d := f.create(t, "")

	claimed, err := f.service.ClaimDonation(context.Background(), d.ID, f.ngo.ID.String(), "Roti Bank")
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusClaimed, claimed.Status)

	requireDependencyWarning(t, f.hook, "notify_donation_claimed", d.ID)
}

func TestClaimSucceedsWhenDonationsCountFails(t *testing.T) {
	f := newFixture(t, withUsers(func(u user.UserRepository) user.UserRepository {
		return countlessUsers{UserRepository: u}
	}))
	ctx := context.Background()
	d := f.create(t, "")

	claimed, err := f.service.ClaimDonation(ctx, d.ID, f.ngo.ID.String(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusClaimed, claimed.Status)
	assert.Equal(t, "Roti Bank", claimed.ClaimerName)

	stored, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusClaimed, stored.Status)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Zero(t, donor.DonationsCount)

	requireDependencyWarning(t, f.hook, "increment_donations_count", d.ID)
}

func TestCompleteSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t, withNotifier(failingNotifier{}))
	ctx := context.Background()
	d := f.create(t, "")
	f.claim(t, d.ID)

	done, err := f.service.CompleteDonation(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, done.Status)

	stored, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusCompleted, stored.Status)

	requireDependencyWarning(t, f.hook, "notify_donation_completed", d.ID)
}

func TestFeedbackSucceedsWhenRatingFails(t *testing.T) {
	f := newFixture(t, withRater(failingRater{}))
	ctx := context.Background()
	d := f.create(t, "")
	f.claim(t, d.ID)

	rated, err := f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 5})
	require.NoError(t, err)
	require.NotNil(t, rated.Feedback)

	stored, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, 5, stored.Feedback.NGORating)
	assert.Equal(t, domain.DonationStatusClaimed, stored.Status)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Zero(t, donor.TotalRatings)

	notes, _, err := f.notifications.GetNotifications(ctx, f.donor.ID.String(), false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFeedbackReceived, notes[0].Type)

	requireDependencyWarning(t, f.hook, "apply_rating", d.ID)
}

func TestFeedbackSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture(t, withNotifier(failingNotifier{}))
	ctx := context.Background()
	d := f.create(t, "")
	f.claim(t, d.ID)

	_, err := f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 3, Comment: "Late pickup window"})
	require.NoError(t, err)

	stored, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Feedback)
	assert.Equal(t, 3, stored.Feedback.NGORating)
	assert.Equal(t, domain.DonationStatusClaimed, stored.Status)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, donor.TotalRatings)

	requireDependencyWarning(t, f.hook, "notify_feedback_received", d.ID)
}

func TestCompleteDonationNotifiesCounterpart(t *testing.T) {
	ctx := context.Background()

	t.Run("claimer completes", func(t *testing.T) {
		f := newFixture(t)
		d := f.create(t, "")
		f.claim(t, d.ID)

		done, err := f.service.CompleteDonation(ctx, d.ID, f.ngo.ID.String())
		require.NoError(t, err)
		assert.Equal(t, domain.DonationStatusCompleted, done.Status)
		require.NotNil(t, done.CompletedAt)

		notes, _, err := f.notifications.GetNotifications(ctx, f.donor.ID.String(), false, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, domain.NotificationDonationCompleted, notes[0].Type)
	})

	t.Run("donor completes", func(t *testing.T) {
		f := newFixture(t)
		d := f.create(t, "")
		f.claim(t, d.ID)

		_, err := f.service.CompleteDonation(ctx, d.ID, f.donor.ID.String())
		require.NoError(t, err)

		notes, count, err := f.notifications.GetNotifications(ctx, f.ngo.ID.String(), false, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
		assert.Equal(t, domain.NotificationDonationCompleted, notes[0].Type)
	})
}

func TestCompleteDonationRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	_, err := f.service.CompleteDonation(ctx, d.ID, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrDonationNotClaimed)

	f.claim(t, d.ID)
	_, err = f.service.CompleteDonation(ctx, d.ID, f.otherNGO.ID.String())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.service.CompleteDonation(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)
	_, err = f.service.CompleteDonation(ctx, d.ID, f.ngo.ID.String())
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSubmitFeedbackAppliesRating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")
	f.claim(t, d.ID)

	rated, err := f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 4, Comment: "Fresh and well packed"})
	require.NoError(t, err)
	require.NotNil(t, rated.Feedback)
	assert.Equal(t, 4, rated.Feedback.NGORating)
	assert.Equal(t, "Fresh and well packed", rated.Feedback.NGOComment)

	donor, err := f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, donor.RatingSum)
	assert.Equal(t, 1, donor.TotalRatings)
	assert.Equal(t, 4.0, donor.AverageRating)

	notes, _, err := f.notifications.GetNotifications(ctx, f.donor.ID.String(), false, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFeedbackReceived, notes[0].Type)
	assert.Equal(t, 4, notes[0].Data.Rating)

	_, err = f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 2})
	assert.ErrorIs(t, err, domain.ErrFeedbackExists)

	donor, err = f.store.GetUserByID(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, donor.TotalRatings)
}

func TestSubmitFeedbackRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	_, err := f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidRating)

	_, err = f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrFeedbackNotAllowed)

	f.claim(t, d.ID)
	_, err = f.service.SubmitFeedback(ctx, d.ID, f.otherNGO.ID.String(), domain.SubmitFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, domain.ErrNotDonationClaimer)
}

func TestFeedbackAllowedAfterCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")
	f.claim(t, d.ID)
	_, err := f.service.CompleteDonation(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)

	_, err = f.service.SubmitFeedback(ctx, d.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 5})
	assert.NoError(t, err)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")

	res, err := f.service.ToggleLike(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	res, err = f.service.ToggleLike(ctx, d.ID, f.otherNGO.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Likes)

	res, err = f.service.ToggleLike(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, 1, res.Likes)

	got, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.Equal(t, []string{f.otherNGO.ID.String()}, got.LikedBy)
}

func TestListAvailableSweepsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	soon := f.create(t, "2026-03-01T13:00")
	later := f.create(t, "2026-03-05T13:00")
	open := f.create(t, "")
	claimed := f.create(t, "")
	f.claim(t, claimed.ID)

	f.now = f.now.Add(2 * time.Hour)

	list, count, err := f.service.ListAvailable(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	ids := []string{list[0].ID, list[1].ID}
	assert.ElementsMatch(t, []string{later.ID, open.ID}, ids)

	expired, err := f.service.GetDonationByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DonationStatusExpired, expired.Status)
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.create(t, "2026-03-01T12:30")
	f.create(t, "2026-03-01T12:45")
	f.now = f.now.Add(time.Hour)

	swept, err := f.service.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, swept)

	swept, err = f.service.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestExpiredDonationCannotBeClaimed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "2026-03-01T12:30")
	f.now = f.now.Add(time.Hour)
	_, err := f.service.SweepExpired(ctx)
	require.NoError(t, err)

	_, err = f.service.ClaimDonation(ctx, d.ID, f.ngo.ID.String(), "")
	assert.ErrorIs(t, err, domain.ErrDonationNotAvailable)
}

func TestUpdateAndDeleteAreOwnerOnlyWhileAvailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")
	title := "Veg pulao"
	bad := "toys"

	_, err := f.service.UpdateDonation(ctx, d.ID, domain.UpdateDonationRequest{Title: &title}, f.ngo.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedDonationAccess)

	_, err = f.service.UpdateDonation(ctx, d.ID, domain.UpdateDonationRequest{Category: &bad}, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	updated, err := f.service.UpdateDonation(ctx, d.ID, domain.UpdateDonationRequest{Title: &title}, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Veg pulao", updated.Title)

	assert.ErrorIs(t, f.service.DeleteDonation(ctx, d.ID, f.ngo.ID.String()), domain.ErrForbidden)

	f.claim(t, d.ID)
	_, err = f.service.UpdateDonation(ctx, d.ID, domain.UpdateDonationRequest{Title: &title}, f.donor.ID.String())
	assert.ErrorIs(t, err, domain.ErrDonationNotEditable)
	assert.ErrorIs(t, f.service.DeleteDonation(ctx, d.ID, f.donor.ID.String()), domain.ErrConflict)

	other := f.create(t, "")
	require.NoError(t, f.service.DeleteDonation(ctx, other.ID, f.donor.ID.String()))
	_, err = f.service.GetDonationByID(ctx, other.ID)
	assert.ErrorIs(t, err, domain.ErrDonationNotFound)
}

func TestGetDonorProfileListsFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "")
	f.claim(t, first.ID)
	_, err := f.service.SubmitFeedback(ctx, first.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 3})
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	second := f.create(t, "")
	f.claim(t, second.ID)
	_, err = f.service.SubmitFeedback(ctx, second.ID, f.ngo.ID.String(), domain.SubmitFeedbackRequest{Rating: 5, Comment: "Great"})
	require.NoError(t, err)

	f.create(t, "")

	profile, err := f.service.GetDonorProfile(ctx, f.donor.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, profile.Donor.TotalRatings)
	assert.Equal(t, 4.0, profile.Donor.AverageRating)
	require.Len(t, profile.FeedbackHistory, 2)
	assert.Equal(t, second.ID, profile.FeedbackHistory[0].DonationID)
	assert.Equal(t, "Great", profile.FeedbackHistory[0].Comment)
	assert.Equal(t, f.ngo.ID.String(), profile.FeedbackHistory[1].ClaimerID)

	_, err = f.service.GetDonorProfile(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMyAndClaimedDonations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.create(t, "")
	f.create(t, "")
	f.claim(t, a.ID)

	mine, count, err := f.service.GetMyDonations(ctx, f.donor.ID.String(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, mine, 2)

	claimed, count, err := f.service.GetClaimedDonations(ctx, f.ngo.ID.String(), 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, a.ID, claimed[0].ID)
}

func TestRecountLikesRepairsCounters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.create(t, "")
	_, err := f.service.ToggleLike(ctx, d.ID, f.ngo.ID.String())
	require.NoError(t, err)
	f.store.SetLikes(d.ID, 5)

	fixed, err := f.service.RecountLikes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, fixed)

	got, err := f.service.GetDonationByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
}
