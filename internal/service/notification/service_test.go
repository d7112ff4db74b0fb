package notification

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchnotify/notifier-api/internal/model"
	"github.com/watchnotify/notifier-api/internal/sender"
	apperrors "github.com/watchnotify/notifier-api/pkg/errors"
	"github.com/watchnotify/notifier-api/pkg/logger"
	"github.com/watchnotify/notifier-api/pkg/metrics"
)

type fakeReleaseRepo struct {
	mu         sync.Mutex
	releases   map[uuid.UUID]*model.Release
	markedIDs  []uuid.UUID
	markErr    error
	unnotified []*model.Release
	upcoming   []*model.Release
	limited    []*model.Release
	listErr    error
}

func newFakeReleaseRepo(releases ...*model.Release) *fakeReleaseRepo {
	r := &fakeReleaseRepo{releases: make(map[uuid.UUID]*model.Release)}
	for _, rel := range releases {
		r.releases[rel.ID] = rel
	}
	return r
}

func (r *fakeReleaseRepo) Create(ctx context.Context, release *model.Release) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases[release.ID] = release
	return nil
}

func (r *fakeReleaseRepo) Get(ctx context.Context, id uuid.UUID) (*model.Release, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	release, ok := r.releases[id]
	if !ok {
		return nil, apperrors.NotFound("release", nil)
	}
	return release, nil
}

func (r *fakeReleaseRepo) Update(ctx context.Context, release *model.Release) error { return nil }
func (r *fakeReleaseRepo) Delete(ctx context.Context, id uuid.UUID) error           { return nil }

func (r *fakeReleaseRepo) List(ctx context.Context) ([]*model.Release, error) {
	return nil, nil
}

func (r *fakeReleaseRepo) ListUnnotified(ctx context.Context) ([]*model.Release, error) {
	return r.unnotified, r.listErr
}

func (r *fakeReleaseRepo) ListUpcoming(ctx context.Context, onOrAfter time.Time) ([]*model.Release, error) {
	return r.upcoming, r.listErr
}

func (r *fakeReleaseRepo) ListLimitedEdition(ctx context.Context) ([]*model.Release, error) {
	return r.limited, r.listErr
}

func (r *fakeReleaseRepo) ListByBrand(ctx context.Context, brand string) ([]*model.Release, error) {
	return nil, nil
}

func (r *fakeReleaseRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Release, error) {
	return nil, nil
}

func (r *fakeReleaseRepo) MarkNotified(ctx context.Context, id uuid.UUID, notifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	r.markedIDs = append(r.markedIDs, id)
	if release, ok := r.releases[id]; ok {
		release.IsNotified = true
		release.NotifiedAt = &notifiedAt
	}
	return nil
}

type fakeUserRepo struct {
	users []*model.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error     { return nil }

func (r *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) ListActive(ctx context.Context) ([]*model.User, error) {
	var active []*model.User
	for _, u := range r.users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}

func (r *fakeUserRepo) ListActiveWithPreferences(ctx context.Context, tags []string) ([]*model.User, error) {
	var matched []*model.User
	for _, u := range r.users {
		if u.IsActive && overlaps(u.Preferences, tags) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (r *fakeUserRepo) ListActiveWithPreferencesAndEmail(ctx context.Context, tags []string) ([]*model.User, error) {
	var matched []*model.User
	for _, u := range r.users {
		if u.IsActive && u.EmailEnabled && overlaps(u.Preferences, tags) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func overlaps(prefs []string, tags []string) bool {
	for _, p := range prefs {
		for _, t := range tags {
			if p == t {
				return true
			}
		}
	}
	return false
}

type fakeNotificationRepo struct {
	mu   sync.Mutex
	rows []*model.Notification
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListByStatus(ctx context.Context, status model.NotificationStatus) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.rows {
		if n.Status == status {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]*model.Notification, error) {
	return r.all(), nil
}

func (r *fakeNotificationRepo) ListByRelease(ctx context.Context, releaseID uuid.UUID) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Notification
	for _, n := range r.rows {
		if n.ReleaseID == releaseID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountSentByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.UserID == userID && n.Status == model.NotificationStatusSent {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) all() []*model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Notification, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *fakeNotificationRepo) byChannel(channel model.NotificationChannel) []*model.Notification {
	var out []*model.Notification
	for _, n := range r.all() {
		if n.Channel == channel {
			out = append(out, n)
		}
	}
	return out
}

type fakeSender struct {
	mu    sync.Mutex
	sent  []*sender.Message
	err   error
	delay time.Duration
}

func (s *fakeSender) Send(ctx context.Context, msg *sender.Message) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{
		Level:      logger.ErrorLevel,
		TimeFormat: time.RFC3339,
		Output:     io.Discard,
	})
}

func testMetrics() *metrics.Metrics {
	return metrics.NewWith(prometheus.NewRegistry(), "test")
}

type fixture struct {
	service       Service
	releases      *fakeReleaseRepo
	users         *fakeUserRepo
	notifications *fakeNotificationRepo
	email         *fakeSender
	sms           *fakeSender
	push          *fakeSender
}

func newFixture(cfg Config, users []*model.User, releases ...*model.Release) *fixture {
	f := &fixture{
		releases:      newFakeReleaseRepo(releases...),
		users:         &fakeUserRepo{users: users},
		notifications: &fakeNotificationRepo{},
		email:         &fakeSender{},
		sms:           &fakeSender{},
		push:          &fakeSender{},
	}
	f.service = NewService(
		f.notifications,
		f.releases,
		NewSelector(f.users),
		sender.Senders{Email: f.email, SMS: f.sms, Push: f.push},
		testLogger(),
		testMetrics(),
		cfg,
	)
	return f
}

func strPtr(s string) *string { return &s }

func testRelease() *model.Release {
	release := &model.Release{
		WatchName: "Submariner Date",
		Brand:     "Rolex",
	}
	release.ID = uuid.New()
	return release
}

func testUser(first string, email, sms, push bool) *model.User {
	u := &model.User{
		FirstName:    first,
		LastName:     "Tester",
		Email:        first + "@example.com",
		IsActive:     true,
		EmailEnabled: email,
		SMSEnabled:   sms,
		PushEnabled:  push,
	}
	u.ID = uuid.New()
	return u
}

func TestDispatchRecordsOneRowPerUserChannel(t *testing.T) {
	release := testRelease()

	alice := testUser("alice", true, false, true)
	bob := testUser("bob", false, true, false)
	bob.Phone = strPtr("+15550001111")
	carol := testUser("carol", true, true, true)
	carol.IsActive = false

	f := newFixture(Config{}, []*model.User{alice, bob, carol}, release)

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
		SendSMS:   true,
		SendPush:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, outcome.Sent)
	assert.Equal(t, 0, outcome.Failed)
	assert.Equal(t, 0, outcome.Skipped)

	rows := f.notifications.all()
	require.Len(t, rows, 3)

	// alice: email + push, bob: sms only, carol: inactive so nothing
	aliceRows, _ := f.notifications.ListByUser(context.Background(), alice.ID)
	assert.Len(t, aliceRows, 2)
	bobRows, _ := f.notifications.ListByUser(context.Background(), bob.ID)
	require.Len(t, bobRows, 1)
	assert.Equal(t, model.ChannelSMS, bobRows[0].Channel)
	assert.Equal(t, "+15550001111", bobRows[0].Recipient)
	carolRows, _ := f.notifications.ListByUser(context.Background(), carol.ID)
	assert.Empty(t, carolRows)

	for _, row := range rows {
		assert.Equal(t, model.NotificationStatusSent, row.Status)
		assert.NotNil(t, row.SentAt)
		assert.Nil(t, row.ErrorMessage)
		assert.Equal(t, release.ID, row.ReleaseID)
	}
}

func TestDispatchMarksNotifiedWithZeroRecipients(t *testing.T) {
	release := testRelease()
	f := newFixture(Config{}, nil, release)

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
	})
	require.NoError(t, err)

	assert.Equal(t, &model.DispatchOutcome{}, outcome)
	assert.Empty(t, f.notifications.all())
	require.Len(t, f.releases.markedIDs, 1)
	assert.Equal(t, release.ID, f.releases.markedIDs[0])
	assert.True(t, release.IsNotified)
}

func TestDispatchSkipsSMSWithoutPhone(t *testing.T) {
	release := testRelease()
	user := testUser("dave", false, true, false)
	// SMS opted in but no phone number on file

	f := newFixture(Config{}, []*model.User{user}, release)

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendSMS:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, outcome.Sent)
	assert.Equal(t, 1, outcome.Skipped)
	assert.Empty(t, f.notifications.byChannel(model.ChannelSMS))
	assert.Zero(t, f.sms.count())
	// Skipped users never block the terminal state update
	assert.Len(t, f.releases.markedIDs, 1)
}

func TestDispatchRecordsFailureAndContinues(t *testing.T) {
	release := testRelease()
	user := testUser("erin", true, true, false)
	user.Phone = strPtr("+15550002222")

	f := newFixture(Config{}, []*model.User{user}, release)
	f.sms.err = fmt.Errorf("gateway unavailable")

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
		SendSMS:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Sent)
	assert.Equal(t, 1, outcome.Failed)

	smsRows := f.notifications.byChannel(model.ChannelSMS)
	require.Len(t, smsRows, 1)
	assert.Equal(t, model.NotificationStatusFailed, smsRows[0].Status)
	require.NotNil(t, smsRows[0].ErrorMessage)
	assert.Contains(t, *smsRows[0].ErrorMessage, "gateway unavailable")
	assert.Nil(t, smsRows[0].SentAt)

	emailRows := f.notifications.byChannel(model.ChannelEmail)
	require.Len(t, emailRows, 1)
	assert.Equal(t, model.NotificationStatusSent, emailRows[0].Status)

	// A failed channel never prevents the notified flag
	assert.Len(t, f.releases.markedIDs, 1)
}

func TestDispatchTimesOutHungSender(t *testing.T) {
	release := testRelease()
	user := testUser("frank", true, false, false)

	f := newFixture(Config{AttemptTimeout: 25 * time.Millisecond}, []*model.User{user}, release)
	f.email.delay = 500 * time.Millisecond

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Failed)
	rows := f.notifications.all()
	require.Len(t, rows, 1)
	assert.Equal(t, model.NotificationStatusFailed, rows[0].Status)
	require.NotNil(t, rows[0].ErrorMessage)
	assert.Contains(t, *rows[0].ErrorMessage, "context deadline exceeded")
}

func TestDispatchAppendsOnRedispatch(t *testing.T) {
	release := testRelease()
	user := testUser("grace", true, false, false)

	f := newFixture(Config{}, []*model.User{user}, release)

	req := &model.DispatchRequest{ReleaseID: release.ID, SendEmail: true}
	_, err := f.service.Dispatch(context.Background(), req)
	require.NoError(t, err)
	_, err = f.service.Dispatch(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, f.notifications.all(), 2)
	assert.Len(t, f.releases.markedIDs, 2)
}

func TestDispatchUnknownReleaseAborts(t *testing.T) {
	user := testUser("heidi", true, true, true)
	f := newFixture(Config{}, []*model.User{user})

	_, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: uuid.New(),
		SendEmail: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, f.notifications.all())
	assert.Empty(t, f.releases.markedIDs)
}

func TestDispatchValidatesRequest(t *testing.T) {
	f := newFixture(Config{}, nil)

	_, err := f.service.Dispatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.service.Dispatch(context.Background(), &model.DispatchRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestDispatchReturnsOutcomeOnMarkFailure(t *testing.T) {
	release := testRelease()
	user := testUser("ivan", true, false, false)

	f := newFixture(Config{}, []*model.User{user}, release)
	f.releases.markErr = fmt.Errorf("connection reset")

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
	})
	require.Error(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, 1, outcome.Sent)
	// Attempt rows survive even when the flag update fails
	assert.Len(t, f.notifications.all(), 1)
}

func TestDispatchBoundedPoolProcessesAllAttempts(t *testing.T) {
	release := testRelease()

	var users []*model.User
	for i := 0; i < 20; i++ {
		users = append(users, testUser(fmt.Sprintf("user%02d", i), true, false, true))
	}

	f := newFixture(Config{MaxConcurrentSends: 2}, users, release)

	outcome, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
		SendPush:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, outcome.Sent)
	assert.Len(t, f.notifications.all(), 40)
	assert.Equal(t, 20, f.email.count())
	assert.Equal(t, 20, f.push.count())
	assert.Len(t, f.releases.markedIDs, 1)
}

func TestDispatchNeverRecordsPending(t *testing.T) {
	release := testRelease()
	ok := testUser("judy", true, false, true)
	bad := testUser("ken", false, true, false)
	bad.Phone = strPtr("+15550003333")

	f := newFixture(Config{}, []*model.User{ok, bad}, release)
	f.sms.err = fmt.Errorf("number unreachable")

	_, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
		SendSMS:   true,
		SendPush:  true,
	})
	require.NoError(t, err)

	for _, row := range f.notifications.all() {
		assert.Contains(t,
			[]model.NotificationStatus{model.NotificationStatusSent, model.NotificationStatusFailed},
			row.Status,
		)
	}
}

func TestCountSentForUser(t *testing.T) {
	release := testRelease()
	user := testUser("laura", true, false, true)

	f := newFixture(Config{}, []*model.User{user}, release)

	_, err := f.service.Dispatch(context.Background(), &model.DispatchRequest{
		ReleaseID: release.ID,
		SendEmail: true,
		SendPush:  true,
	})
	require.NoError(t, err)

	count, err := f.service.CountSentForUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
