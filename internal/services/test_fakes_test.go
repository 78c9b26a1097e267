package services

import (
	"context"
	"sync"
	"time"

	"github.com/studypulse/checkin-backend/internal/models"
)

type fakeCheckinKey struct {
	userID string
	day    string
}

// FakeLedgerStore is an in-memory LedgerStore. The map keyed by (user, day)
// plays the role of the unique index; error fields inject failures.
type FakeLedgerStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	checkins map[fakeCheckinKey]time.Time

	statusErr  error
	checkinErr error
	upsertErr  error
}

func NewFakeLedgerStore() *FakeLedgerStore {
	return &FakeLedgerStore{
		users:    make(map[string]*models.User),
		checkins: make(map[fakeCheckinKey]time.Time),
	}
}

func (f *FakeLedgerStore) touch(userID string) *models.User {
	u, ok := f.users[userID]
	if !ok {
		u = &models.User{ClerkUserID: userID, CreatedAt: time.Now()}
		f.users[userID] = u
	}
	u.LastSeenAt = time.Now()
	return u
}

func (f *FakeLedgerStore) snapshot(userID string, day time.Time) models.LedgerSnapshot {
	var total int64
	for k := range f.checkins {
		if k.userID == userID {
			total++
		}
	}
	_, today := f.checkins[fakeCheckinKey{userID, FormatDay(day)}]
	var points int64
	if u, ok := f.users[userID]; ok {
		points = int64(u.Points)
	}
	return models.LedgerSnapshot{CheckedInToday: today, TotalDays: total, Points: points}
}

func (f *FakeLedgerStore) Status(_ context.Context, userID string, day time.Time) (*models.LedgerSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	f.touch(userID)
	snap := f.snapshot(userID, day)
	return &snap, nil
}

func (f *FakeLedgerStore) CheckIn(_ context.Context, userID string, day time.Time, reward int) (*models.CheckinResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.checkinErr != nil {
		return nil, f.checkinErr
	}

	u := f.touch(userID)
	key := fakeCheckinKey{userID, FormatDay(day)}
	_, exists := f.checkins[key]
	if !exists {
		f.checkins[key] = time.Now()
		u.Points += reward
	}
	return &models.CheckinResult{Inserted: !exists, LedgerSnapshot: f.snapshot(userID, day)}, nil
}

func (f *FakeLedgerStore) UpsertProfile(_ context.Context, userID string, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	u := f.touch(userID)
	if profile != nil {
		u.Email = profile.Email
		u.FullName = profile.FullName
		u.AvatarURL = profile.AvatarURL
	}
	return nil
}

func (f *FakeLedgerStore) user(userID string) (models.User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return models.User{}, false
	}
	return *u, true
}

func (f *FakeLedgerStore) recordCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k := range f.checkins {
		if k.userID == userID {
			n++
		}
	}
	return n
}

// fakeClock is a settable time source for DayResolver.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeProfileSource struct {
	profile *models.Profile
	err     error
	calls   int
}

func (f *fakeProfileSource) GetProfile(_ context.Context, _ string) (*models.Profile, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}
