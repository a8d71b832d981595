package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/music-manager/internal/model"
	"github.com/iliyamo/music-manager/internal/queue"
	"github.com/iliyamo/music-manager/internal/repository"
)

// testClock is a controllable time source shared between a test's fakes
// and its token manager.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	byID map[string]*model.User
}

func newFakeUsers(users ...model.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*model.User{}}
	for i := range users {
		u := users[i]
		f.byID[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, u model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.byID[u.ID] = &u
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (model.User, error) {
	if u, ok := f.byID[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeUsers) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) UpdateUsername(ctx context.Context, id, username string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Username = username
	return nil
}

// fakeDenylist mimics the Redis-backed denylist including TTL expiry: an
// entry past its recorded deadline behaves as absent.
type fakeDenylist struct {
	now     func() time.Time
	entries map[string]time.Time
}

func newFakeDenylist(now func() time.Time) *fakeDenylist {
	return &fakeDenylist{now: now, entries: map[string]time.Time{}}
}

func (f *fakeDenylist) Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	if deadline, ok := f.entries[jti]; ok && deadline.After(f.now()) {
		return false, nil
	}
	f.entries[jti] = expiresAt
	return true, nil
}

func (f *fakeDenylist) Contains(ctx context.Context, jti string) (bool, error) {
	deadline, ok := f.entries[jti]
	return ok && deadline.After(f.now()), nil
}

type expiringValue struct {
	value    string
	deadline time.Time
}

// fakeOTPs is an in-memory OTPStore with TTL semantics.
type fakeOTPs struct {
	now      func() time.Time
	codes    map[string]expiringValue
	verified map[string]expiringValue
}

func newFakeOTPs(now func() time.Time) *fakeOTPs {
	return &fakeOTPs{now: now, codes: map[string]expiringValue{}, verified: map[string]expiringValue{}}
}

func (f *fakeOTPs) Save(ctx context.Context, userID, code string, ttl time.Duration) error {
	f.codes[userID] = expiringValue{value: code, deadline: f.now().Add(ttl)}
	return nil
}

func (f *fakeOTPs) Consume(ctx context.Context, userID, code string) (bool, error) {
	return consumeExpiring(f.codes, userID, code, f.now()), nil
}

func (f *fakeOTPs) MarkVerified(ctx context.Context, userID, code string, ttl time.Duration) error {
	f.verified[userID] = expiringValue{value: code, deadline: f.now().Add(ttl)}
	return nil
}

func (f *fakeOTPs) ConsumeVerified(ctx context.Context, userID, code string) (bool, error) {
	return consumeExpiring(f.verified, userID, code, f.now()), nil
}

// lastCode exposes the live code for a user so flow tests can read what
// "the mail" would have carried.
func (f *fakeOTPs) lastCode(userID string) string {
	return f.codes[userID].value
}

func consumeExpiring(m map[string]expiringValue, key, value string, now time.Time) bool {
	e, ok := m[key]
	if !ok || !e.deadline.After(now) || e.value != value {
		return false
	}
	delete(m, key)
	return true
}

// fakeTemps is an in-memory TempPasswordStore.
type fakeTemps struct {
	now       func() time.Time
	passwords map[string]expiringValue
}

func newFakeTemps(now func() time.Time) *fakeTemps {
	return &fakeTemps{now: now, passwords: map[string]expiringValue{}}
}

func (f *fakeTemps) Issue(ctx context.Context, email, password string, ttl time.Duration) error {
	f.passwords[email] = expiringValue{value: password, deadline: f.now().Add(ttl)}
	return nil
}

func (f *fakeTemps) Consume(ctx context.Context, email, password string) (bool, error) {
	return consumeExpiring(f.passwords, email, password, f.now()), nil
}

// fakeMail records enqueued events instead of publishing them.
type fakeMail struct {
	events []queue.EmailEvent
	err    error
}

func (f *fakeMail) Publish(ctx context.Context, event queue.EmailEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

// fakeSongs is an in-memory SongStore keeping insertion order.
type fakeSongs struct {
	songs []model.Song
}

func (f *fakeSongs) Insert(ctx context.Context, s model.Song) error {
	f.songs = append(f.songs, s)
	return nil
}

func (f *fakeSongs) GetByID(ctx context.Context, id string) (model.Song, error) {
	for _, s := range f.songs {
		if s.ID == id {
			return s, nil
		}
	}
	return model.Song{}, repository.ErrNotFound
}

func (f *fakeSongs) Update(ctx context.Context, s model.Song) error {
	for i := range f.songs {
		if f.songs[i].ID == s.ID {
			f.songs[i] = s
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSongs) Delete(ctx context.Context, id string) error {
	for i := range f.songs {
		if f.songs[i].ID == id {
			f.songs = append(f.songs[:i], f.songs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeSongs) ListByOwner(ctx context.Context, ownerID string) ([]model.Song, error) {
	var out []model.Song
	for _, s := range f.songs {
		if s.UploadedBy == ownerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSongs) SearchByName(ctx context.Context, ownerID, keyword string) ([]model.Song, error) {
	owned, _ := f.ListByOwner(ctx, ownerID)
	var out []model.Song
	for _, s := range owned {
		if containsFold(s.Name, keyword) {
			out = append(out, s)
		}
	}
	return out, nil
}

// PageByOwner slices newest-first like the SQL implementation orders by
// created_at DESC.
func (f *fakeSongs) PageByOwner(ctx context.Context, ownerID string, page, size int) ([]model.Song, int64, error) {
	owned, _ := f.ListByOwner(ctx, ownerID)
	for i, j := 0, len(owned)-1; i < j; i, j = i+1, j-1 {
		owned[i], owned[j] = owned[j], owned[i]
	}
	start := page * size
	if start >= len(owned) {
		return nil, int64(len(owned)), nil
	}
	end := start + size
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], int64(len(owned)), nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
