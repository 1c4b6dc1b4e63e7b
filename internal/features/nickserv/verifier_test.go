package nickserv

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/irc-bot/internal/common"
)

type fakeStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*Record)}
}

func (f *fakeStore) Find(_ context.Context, nick string) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[nick]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeStore) Save(_ context.Context, rec *Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	f.records[rec.Nick] = &cp
	return nil
}

type fakeDirectory struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeDirectory) RequestInfo(nick string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, nick)
}

func (f *fakeDirectory) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newVerifier(store Store, directory Directory, waiters *Waiters, timeout time.Duration) *Verifier {
	return NewVerifier(store, directory, waiters, timeout, 7)
}

func TestVerifySucceedsForAgedLocalRecord(t *testing.T) {
	store := newFakeStore()
	store.Save(context.Background(), &Record{
		Nick:         "alice",
		RegisteredAt: time.Now().AddDate(-1, 0, 0),
	})
	directory := &fakeDirectory{}
	v := newVerifier(store, directory, NewWaiters(), time.Second)

	require.NoError(t, v.Verify(context.Background(), "Alice"))
	// запись есть локально — запрос к NickServ не отправляется
	assert.Empty(t, directory.requested())
}

func TestVerifyRejectsTooNewAccount(t *testing.T) {
	store := newFakeStore()
	store.Save(context.Background(), &Record{
		Nick:         "alice",
		RegisteredAt: time.Now().Add(-48 * time.Hour),
	})
	v := newVerifier(store, &fakeDirectory{}, NewWaiters(), time.Second)

	err := v.Verify(context.Background(), "alice")
	require.Error(t, err)
	assert.True(t, IsViolation(err))
	assert.ErrorIs(t, err, ErrAccountTooNew)
}

func TestVerifyAcceptsAccountAtMinimumAge(t *testing.T) {
	store := newFakeStore()
	store.Save(context.Background(), &Record{
		Nick:         "alice",
		RegisteredAt: time.Now().Add(-(7*24*time.Hour + time.Minute)),
	})
	v := newVerifier(store, &fakeDirectory{}, NewWaiters(), time.Second)

	require.NoError(t, v.Verify(context.Background(), "alice"))
}

func TestVerifyTimesOutWhenNoReplyArrives(t *testing.T) {
	store := newFakeStore()
	directory := &fakeDirectory{}
	v := newVerifier(store, directory, NewWaiters(), 50*time.Millisecond)

	start := time.Now()
	err := v.Verify(context.Background(), "ghost")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, IsViolation(err))
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Equal(t, []string{"ghost"}, directory.requested())
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestVerifyWakesUpWhenRecordArrives(t *testing.T) {
	store := newFakeStore()
	waiters := NewWaiters()
	directory := &fakeDirectory{}
	// таймаут нарочно большой: тест должен закончиться по уведомлению
	v := newVerifier(store, directory, waiters, 10*time.Second)

	go func() {
		time.Sleep(30 * time.Millisecond)
		store.Save(context.Background(), &Record{
			Nick:         "alice",
			RegisteredAt: time.Now().AddDate(-1, 0, 0),
		})
		waiters.Notify("alice")
	}()

	start := time.Now()
	err := v.Verify(context.Background(), "alice")
	elapsed := time.Since(start)

	require.NoError(t, err)
	// проснулись по приходу записи, а не отсидели весь таймаут
	assert.Less(t, elapsed, time.Second)
}

func TestVerifyHonorsContextCancellation(t *testing.T) {
	store := newFakeStore()
	ctx, cancel := context.WithCancel(context.Background())
	v := newVerifier(store, &fakeDirectory{}, NewWaiters(), 10*time.Second)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := v.Verify(ctx, "ghost")
	require.Error(t, err)
	assert.False(t, IsViolation(err))
}
