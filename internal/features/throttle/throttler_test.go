package throttle

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/features/nickserv"
)

type fakeStore struct {
	counts    map[string]int64
	appendErr error
	countErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: make(map[string]int64)}
}

func (f *fakeStore) Append(_ context.Context, userName string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.counts[userName]++
	return nil
}

func (f *fakeStore) CountFor(_ context.Context, userName string) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[userName], nil
}

type fakeVerifier struct {
	err   error
	calls int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) error {
	f.calls++
	return f.err
}

type fakeAdmins struct {
	admins map[string]bool
}

func (f *fakeAdmins) IsAdmin(_ context.Context, nick, host string) (bool, error) {
	return f.admins[nick+"@"+host], nil
}

func user(nick string) bot.User {
	return bot.User{Nick: nick, UserName: nick, Host: "host"}
}

func TestAdminNeverThrottled(t *testing.T) {
	store := newFakeStore()
	verifier := &fakeVerifier{}
	throttler := New(store, verifier, &fakeAdmins{admins: map[string]bool{"root@host": true}}, 2)

	for i := 0; i < 10; i++ {
		throttled, err := throttler.IsThrottled(context.Background(), user("root"))
		require.NoError(t, err)
		assert.False(t, throttled)
	}
	// админ не проверяется и не попадает в журнал
	assert.Zero(t, verifier.calls)
	assert.Empty(t, store.counts)
}

func TestThrottledAfterThresholdExceeded(t *testing.T) {
	store := newFakeStore()
	threshold := int64(3)
	throttler := New(store, &fakeVerifier{}, &fakeAdmins{admins: map[string]bool{}}, threshold)

	// первые threshold сообщений проходят
	for i := int64(0); i < threshold; i++ {
		throttled, err := throttler.IsThrottled(context.Background(), user("bob"))
		require.NoError(t, err)
		assert.False(t, throttled, "сообщение %d не должно душиться", i+1)
	}

	// (threshold+1)-е — уже нет
	throttled, err := throttler.IsThrottled(context.Background(), user("bob"))
	require.NoError(t, err)
	assert.True(t, throttled)
}

// Счётчик накопительный: порог, однажды превышенный, не "остывает".
// Это перенесённое поведение исходной системы, а не временное окно;
// тест фиксирует его как известное свойство.
func TestThrottleCountIsCumulative(t *testing.T) {
	store := newFakeStore()
	throttler := New(store, &fakeVerifier{}, &fakeAdmins{admins: map[string]bool{}}, 1)

	throttler.IsThrottled(context.Background(), user("bob"))
	throttler.IsThrottled(context.Background(), user("bob"))

	// сколько бы времени ни прошло, bob остаётся задушенным
	throttled, err := throttler.IsThrottled(context.Background(), user("bob"))
	require.NoError(t, err)
	assert.True(t, throttled)
}

func TestViolationAbortsBeforeJournal(t *testing.T) {
	store := newFakeStore()
	verifier := &fakeVerifier{err: &nickserv.ViolationError{Nick: "bob", Reason: nickserv.ErrUnknownUser}}
	throttler := New(store, verifier, &fakeAdmins{admins: map[string]bool{}}, 2)

	_, err := throttler.IsThrottled(context.Background(), user("bob"))
	require.Error(t, err)
	assert.True(t, nickserv.IsViolation(err))
	// запись в журнал не делается, пока личность не подтверждена
	assert.Empty(t, store.counts)
}

func TestUsersCountedSeparately(t *testing.T) {
	store := newFakeStore()
	throttler := New(store, &fakeVerifier{}, &fakeAdmins{admins: map[string]bool{}}, 1)

	throttler.IsThrottled(context.Background(), user("bob"))
	throttler.IsThrottled(context.Background(), user("bob"))

	throttled, err := throttler.IsThrottled(context.Background(), user("alice"))
	require.NoError(t, err)
	assert.False(t, throttled)
}

func TestStoreErrorsPropagate(t *testing.T) {
	store := newFakeStore()
	store.appendErr = errors.New("база недоступна")
	throttler := New(store, &fakeVerifier{}, &fakeAdmins{admins: map[string]bool{}}, 2)

	_, err := throttler.IsThrottled(context.Background(), user("bob"))
	require.Error(t, err)
	assert.False(t, nickserv.IsViolation(err))
}
