package nickserv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorSavesRecordAndNotifies(t *testing.T) {
	store := newFakeStore()
	waiters := NewWaiters()
	p := NewProcessor(store, waiters)

	ch := waiters.Register("alice")

	p.Process(context.Background(), "Information on \x02Alice\x02 (account alice):")
	p.Process(context.Background(), "Registered : Jan 15 18:30:05 2019 +0000 (7y 3w 2d ago)")

	rec, err := store.Find(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2019, rec.RegisteredAt.Year())
	assert.Equal(t, time.January, rec.RegisteredAt.Month())

	select {
	case <-ch:
	default:
		t.Fatal("ожидающий не был разбужен")
	}
}

func TestProcessorIgnoresRegisteredWithoutInfoLine(t *testing.T) {
	store := newFakeStore()
	p := NewProcessor(store, NewWaiters())

	p.Process(context.Background(), "Registered : Jan 15 18:30:05 2019 +0000")

	_, err := store.Find(context.Background(), "alice")
	require.Error(t, err)
}

func TestProcessorClearsPendingOnUnregisteredNick(t *testing.T) {
	store := newFakeStore()
	p := NewProcessor(store, NewWaiters())

	p.Process(context.Background(), "Information on ghost (account ghost):")
	p.Process(context.Background(), "\x02ghost\x02 is not registered.")
	// залётная строка "Registered :" от другого ответа не должна
	// приклеиться к уже сброшенному нику
	p.Process(context.Background(), "Registered : Jan 15 18:30:05 2019 +0000")

	_, err := store.Find(context.Background(), "ghost")
	require.Error(t, err)
}

func TestParseRegisteredLayouts(t *testing.T) {
	cases := []string{
		"Jan 15 18:30:05 2019 +0000 (7y 3w 2d ago)",
		"Jan 15 18:30:05 2019 UTC",
		"Jan 15 2019 18:30:05 +0000",
	}
	for _, value := range cases {
		parsed, ok := parseRegistered(value)
		require.True(t, ok, value)
		assert.Equal(t, 2019, parsed.Year(), value)
	}

	_, ok := parseRegistered("вчера вечером")
	assert.False(t, ok)
}

func TestWaitersNotifyOnlyMatchingNick(t *testing.T) {
	waiters := NewWaiters()
	alice := waiters.Register("alice")
	bob := waiters.Register("bob")
	defer waiters.Unregister("alice", alice)
	defer waiters.Unregister("bob", bob)

	waiters.Notify("alice")

	select {
	case <-alice:
	default:
		t.Fatal("alice не разбужена")
	}
	select {
	case <-bob:
		t.Fatal("bob разбужен зря")
	default:
	}
}
