package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOperation struct {
	name    string
	replies []string
	err     error
	panics  bool
	calls   int
}

func (s *stubOperation) Name() string { return s.name }

func (s *stubOperation) Handle(_ context.Context, event Event) ([]Message, error) {
	s.calls++
	if s.panics {
		panic("стаб упал")
	}
	if s.err != nil {
		return nil, s.err
	}
	var out []Message
	for _, text := range s.replies {
		out = append(out, event.Reply(text))
	}
	return out, nil
}

func TestDispatcherConcatenatesInRegistrationOrder(t *testing.T) {
	first := &stubOperation{name: "first", replies: []string{"a", "b"}}
	second := &stubOperation{name: "second", replies: []string{"c"}}
	d := NewDispatcher(first, second)

	replies := d.Handle(context.Background(), Event{Channel: "#chan"})

	require.Len(t, replies, 3)
	assert.Equal(t, "a", replies[0].Text)
	assert.Equal(t, "b", replies[1].Text)
	assert.Equal(t, "c", replies[2].Text)
}

func TestDispatcherIsolatesFailingOperation(t *testing.T) {
	failing := &stubOperation{name: "failing", err: errors.New("база недоступна")}
	healthy := &stubOperation{name: "healthy", replies: []string{"ok"}}
	d := NewDispatcher(failing, healthy)

	replies := d.Handle(context.Background(), Event{Channel: "#chan"})

	require.Len(t, replies, 1)
	assert.Equal(t, "ok", replies[0].Text)
	assert.Equal(t, 1, failing.calls)
}

func TestDispatcherIsolatesPanickingOperation(t *testing.T) {
	panicking := &stubOperation{name: "panicking", panics: true}
	healthy := &stubOperation{name: "healthy", replies: []string{"ok"}}
	d := NewDispatcher(panicking, healthy)

	replies := d.Handle(context.Background(), Event{Channel: "#chan"})

	require.Len(t, replies, 1)
	assert.Equal(t, "ok", replies[0].Text)
}

func TestReplyTargetsOriginatingChannel(t *testing.T) {
	event := Event{Channel: "#chan", Sender: User{Nick: "bob"}, Message: "hi"}
	msg := event.Reply("hello")

	assert.Equal(t, "#chan", msg.Channel)
	assert.Equal(t, "hello", msg.Text)
	assert.Equal(t, event, msg.Event)
}
