package say

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/irc-bot/internal/bot"
)

type fakeAdmins struct {
	admins map[string]bool
}

func (f *fakeAdmins) IsAdmin(_ context.Context, nick, host string) (bool, error) {
	return f.admins[nick+"@"+host], nil
}

func event(nick, message string) bot.Event {
	return bot.Event{
		Channel: "#chan",
		Sender:  bot.User{Nick: nick, Host: "host"},
		Message: message,
	}
}

func TestSayEchoesForAdmin(t *testing.T) {
	op := NewOperation(&fakeAdmins{admins: map[string]bool{"root@host": true}})

	replies, err := op.Handle(context.Background(), event("root", "~say MAGNIFICENT"))
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "MAGNIFICENT", replies[0].Text)
}

func TestSayIgnoredForNonAdmin(t *testing.T) {
	op := NewOperation(&fakeAdmins{admins: map[string]bool{}})

	replies, err := op.Handle(context.Background(), event("bob", "~say MAGNIFICENT"))
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestSayIgnoresEmptyAndForeignMessages(t *testing.T) {
	op := NewOperation(&fakeAdmins{admins: map[string]bool{"root@host": true}})

	for _, message := range []string{"~say   ", "say hi", "просто текст"} {
		replies, err := op.Handle(context.Background(), event("root", message))
		require.NoError(t, err, message)
		assert.Empty(t, replies, message)
	}
}
