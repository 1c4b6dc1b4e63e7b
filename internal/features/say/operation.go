// Package say — операция "~say <текст>": бот повторяет текст в канал.
// Доступна только админам; для остальных команда молча игнорируется.
package say

import (
	"context"
	"fmt"
	"strings"

	"serotonyl.ru/irc-bot/internal/bot"
)

const prefix = "~say "

// AdminChecker проверяет членство в списке админов.
type AdminChecker interface {
	IsAdmin(ctx context.Context, nick, host string) (bool, error)
}

// Operation обрабатывает "~say".
type Operation struct {
	admins AdminChecker
}

// NewOperation создаёт операцию say.
func NewOperation(admins AdminChecker) *Operation {
	return &Operation{admins: admins}
}

func (o *Operation) Name() string { return "say" }

func (o *Operation) Handle(ctx context.Context, event bot.Event) ([]bot.Message, error) {
	if !strings.HasPrefix(event.Message, prefix) {
		return nil, nil
	}
	text := strings.TrimSpace(event.Message[len(prefix):])
	if text == "" {
		return nil, nil
	}

	isAdmin, err := o.admins.IsAdmin(ctx, event.Sender.Nick, event.Sender.Host)
	if err != nil {
		return nil, fmt.Errorf("say: %w", err)
	}
	if !isAdmin {
		return nil, nil
	}
	return []bot.Message{event.Reply(text)}, nil
}
