// Package admin — operation.go обрабатывает команду "~admin login".
package admin

import (
	"context"
	"errors"
	"strings"

	"serotonyl.ru/irc-bot/internal/bot"
	"serotonyl.ru/irc-bot/internal/common"
)

const loginPrefix = "~admin login "

// Operation обрабатывает вход в админы.
type Operation struct {
	service *Service
}

// NewOperation создаёт операцию админки.
func NewOperation(service *Service) *Operation {
	return &Operation{service: service}
}

func (o *Operation) Name() string { return "admin" }

// Handle принимает "~admin login <пароль>". Только в личке: пароль,
// произнесённый в канале, считается скомпрометированным и не проверяется.
func (o *Operation) Handle(ctx context.Context, event bot.Event) ([]bot.Message, error) {
	if !strings.HasPrefix(event.Message, loginPrefix) {
		return nil, nil
	}
	password := strings.TrimSpace(event.Message[len(loginPrefix):])
	if password == "" {
		return nil, nil
	}

	if strings.HasPrefix(event.Channel, "#") {
		return []bot.Message{event.Reply("Not here. Message me directly, and change that password.")}, nil
	}

	err := o.service.Login(ctx, event.Sender, password)
	switch {
	case errors.Is(err, common.ErrWrongPassword):
		return []bot.Message{event.Reply("login failed")}, nil
	case errors.Is(err, common.ErrTooManyAttempts):
		return []bot.Message{event.Reply("too many attempts, try again later")}, nil
	case err != nil:
		return nil, err
	}
	return []bot.Message{event.Reply("you are now an admin, " + event.Sender.Nick)}, nil
}
