// Package throttle — throttler.go решает, допускать ли сообщение.
package throttle

import (
	"context"
	"fmt"

	"serotonyl.ru/irc-bot/internal/bot"
)

// Store — персистентный журнал допуска.
type Store interface {
	Append(ctx context.Context, userName string) error
	CountFor(ctx context.Context, userName string) (int64, error)
}

// Verifier подтверждает личность отправителя. Ошибка
// nickserv.ViolationError прерывает весь путь допуска.
type Verifier interface {
	Verify(ctx context.Context, nick string) error
}

// AdminChecker проверяет членство в списке админов по нику и хосту.
type AdminChecker interface {
	IsAdmin(ctx context.Context, nick, host string) (bool, error)
}

// Throttler — проверка допуска перед запуском операций.
type Throttler struct {
	store     Store
	verifier  Verifier
	admins    AdminChecker
	threshold int64
}

// New создаёт троттлер с порогом из конфигурации.
func New(store Store, verifier Verifier, admins AdminChecker, threshold int64) *Throttler {
	return &Throttler{store: store, verifier: verifier, admins: admins, threshold: threshold}
}

// IsThrottled вызывается один раз на входящее сообщение.
//
// Порядок важен: админы проходят без проверок и без записи в журнал;
// для остальных сначала подтверждаем личность, потом пишем запись и
// сравниваем накопленный счёт с порогом.
//
// Счётчик НАКОПИТЕЛЬНЫЙ, без временного окна: пользователь, однажды
// перешагнувший порог, остаётся задушенным навсегда. Так ведёт себя
// исходная система; менять без решения продукта нельзя.
func (t *Throttler) IsThrottled(ctx context.Context, user bot.User) (bool, error) {
	isAdmin, err := t.admins.IsAdmin(ctx, user.Nick, user.Host)
	if err != nil {
		return false, fmt.Errorf("проверка админа %s: %w", user.Nick, err)
	}
	if isAdmin {
		return false, nil
	}

	if err := t.verifier.Verify(ctx, user.Nick); err != nil {
		return false, err
	}

	if err := t.store.Append(ctx, user.UserName); err != nil {
		return false, err
	}

	count, err := t.store.CountFor(ctx, user.UserName)
	if err != nil {
		return false, err
	}
	return count > t.threshold, nil
}
