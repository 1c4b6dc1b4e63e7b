// Package nickserv — verifier.go проверяет, что ник зарегистрирован
// и аккаунт достаточно старый.
package nickserv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/irc-bot/internal/common"
)

// Store — локальное хранилище записей NickServ.
type Store interface {
	Find(ctx context.Context, nick string) (*Record, error)
	Save(ctx context.Context, rec *Record) error
}

// Directory отправляет запрос "info <nick>" внешнему сервису.
// Ответ приходит асинхронно и попадает в стор через Processor.
type Directory interface {
	RequestInfo(nick string)
}

// Verifier подтверждает личность по записи NickServ.
//
// Машина состояний одной проверки:
// запись есть локально → проверка возраста → успех/отказ;
// записи нет → запрос info → ожидание до таймаута →
// {запись появилась → проверка возраста, таймаут → отказ}.
type Verifier struct {
	store     Store
	directory Directory
	waiters   *Waiters

	timeout    time.Duration
	minAgeDays int

	now func() time.Time // подменяется в тестах
}

// NewVerifier создаёт верификатор.
func NewVerifier(store Store, directory Directory, waiters *Waiters, timeout time.Duration, minAgeDays int) *Verifier {
	return &Verifier{
		store:      store,
		directory:  directory,
		waiters:    waiters,
		timeout:    timeout,
		minAgeDays: minAgeDays,
		now:        time.Now,
	}
}

// Verify возвращает nil при успехе. *ViolationError — личность не
// подтверждена (неизвестный ник или слишком свежий аккаунт). Прочие
// ошибки — проблемы хранилища.
func (v *Verifier) Verify(ctx context.Context, nick string) error {
	key := strings.ToLower(nick)

	record, err := v.store.Find(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		record, err = v.await(ctx, key)
	}
	if err != nil {
		return err
	}

	// Возраст в целых днях от регистрации до текущего момента.
	age := int(v.now().Sub(record.RegisteredAt).Hours() / 24)
	if age < v.minAgeDays {
		return &ViolationError{Nick: nick, Reason: ErrAccountTooNew}
	}
	return nil
}

// await запрашивает info у NickServ и ждёт появления записи в сторе,
// но не дольше таймаута. Просыпается по уведомлению процессора, а не по
// опросу; стор перечитывается после каждого пробуждения и на дедлайне —
// запись могла появиться мимо уведомления.
func (v *Verifier) await(ctx context.Context, nick string) (*Record, error) {
	ch := v.waiters.Register(nick)
	defer v.waiters.Unregister(nick, ch)

	v.directory.RequestInfo(nick)
	log.WithField("nick", nick).Info("Ждём ответ NickServ")

	deadline := time.NewTimer(v.timeout)
	defer deadline.Stop()

	for {
		record, err := v.store.Find(ctx, nick)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("ожидание nickserv %q: %w", nick, err)
		}

		select {
		case <-ch:
			// запись должна была появиться — перечитаем стор
		case <-deadline.C:
			record, err := v.store.Find(ctx, nick)
			if err == nil {
				return record, nil
			}
			log.WithField("nick", nick).Info("NickServ не ответил вовремя")
			return nil, &ViolationError{Nick: nick, Reason: ErrUnknownUser}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
