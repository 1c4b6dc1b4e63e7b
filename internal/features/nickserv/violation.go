// Package nickserv — violation.go описывает отказ в подтверждении личности.
package nickserv

import (
	"errors"
	"fmt"
)

// Причины отказа. Завёрнуты в ViolationError, доступны через errors.Is.
var (
	// ErrUnknownUser — NickServ не знает такой ник (или не ответил вовремя).
	ErrUnknownUser = errors.New("unknown user")
	// ErrAccountTooNew — аккаунт моложе минимального возраста.
	ErrAccountTooNew = errors.New("account too new")
)

// ViolationError — личность пользователя не подтверждена. Для вызывающего
// кода это сигнал «выбросить сообщение», а не авария.
type ViolationError struct {
	Nick   string
	Reason error
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("nickserv: отказ для %s: %v", e.Nick, e.Reason)
}

func (e *ViolationError) Unwrap() error { return e.Reason }

// IsViolation сообщает, является ли ошибка отказом в подтверждении личности.
func IsViolation(err error) bool {
	var v *ViolationError
	return errors.As(err, &v)
}
