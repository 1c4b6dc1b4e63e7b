// Package common — errors.go определяет общие ошибки,
// которые используются во всех модулях бота.
// Эти ошибки позволяют различать «записи нет» и «хранилище сломалось».
package common

import "errors"

var (
	// ErrNotFound — запись отсутствует в хранилище.
	// Репозитории мапят pgx.ErrNoRows на эту ошибку, чтобы
	// бизнес-логика не зависела от драйвера БД.
	ErrNotFound = errors.New("запись не найдена")
)

// Ошибки админки
var (
	// ErrWrongPassword — неверный пароль
	ErrWrongPassword = errors.New("неверный пароль")
	// ErrTooManyAttempts — слишком много неудачных попыток входа
	ErrTooManyAttempts = errors.New("слишком много попыток, подождите 1 час")
)
