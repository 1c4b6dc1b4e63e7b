// Package nickserv подтверждает личность пользователя через сервис
// регистрации ников (NickServ).
// models.go описывает локальную копию ответа NickServ.
package nickserv

import "time"

// Record — сведения о регистрации ника. Пишутся процессором уведомлений,
// читаются верификатором. Для ядра бота запись фактически read-only.
type Record struct {
	Nick         string    `db:"nick"`
	RegisteredAt time.Time `db:"registered_at"`
	FetchedAt    time.Time `db:"fetched_at"`
}
