// Package throttle ограничивает, сколько сообщений бот принимает
// от одного пользователя.
// models.go описывает запись журнала допуска.
package throttle

import "time"

// Event — одна запись о допущенном сообщении. Журнал append-only:
// ядро бота записи не меняет и не удаляет (ретенция — внешняя забота).
type Event struct {
	ID        int64     `db:"id"`
	UserName  string    `db:"user_name"`
	CreatedAt time.Time `db:"created_at"`
}
