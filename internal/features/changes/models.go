// Package changes ведёт append-only журнал изменений для админ-консоли.
// models.go описывает одну запись журнала.
package changes

import "time"

// Change — одна строка журнала («bob changed karma for alice to 4»).
type Change struct {
	ID        int64     `db:"id"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}
