// Package admin управляет списком привилегированных пользователей.
// Админ определяется парой ник+хост и освобождается от троттлинга.
// models.go описывает запись списка админов.
package admin

import "time"

// Admin — запись списка админов.
type Admin struct {
	ID        int64     `db:"id"`
	Nick      string    `db:"nick"`
	Host      string    `db:"host"`
	AddedBy   string    `db:"added_by"`
	CreatedAt time.Time `db:"created_at"`
}
