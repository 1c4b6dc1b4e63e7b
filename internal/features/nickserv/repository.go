// Package nickserv — repository.go выполняет операции с таблицей nickserv_info.
package nickserv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/irc-bot/internal/common"
)

// Repository работает с таблицей nickserv_info.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий записей NickServ.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Find возвращает запись по нику. Если записи нет — common.ErrNotFound.
func (r *Repository) Find(ctx context.Context, nick string) (*Record, error) {
	query := `
		SELECT nick, registered_at, fetched_at
		FROM nickserv_info WHERE nick = $1
	`
	var rec Record
	err := r.db.QueryRow(ctx, query, nick).Scan(&rec.Nick, &rec.RegisteredAt, &rec.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("поиск nickserv-записи %q: %w", nick, err)
	}
	return &rec, nil
}

// Save сохраняет запись (upsert по нику). Повторный ответ NickServ
// просто обновляет дату регистрации.
func (r *Repository) Save(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO nickserv_info (nick, registered_at)
		VALUES ($1, $2)
		ON CONFLICT (nick) DO UPDATE
		SET registered_at = EXCLUDED.registered_at, fetched_at = NOW()
	`
	if _, err := r.db.Exec(ctx, query, rec.Nick, rec.RegisteredAt); err != nil {
		return fmt.Errorf("сохранение nickserv-записи %q: %w", rec.Nick, err)
	}
	return nil
}
