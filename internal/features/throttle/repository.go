// Package throttle — repository.go выполняет операции с таблицей throttle_events.
package throttle

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей throttle_events.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала допуска.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Append добавляет одну запись для пользователя.
func (r *Repository) Append(ctx context.Context, userName string) error {
	query := `INSERT INTO throttle_events (user_name) VALUES ($1)`
	if _, err := r.db.Exec(ctx, query, userName); err != nil {
		return fmt.Errorf("запись throttle-события %q: %w", userName, err)
	}
	return nil
}

// CountFor возвращает число ВСЕХ записей пользователя за всю историю.
func (r *Repository) CountFor(ctx context.Context, userName string) (int64, error) {
	query := `SELECT COUNT(*) FROM throttle_events WHERE user_name = $1`
	var count int64
	if err := r.db.QueryRow(ctx, query, userName).Scan(&count); err != nil {
		return 0, fmt.Errorf("подсчёт throttle-событий %q: %w", userName, err)
	}
	return count, nil
}
