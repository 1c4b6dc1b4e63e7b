// Package admin — repository.go выполняет операции с таблицей admins.
package admin

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей admins.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий админов.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// IsAdmin проверяет членство по паре ник+хост.
func (r *Repository) IsAdmin(ctx context.Context, nick, host string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE nick = $1 AND host = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, nick, host).Scan(&exists); err != nil {
		return false, fmt.Errorf("проверка админа %s@%s: %w", nick, host, err)
	}
	return exists, nil
}

// Add добавляет админа. Повторное добавление той же пары — no-op.
func (r *Repository) Add(ctx context.Context, nick, host, addedBy string) error {
	query := `
		INSERT INTO admins (nick, host, added_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (nick, host) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, nick, host, addedBy); err != nil {
		return fmt.Errorf("добавление админа %s@%s: %w", nick, host, err)
	}
	return nil
}
