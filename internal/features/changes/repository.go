// Package changes — repository.go выполняет операции с таблицей changes.
package changes

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository работает с таблицей changes.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий журнала изменений.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Record добавляет строку в журнал.
func (r *Repository) Record(ctx context.Context, text string) error {
	query := `INSERT INTO changes (message) VALUES ($1)`
	if _, err := r.db.Exec(ctx, query, text); err != nil {
		return fmt.Errorf("запись в журнал изменений: %w", err)
	}
	return nil
}
