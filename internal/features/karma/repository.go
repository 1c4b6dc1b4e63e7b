// Package karma — repository.go выполняет операции с таблицей karma.
package karma

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"serotonyl.ru/irc-bot/internal/common"
)

// Repository работает с таблицей karma.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository создаёт репозиторий кармы.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Find возвращает карму по нику (ник уже в нижнем регистре).
// Если записи нет — common.ErrNotFound.
func (r *Repository) Find(ctx context.Context, name string) (*Record, error) {
	query := `
		SELECT name, value, last_modified_by, updated_at
		FROM karma WHERE name = $1
	`
	var rec Record
	err := r.db.QueryRow(ctx, query, name).Scan(
		&rec.Name, &rec.Value, &rec.LastModifiedBy, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("поиск кармы %q: %w", name, err)
	}
	return &rec, nil
}

// Adjust атомарно меняет карму ника на delta и возвращает новое состояние.
// Несуществующий ник создаётся со значением 0 и сразу получает delta.
// Инкремент выполняется на стороне БД, чтобы параллельные ++/-- одного
// ника не теряли обновления.
func (r *Repository) Adjust(ctx context.Context, name string, delta int, modifiedBy string) (*Record, error) {
	query := `
		INSERT INTO karma (name, value, last_modified_by)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET value = karma.value + $2, last_modified_by = $3, updated_at = NOW()
		RETURNING name, value, last_modified_by, updated_at
	`
	var rec Record
	err := r.db.QueryRow(ctx, query, name, delta, modifiedBy).Scan(
		&rec.Name, &rec.Value, &rec.LastModifiedBy, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("изменение кармы %q: %w", name, err)
	}
	return &rec, nil
}

// Top возвращает n ников с наибольшей кармой (для анонсов планировщика).
func (r *Repository) Top(ctx context.Context, n int) ([]Record, error) {
	query := `
		SELECT name, value, last_modified_by, updated_at
		FROM karma ORDER BY value DESC, name LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("топ кармы: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Name, &rec.Value, &rec.LastModifiedBy, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("топ кармы: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
