// Package karma реализует репутацию (карму) по никам.
// models.go описывает структуру для хранения кармы.
package karma

import "time"

// Record хранит карму одного ника. Ник всегда в нижнем регистре —
// "Alice" и "alice" это одна и та же запись.
type Record struct {
	Name           string    `db:"name"`
	Value          int       `db:"value"`
	LastModifiedBy string    `db:"last_modified_by"`
	UpdatedAt      time.Time `db:"updated_at"`
}
