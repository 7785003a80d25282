package models

import "time"

// SystemConfig is a flat key/value tunable from the 'system_config' table.
// Rows are read once at startup and overlaid onto the config struct; the
// running process never re-reads them per request.
type SystemConfig struct {
	ID        int64     `json:"id" db:"id"`
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	Type      string    `json:"type" db:"type"` // string | int | float | bool
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
