package models

import "time"

// AppSetting - пара ключ/значение настроек приложения.
// Value хранится как непрозрачная JSON-строка.
type AppSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
