package models

import "time"

// Tag представляет именованную метку с цветом и иконкой.
type Tag struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Icon      *string   `db:"icon" json:"icon"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TagWithCount - тег вместе с количеством привязанных промптов.
type TagWithCount struct {
	Tag
	PromptCount int64 `db:"prompt_count" json:"promptCount"`
}
