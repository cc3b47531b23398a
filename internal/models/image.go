package models

import "time"

// PromptImage - загруженное изображение, привязанное к промпту.
// StoredName глобально уникален (UUID с сохранением расширения),
// Path и Thumbnail хранятся как URL-безопасные относительные пути.
type PromptImage struct {
	ID         string    `db:"id" json:"id"`
	PromptID   string    `db:"prompt_id" json:"promptId"`
	Filename   string    `db:"filename" json:"filename"`
	StoredName string    `db:"stored_name" json:"storedName"`
	MimeType   string    `db:"mime_type" json:"mimeType"`
	Size       int64     `db:"size" json:"size"`
	Path       string    `db:"path" json:"path"`
	Thumbnail  string    `db:"thumbnail" json:"thumbnail"`
	Width      int64     `db:"width" json:"width"`
	Height     int64     `db:"height" json:"height"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
