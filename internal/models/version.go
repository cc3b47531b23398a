package models

import "time"

// PromptVersion - неизменяемый снимок содержимого промпта.
// Номера версий строго возрастают в пределах одного промпта, начиная с 1.
type PromptVersion struct {
	ID            string    `db:"id" json:"id"`
	PromptID      string    `db:"prompt_id" json:"promptId"`
	VersionNumber int64     `db:"version_number" json:"versionNumber"`
	Content       string    `db:"content" json:"content"`
	ChangeLog     *string   `db:"change_log" json:"changeLog"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// PromptVersionWithPrompt - версия вместе с владеющим промптом.
type PromptVersionWithPrompt struct {
	PromptVersion
	Prompt *Prompt `json:"prompt"`
}
