package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
	"prompt-vault/migrations"
	"prompt-vault/pkg/database"
	"prompt-vault/pkg/migration"
)

// testEnv - полный набор сервисов поверх SQLite в памяти.
type testEnv struct {
	db         *database.Database
	prompts    *PromptService
	tags       *TagService
	versions   *VersionService
	executions *ExecutionService
	search     *SearchService
	settings   *SettingsService
}

// newTestEnv поднимает базу в памяти, применяет миграции и собирает сервисы.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(database.Config{Path: ":memory:", MaxConns: 1})
	require.NoError(t, err, "in-memory database should open")
	t.Cleanup(func() { db.Close() })

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, db.DB)
	require.NoError(t, migrator.Up(), "migrations should apply cleanly")

	log := zap.NewNop()
	txHelper := repository.NewTransactionHelper(db.DB, log)
	promptRepo := repository.NewPromptRepository(log)
	versionRepo := repository.NewVersionRepository(log)
	tagRepo := repository.NewTagRepository(log)
	executionRepo := repository.NewExecutionRepository(log)
	settingsRepo := repository.NewSettingsRepository(log)

	prompts := NewPromptService(db.DB, txHelper, promptRepo, versionRepo, tagRepo, executionRepo, log)

	return &testEnv{
		db:         db,
		prompts:    prompts,
		tags:       NewTagService(db.DB, tagRepo, log),
		versions:   NewVersionService(db.DB, txHelper, versionRepo, promptRepo, log),
		executions: NewExecutionService(db.DB, txHelper, executionRepo, promptRepo, log),
		search:     NewSearchService(prompts, log),
		settings:   NewSettingsService(db.DB, settingsRepo, log),
	}
}

// mustCreatePrompt создает промпт c заданными параметрами для тестов.
func (e *testEnv) mustCreatePrompt(t *testing.T, title, content string, tags ...string) *models.PromptWithRelations {
	t.Helper()
	prompt, err := e.prompts.Create(context.Background(), models.CreatePromptInput{
		Title:   title,
		Content: content,
		Tags:    tags,
	})
	require.NoError(t, err, "prompt creation should succeed")
	return prompt
}

func strPtr(s string) *string {
	return &s
}
