// Команда seed наполняет базу стартовыми тегами, примерами промптов
// и настройками по умолчанию. Повторный запуск безопасен: существующие
// теги и настройки не перезаписываются.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prompt-vault/internal/config"
	"prompt-vault/internal/models"
	"prompt-vault/internal/repository"
	"prompt-vault/internal/service"
	"prompt-vault/migrations"
	"prompt-vault/pkg/database"
	"prompt-vault/pkg/logger"
	"prompt-vault/pkg/migration"
)

type seedTag struct {
	name  string
	color string
	icon  string
}

var defaultTags = []seedTag{
	{"javascript", "#F7DF1E", "code"},
	{"react", "#61DAFB", "react"},
	{"typescript", "#3178C6", "code"},
	{"python", "#3776AB", "code"},
	{"ai", "#8B5CF6", "brain"},
	{"image", "#EC4899", "image"},
}

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: "console"})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	db, err := database.New(database.Config{
		Path:        cfg.DatabasePath,
		MaxConns:    1,
		IdleTimeout: cfg.DBIdleTimeout,
	})
	if err != nil {
		zap.L().Fatal("Failed to open SQLite database", zap.Error(err))
	}
	defer db.Close()

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, db.DB)
	if err := migrator.Up(); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}

	ctx := context.Background()
	txHelper := repository.NewTransactionHelper(db.DB, log)
	promptRepo := repository.NewPromptRepository(log)
	versionRepo := repository.NewVersionRepository(log)
	tagRepo := repository.NewTagRepository(log)
	executionRepo := repository.NewExecutionRepository(log)
	settingsRepo := repository.NewSettingsRepository(log)

	promptSvc := service.NewPromptService(db.DB, txHelper, promptRepo, versionRepo, tagRepo, executionRepo, log)
	settingsSvc := service.NewSettingsService(db.DB, settingsRepo, log)

	zap.L().Info("Seeding database...")

	if err := seedTags(ctx, db, tagRepo); err != nil {
		zap.L().Fatal("Failed to seed tags", zap.Error(err))
	}

	if err := seedPrompts(ctx, db, promptRepo, promptSvc, executionRepo); err != nil {
		zap.L().Fatal("Failed to seed prompts", zap.Error(err))
	}

	if err := seedSettings(ctx, db, settingsRepo, settingsSvc); err != nil {
		zap.L().Fatal("Failed to seed settings", zap.Error(err))
	}

	zap.L().Info("Database seeded successfully")
}

func seedTags(ctx context.Context, db *database.Database, tagRepo *repository.TagRepository) error {
	now := time.Now().UTC()
	created := 0
	for _, t := range defaultTags {
		if _, err := tagRepo.GetByName(ctx, db.DB, t.name); err == nil {
			continue
		} else if !errors.Is(err, models.ErrTagNotFound) {
			return err
		}

		icon := t.icon
		tag := &models.Tag{
			ID:        uuid.NewString(),
			Name:      t.name,
			Color:     t.color,
			Icon:      &icon,
			CreatedAt: now,
		}
		if err := tagRepo.Insert(ctx, db.DB, tag); err != nil {
			return err
		}
		created++
	}
	zap.L().Info("Tags seeded", zap.Int("created", created))
	return nil
}

func seedPrompts(
	ctx context.Context,
	db *database.Database,
	promptRepo *repository.PromptRepository,
	promptSvc *service.PromptService,
	executionRepo *repository.ExecutionRepository,
) error {
	// Если промпты уже есть, примеры не добавляем
	_, total, err := promptRepo.List(ctx, db.DB, models.SearchFilters{SortBy: models.SortByUpdatedAt, SortOrder: models.SortDesc, Limit: 1})
	if err != nil {
		return err
	}
	if total > 0 {
		zap.L().Info("Prompts already present, skipping sample data", zap.Int64("total", total))
		return nil
	}

	reactDesc := "Generate a reusable React component with TypeScript and props"
	first, err := promptSvc.Create(ctx, models.CreatePromptInput{
		Title:       "React Component Generator",
		Description: &reactDesc,
		Content: `Create a React component called {{componentName}} that:
- Uses TypeScript for type safety
- Accepts props: {{propsList}}
- Implements {{functionality}}
- Includes proper JSDoc comments
- Exports as default`,
		Type:     models.PromptTypeCode,
		Language: models.LanguageEN,
		Tags:     []string{"react", "typescript"},
	})
	if err != nil {
		return err
	}

	imageDesc := "Professional photography prompt for AI image generation"
	if _, err := promptSvc.Create(ctx, models.CreatePromptInput{
		Title:       "Image Generation Prompt",
		Description: &imageDesc,
		Content: `A professional photograph of {{subject}}, {{style}} style,
shot on {{camera}}, {{lighting}} lighting, {{composition}} composition,
high resolution, 8k, award-winning photography`,
		Type:     models.PromptTypeImage,
		Language: models.LanguageEN,
		Tags:     []string{"ai", "image"},
	}); err != nil {
		return err
	}

	faDesc := "یک پرامپت نمونه به زبان فارسی برای تست قابلیت RTL"
	if _, err := promptSvc.Create(ctx, models.CreatePromptInput{
		Title:       "نمونه پرامپت فارسی",
		Description: &faDesc,
		Content: `یک متن {{موضوع}} در مورد {{عنوان}} بنویس که:
- شامل {{تعداد}} پاراگراف باشد
- سبک نگارش {{سبک}} داشته باشد
- برای {{مخاطب}} مناسب باشد`,
		Type:     models.PromptTypeText,
		Language: models.LanguageFA,
	}); err != nil {
		return err
	}

	// Пример успешного запуска для первого промпта
	now := time.Now().UTC()
	input := `{"componentName":"UserProfile","propsList":"name, email, avatar","functionality":"display user information"}`
	output := `export default function UserProfile({ name, email, avatar }) {
  return (
    <div className="user-profile">
      <img src={avatar} alt={name} />
      <h2>{name}</h2>
      <p>{email}</p>
    </div>
  );
}`
	execution := &models.Execution{
		ID:        uuid.NewString(),
		PromptID:  first.ID,
		Input:     &input,
		Status:    models.ExecutionStatusRunning,
		StartedAt: now,
	}
	if err := executionRepo.Insert(ctx, db.DB, execution); err != nil {
		return err
	}
	if err := executionRepo.Finalize(ctx, db.DB, execution.ID, models.ExecutionStatusSuccess, &output, nil, now, 123); err != nil {
		return err
	}

	zap.L().Info("Sample prompts seeded")
	return nil
}

func seedSettings(
	ctx context.Context,
	db *database.Database,
	settingsRepo *repository.SettingsRepository,
	settingsSvc *service.SettingsService,
) error {
	defaults := map[string]interface{}{
		"theme":    map[string]string{"mode": "system"},
		"language": map[string]string{"current": "en"},
		"density":  map[string]string{"mode": "comfortable"},
	}

	for key, value := range defaults {
		if _, err := settingsRepo.Get(ctx, db.DB, key); err == nil {
			continue
		} else if !errors.Is(err, models.ErrSettingNotFound) {
			return err
		}
		if _, err := settingsSvc.Set(ctx, key, value); err != nil {
			return err
		}
	}

	zap.L().Info("Default settings seeded")
	return nil
}
