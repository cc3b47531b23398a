package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prompt-vault/internal/repository"
	"prompt-vault/internal/service"
	"prompt-vault/internal/storage"
	"prompt-vault/migrations"
	"prompt-vault/pkg/database"
	"prompt-vault/pkg/migration"
)

// newTestRouter поднимает полный HTTP-стек поверх SQLite в памяти.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.New(database.Config{Path: ":memory:", MaxConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, db.DB)
	require.NoError(t, migrator.Up())

	log := zap.NewNop()
	fileStorage, err := storage.NewFileStorage(t.TempDir(), log)
	require.NoError(t, err)

	txHelper := repository.NewTransactionHelper(db.DB, log)
	promptRepo := repository.NewPromptRepository(log)
	versionRepo := repository.NewVersionRepository(log)
	tagRepo := repository.NewTagRepository(log)
	executionRepo := repository.NewExecutionRepository(log)
	imageRepo := repository.NewImageRepository(log)
	settingsRepo := repository.NewSettingsRepository(log)

	promptSvc := service.NewPromptService(db.DB, txHelper, promptRepo, versionRepo, tagRepo, executionRepo, log)
	apiHandler := NewHandler(
		promptSvc,
		service.NewTagService(db.DB, tagRepo, log),
		service.NewVersionService(db.DB, txHelper, versionRepo, promptRepo, log),
		service.NewExecutionService(db.DB, txHelper, executionRepo, promptRepo, log),
		service.NewSearchService(promptSvc, log),
		service.NewSettingsService(db.DB, settingsRepo, log),
		service.NewImageService(db.DB, imageRepo, promptRepo, fileStorage, log),
		log,
	)

	router := gin.New()
	apiHandler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestPromptLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	// 1. Создание
	rec := doJSON(t, router, http.MethodPost, "/api/prompts", map[string]interface{}{
		"title":   "HTTP prompt",
		"content": "Say {{word}}",
		"tags":    []string{"http"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	id := created["id"].(string)
	assert.Equal(t, "HTTP prompt", created["title"])
	assert.Len(t, created["tags"], 1)
	assert.Len(t, created["versions"], 1)

	// 2. Чтение
	rec = doJSON(t, router, http.MethodGet, "/api/prompts/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// 3. Частичное обновление через PATCH
	rec = doJSON(t, router, http.MethodPatch, "/api/prompts/"+id, map[string]interface{}{
		"title": "Renamed over HTTP",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed over HTTP", decodeBody(t, rec)["title"])

	// 4. Список содержит обертку data/meta
	rec = doJSON(t, router, http.MethodGet, "/api/prompts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody(t, rec)
	assert.Contains(t, page, "data")
	meta := page["meta"].(map[string]interface{})
	assert.Equal(t, float64(1), meta["total"])
	assert.Equal(t, false, meta["hasMore"])

	// 5. Удаление - 204, после чего список пуст
	rec = doJSON(t, router, http.MethodDelete, "/api/prompts/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/prompts", nil)
	page = decodeBody(t, rec)
	assert.Empty(t, page["data"])
}

func TestPromptNotFoundShape(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/prompts/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	// Тело ошибки всегда {"error": "..."}
	assert.Equal(t, "Prompt not found", body["error"])
	assert.Len(t, body, 1)
}

func TestPromptListUnknownSortField(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/prompts?sortBy=content", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "sort")
}

func TestExecuteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/prompts", map[string]interface{}{
		"title":   "Exec",
		"content": "Hello {{name}}",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	// 1. Успешный запуск
	rec = doJSON(t, router, http.MethodPost, "/api/executions/execute", map[string]interface{}{
		"promptId":   id,
		"parameters": map[string]string{"name": "World"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Hello World", body["output"])

	// 2. Несуществующий промпт: тоже 201, но success=false
	rec = doJSON(t, router, http.MethodPost, "/api/executions/execute", map[string]interface{}{
		"promptId": "missing",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Prompt not found", body["error"])

	// Неуспешный запуск тоже остается в истории, финализированный как FAILED
	rec = doJSON(t, router, http.MethodGet, "/api/executions/prompt/missing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "FAILED", history[0]["status"])

	// 3. Без promptId - 400
	rec = doJSON(t, router, http.MethodPost, "/api/executions/execute", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagConflictOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/tags", map[string]interface{}{"name": "unique"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/tags", map[string]interface{}{"name": "unique"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestSearchEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/prompts", map[string]interface{}{
		"title":   "Searchable",
		"content": "find me",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// 1. Текстовый поиск со score
	rec = doJSON(t, router, http.MethodGet, "/api/search/text?query=searchable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody(t, rec)
	data := page["data"].([]interface{})
	require.Len(t, data, 1)
	result := data[0].(map[string]interface{})
	assert.Contains(t, result, "prompt")
	assert.Contains(t, result, "score")

	// 2. Пустой query - 400
	rec = doJSON(t, router, http.MethodGet, "/api/search/text", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// 3. Семантический поиск отвечает так же
	rec = doJSON(t, router, http.MethodGet, "/api/search/semantic?query=searchable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSettingsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/settings/theme", map[string]interface{}{
		"value": map[string]string{"mode": "dark"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	setting := decodeBody(t, rec)
	assert.Equal(t, "theme", setting["key"])

	rec = doJSON(t, router, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody(t, rec)
	assert.Contains(t, all, "theme")

	rec = doJSON(t, router, http.MethodGet, "/api/settings/missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVersionRestoreOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/prompts", map[string]interface{}{
		"title":   "Versioned",
		"content": "first",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPatch, "/api/prompts/"+id, map[string]interface{}{"content": "second"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/versions/prompt/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var versions []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &versions))
	require.Len(t, versions, 2)
	firstID := versions[1]["id"].(string)

	// Деталь версии включает владеющий промпт
	rec = doJSON(t, router, http.MethodGet, "/api/versions/"+firstID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody(t, rec)
	require.NotNil(t, detail["prompt"])
	assert.Equal(t, id, detail["prompt"].(map[string]interface{})["id"])

	rec = doJSON(t, router, http.MethodPost, "/api/versions/"+firstID+"/restore", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])

	rec = doJSON(t, router, http.MethodGet, "/api/prompts/"+id, nil)
	assert.Equal(t, "first", decodeBody(t, rec)["content"])
}
