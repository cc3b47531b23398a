package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX - общий интерфейс для *sql.DB и *sql.Tx.
// Репозитории принимают его, чтобы одинаково работать внутри и вне транзакций.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TransactionHelper предоставляет унифицированные методы для работы с транзакциями
type TransactionHelper struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransactionHelper создает новый помощник транзакций
func NewTransactionHelper(db *sql.DB, logger *zap.Logger) *TransactionHelper {
	return &TransactionHelper{
		db:     db,
		logger: logger,
	}
}

// WithTransaction выполняет функцию в транзакции с автоматическим rollback при ошибке
func (h *TransactionHelper) WithTransaction(
	ctx context.Context,
	fn func(ctx context.Context, tx DBTX) error,
) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				h.logger.Error("Failed to rollback transaction after panic",
					zap.Error(rollbackErr),
					zap.Any("panic", p))
			}
			panic(p) // re-throw panic after rollback
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			h.logger.Error("Failed to rollback transaction",
				zap.Error(rollbackErr),
				zap.NamedError("original_error", err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isUniqueViolation определяет нарушение UNIQUE-ограничения SQLite.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// placeholders возвращает строку вида "?, ?, ?" для IN-условий.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
