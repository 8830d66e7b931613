package services

import (
	"context"
	"fmt"
	"upkeep/internal/database"
	contextutil "upkeep/internal/context"

	logger "github.com/Bparsons0904/goLogger"
)

// Transactor is the slice of TransactionService the domain services depend
// on.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

// TransactionService handles database transactions using context injection
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs the provided function within a database transaction. The
// transaction is injected into the context so every repository call inside fn
// lands on the same connection. Commit/rollback is handled from fn's result;
// panics are converted to errors unless rollback itself fails, which crashes
// the service for data safety.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQL.WithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg("panic during transaction: " + fmt.Sprintf("%v", r))
			log.Er("panic during transaction, rolling back", panicErr)

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(
					fmt.Sprintf(
						"transaction rollback failed: %v (original panic: %v)",
						rollbackErr,
						r,
					),
				)
			}

			log.Info("transaction rolled back successfully after panic")
			err = panicErr
		}
	}()

	txCtx := contextutil.WithTransaction(ctx, tx)

	if err = fn(txCtx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}
