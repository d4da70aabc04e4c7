package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/dealroom-api/internal/application/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/repository"
)

var _ closing.FinalizeTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunFinalize inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunFinalize(ctx context.Context, fn func(
	dealRepo repository.DealRepository,
	termsheetRepo repository.TermsheetRepository,
	closeRunRepo repository.CloseRunRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dealRepo := NewDealRepository(tx)
	termsheetRepo := NewTermsheetRepository(tx)
	closeRunRepo := NewCloseRunRepository(tx)

	if err := fn(dealRepo, termsheetRepo, closeRunRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
