package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serranomp/fincas-api/internal/application/billing"
	"github.com/serranomp/fincas-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con repos atados a la tx y un
// locker de familia, y hace Commit o Rollback. El lock es advisory y de ámbito
// transacción: se libera solo al terminar, con commit o sin él.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	expenseRepo repository.ExpenseRepository,
	locker repository.FamilyLocker,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	expenseRepo := NewExpenseRepository(tx)
	locker := &txFamilyLocker{ctx: ctx, tx: tx}

	if err := fn(invoiceRepo, expenseRepo, locker); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ repository.FamilyLocker = (*txFamilyLocker)(nil)

// txFamilyLocker serializa las escrituras de una familia de numeración con
// pg_advisory_xact_lock sobre el hash del prefijo. Dos transacciones que
// emiten en la misma familia se ordenan; familias distintas no se bloquean.
type txFamilyLocker struct {
	ctx context.Context
	tx  pgx.Tx
}

func (l *txFamilyLocker) LockFamily(prefix string) error {
	if _, err := l.tx.Exec(l.ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix); err != nil {
		return fmt.Errorf("lock familia %s: %w", prefix, err)
	}
	return nil
}
