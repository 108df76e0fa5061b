package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

// Ensure TxRunner implements ncr.TxRunner.
var _ ncr.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ncrRepo repository.NCRRepository,
	milestoneRepo repository.MilestoneRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ncrRepo := NewNCRRepository(tx)
	milestoneRepo := NewMilestoneRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(ncrRepo, milestoneRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunComment inicia una transacción con los repos del hilo de comentarios
// (validación de magic link + alta + auto-transición como unidad atómica).
func (r *TxRunner) RunComment(ctx context.Context, fn func(
	ncrRepo repository.NCRRepository,
	commentRepo repository.CommentRepository,
	linkRepo repository.MagicLinkRepository,
	auditRepo repository.AuditRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ncrRepo := NewNCRRepository(tx)
	commentRepo := NewCommentRepository(tx)
	linkRepo := NewMagicLinkRepository(tx)
	auditRepo := NewAuditRepository(tx)

	if err := fn(ncrRepo, commentRepo, linkRepo, auditRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
