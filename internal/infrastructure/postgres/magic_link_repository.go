package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
)

var _ repository.MagicLinkRepository = (*MagicLinkRepo)(nil)

// MagicLinkRepo implementación de MagicLinkRepository sobre PostgreSQL.
type MagicLinkRepo struct {
	q Querier
}

// NewMagicLinkRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMagicLinkRepository(q Querier) *MagicLinkRepo {
	return &MagicLinkRepo{q: q}
}

// Create persiste un magic link nuevo.
func (r *MagicLinkRepo) Create(ctx context.Context, l *entity.MagicLink) error {
	query := `
		INSERT INTO magic_links (id, ncr_id, supplier_id, token, expires_at, viewed_at, last_action_at, actions_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.NCRID, l.SupplierID, l.Token, l.ExpiresAt, l.ViewedAt, l.LastActionAt, l.ActionsCount, l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert magic link: %w", err)
	}
	return nil
}

// GetByToken busca un link por token. Devuelve nil, nil si no existe:
// la capa de aplicación decide el error (ErrInvalidLink) sin filtrar detalles.
func (r *MagicLinkRepo) GetByToken(ctx context.Context, token string) (*entity.MagicLink, error) {
	query := `
		SELECT id, ncr_id, supplier_id, token, expires_at, viewed_at, last_action_at, actions_count, created_at
		FROM magic_links WHERE token = $1`
	var l entity.MagicLink
	err := r.q.QueryRow(ctx, query, token).Scan(
		&l.ID, &l.NCRID, &l.SupplierID, &l.Token, &l.ExpiresAt, &l.ViewedAt, &l.LastActionAt, &l.ActionsCount, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get magic link: %w", err)
	}
	return &l, nil
}

// Update persiste los contadores de uso del link (viewed_at, last_action_at, actions_count).
// Token, NCR y supplier no cambian nunca.
func (r *MagicLinkRepo) Update(ctx context.Context, l *entity.MagicLink) error {
	_, err := r.q.Exec(ctx,
		`UPDATE magic_links SET viewed_at = $2, last_action_at = $3, actions_count = $4 WHERE id = $1`,
		l.ID, l.ViewedAt, l.LastActionAt, l.ActionsCount,
	)
	if err != nil {
		return fmt.Errorf("update magic link: %w", err)
	}
	return nil
}
