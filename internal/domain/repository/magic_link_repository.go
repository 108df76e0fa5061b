package repository

import (
	"context"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// MagicLinkRepository define el puerto de persistencia para magic links.
type MagicLinkRepository interface {
	Create(ctx context.Context, l *entity.MagicLink) error
	// GetByToken devuelve nil, nil si el token no existe.
	GetByToken(ctx context.Context, token string) (*entity.MagicLink, error)
	// Update persiste los contadores de uso (viewed_at, last_action_at, actions_count).
	Update(ctx context.Context, l *entity.MagicLink) error
}
