package ncr

import (
	"context"
	"fmt"

	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// LockManager bloquea y libera hitos referenciados por NCRs abiertos.
//
// El bloqueo es un recurso multi-tenedor: N NCRs pueden bloquear el mismo hito
// y solo se libera cuando cierra el último. La decisión de liberar usa un
// reverse-scan sobre los NCRs abiertos que aún referencian el hito, ejecutado
// con los repos de la misma transacción que el cierre/reapertura que lo
// dispara, de modo que el check-then-release es atómico.
type LockManager struct {
	log *logger.Logger
}

// NewLockManager construye el manager.
func NewLockManager(log *logger.Logger) *LockManager {
	return &LockManager{log: log}
}

// Lock marca los hitos como bloqueados por un NCR abierto.
func (m *LockManager) Lock(ctx context.Context, milestoneRepo repository.MilestoneRepository, milestoneIDs []string, ncrID string) error {
	if len(milestoneIDs) == 0 {
		return nil
	}
	if err := milestoneRepo.SetLocked(ctx, milestoneIDs, true); err != nil {
		return fmt.Errorf("lock milestones (ncr %s): %w", ncrID, err)
	}
	m.log.Debug().Str("ncr_id", ncrID).Int("milestones", len(milestoneIDs)).Msg("hitos bloqueados")
	return nil
}

// Unlock libera cada hito solo si ningún OTRO NCR abierto lo referencia.
// Si otros NCRs abiertos lo mantienen, el bloqueo permanece.
func (m *LockManager) Unlock(
	ctx context.Context,
	ncrRepo repository.NCRRepository,
	milestoneRepo repository.MilestoneRepository,
	milestoneIDs []string,
	ncrID string,
) error {
	var releasable []string
	for _, mid := range milestoneIDs {
		holders, err := ncrRepo.FindOpenByMilestone(ctx, mid, ncrID)
		if err != nil {
			return fmt.Errorf("reverse-scan hito %s: %w", mid, err)
		}
		if len(holders) == 0 {
			releasable = append(releasable, mid)
		} else {
			m.log.Debug().
				Str("milestone_id", mid).
				Int("otros_ncrs_abiertos", len(holders)).
				Msg("hito sigue bloqueado por otros NCRs")
		}
	}
	if len(releasable) == 0 {
		return nil
	}
	if err := milestoneRepo.SetLocked(ctx, releasable, false); err != nil {
		return fmt.Errorf("unlock milestones (ncr %s): %w", ncrID, err)
	}
	m.log.Debug().Str("ncr_id", ncrID).Int("milestones", len(releasable)).Msg("hitos liberados")
	return nil
}
