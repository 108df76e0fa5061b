package ncr

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/procura-pro/internal/domain"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	domainncr "github.com/tu-usuario/procura-pro/internal/domain/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/repository"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

// LifecycleUseCase opera la máquina de estados del NCR: transición genérica
// validada contra la tabla, cierre con precondiciones de evidencia y reapertura.
// Cada operación corre en una transacción junto con el lock/unlock de hitos.
type LifecycleUseCase struct {
	txRunner TxRunner
	locks    *LockManager
	log      *logger.Logger
}

// NewLifecycleUseCase construye el caso de uso.
func NewLifecycleUseCase(txRunner TxRunner, locks *LockManager, log *logger.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, locks: locks, log: log}
}

// Transition aplica un cambio genérico de estado validado contra la tabla de
// transiciones. No ejecuta la validación de cierre: para CLOSED con
// precondiciones usar Close.
func (uc *LifecycleUseCase) Transition(
	ctx context.Context,
	organizationID, ncrID, newStatus, actorID, reason string,
) (*entity.NCR, error) {
	var result *entity.NCR
	err := uc.txRunner.Run(ctx, func(
		ncrRepo repository.NCRRepository,
		_ repository.MilestoneRepository,
		auditRepo repository.AuditRepository,
	) error {
		n, err := getOwnedNCR(ctx, ncrRepo, organizationID, ncrID)
		if err != nil {
			return err
		}
		if !domainncr.IsValidStatus(newStatus) || !domainncr.CanTransition(n.Status, newStatus) {
			return domain.ErrInvalidTransition
		}
		from := n.Status
		n.Status = newStatus
		n.UpdatedAt = time.Now()
		if err := ncrRepo.Update(ctx, n); err != nil {
			return err
		}
		result = n
		return auditRepo.Record(ctx, &entity.AuditLog{
			ID:             uuid.New().String(),
			OrganizationID: organizationID,
			ActorID:        actorID,
			Action:         entity.AuditActionNCRTransitioned,
			EntityType:     "ncr",
			EntityID:       n.ID,
			Metadata:       map[string]any{"from": from, "to": newStatus, "reason": reason},
			CreatedAt:      n.UpdatedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close cierra el NCR con precondiciones de cumplimiento, evaluadas en orden:
//  1. severidad != MINOR exige proofOfFixDocID  -> ErrEvidenceRequired
//  2. requiresCreditNote exige creditNoteDocID  -> ErrCreditNoteRequired
//
// El cierre se permite desde cualquier estado no cerrado sin consultar la tabla
// (escape privilegiado; hoy todos los estados permiten CLOSED de todas formas).
// Libera los hitos bloqueados dentro de la misma transacción.
func (uc *LifecycleUseCase) Close(
	ctx context.Context,
	organizationID, ncrID, actorID, closedReason string,
	proofOfFixDocID, creditNoteDocID *string,
) (*entity.NCR, error) {
	var result *entity.NCR
	err := uc.txRunner.Run(ctx, func(
		ncrRepo repository.NCRRepository,
		milestoneRepo repository.MilestoneRepository,
		auditRepo repository.AuditRepository,
	) error {
		n, err := getOwnedNCR(ctx, ncrRepo, organizationID, ncrID)
		if err != nil {
			return err
		}
		if n.Status == entity.NCRStatusClosed {
			return domain.ErrInvalidState
		}
		if n.Severity != entity.SeverityMinor && !hasValue(proofOfFixDocID) {
			return domain.ErrEvidenceRequired
		}
		if n.RequiresCreditNote && !hasValue(creditNoteDocID) {
			return domain.ErrCreditNoteRequired
		}

		now := time.Now()
		from := n.Status
		n.Status = entity.NCRStatusClosed
		n.ClosedBy = &actorID
		n.ClosedAt = &now
		n.ClosedReason = &closedReason
		if hasValue(proofOfFixDocID) {
			n.ProofOfFixDocID = proofOfFixDocID
		}
		if hasValue(creditNoteDocID) {
			n.CreditNoteDocID = creditNoteDocID
			n.CreditNoteVerifiedAt = &now
		}
		n.UpdatedAt = now

		if err := uc.locks.Unlock(ctx, ncrRepo, milestoneRepo, n.MilestonesLocked, n.ID); err != nil {
			return err
		}
		if err := ncrRepo.Update(ctx, n); err != nil {
			return err
		}
		result = n
		return auditRepo.Record(ctx, &entity.AuditLog{
			ID:             uuid.New().String(),
			OrganizationID: organizationID,
			ActorID:        actorID,
			Action:         entity.AuditActionNCRClosed,
			EntityType:     "ncr",
			EntityID:       n.ID,
			Metadata: map[string]any{
				"from":           from,
				"reason":         closedReason,
				"hasProofOfFix":  hasValue(proofOfFixDocID),
				"hasCreditNote":  hasValue(creditNoteDocID),
			},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ncr_id", ncrID).Str("actor", actorID).Msg("NCR cerrado")
	return result, nil
}

// Reopen reabre un NCR cerrado: limpia los campos de cierre y vuelve a bloquear
// el conjunto de hitos que tenía antes de cerrarse, en la misma transacción.
func (uc *LifecycleUseCase) Reopen(
	ctx context.Context,
	organizationID, ncrID, actorID, reason string,
) (*entity.NCR, error) {
	var result *entity.NCR
	err := uc.txRunner.Run(ctx, func(
		ncrRepo repository.NCRRepository,
		milestoneRepo repository.MilestoneRepository,
		auditRepo repository.AuditRepository,
	) error {
		n, err := getOwnedNCR(ctx, ncrRepo, organizationID, ncrID)
		if err != nil {
			return err
		}
		if n.Status != entity.NCRStatusClosed {
			return domain.ErrInvalidState
		}

		now := time.Now()
		n.Status = entity.NCRStatusOpen
		n.ClosedBy = nil
		n.ClosedAt = nil
		n.ClosedReason = nil
		n.UpdatedAt = now

		if err := uc.locks.Lock(ctx, milestoneRepo, n.MilestonesLocked, n.ID); err != nil {
			return err
		}
		if err := ncrRepo.Update(ctx, n); err != nil {
			return err
		}
		result = n
		return auditRepo.Record(ctx, &entity.AuditLog{
			ID:             uuid.New().String(),
			OrganizationID: organizationID,
			ActorID:        actorID,
			Action:         entity.AuditActionNCRReopened,
			EntityType:     "ncr",
			EntityID:       n.ID,
			Metadata:       map[string]any{"reason": reason},
			CreatedAt:      now,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("ncr_id", ncrID).Str("actor", actorID).Msg("NCR reabierto")
	return result, nil
}

// getOwnedNCR carga el NCR y verifica que pertenezca a la organización.
// Un NCR de otra organización se reporta como inexistente (no filtra existencia).
func getOwnedNCR(ctx context.Context, ncrRepo repository.NCRRepository, organizationID, ncrID string) (*entity.NCR, error) {
	n, err := ncrRepo.GetByID(ctx, ncrID)
	if err != nil {
		return nil, err
	}
	if n == nil || n.OrganizationID != organizationID {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}
