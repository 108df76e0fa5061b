// Package ncr contiene la lógica de dominio pura del ciclo de vida NCR:
// tabla de transiciones de estado, cálculo de SLA por severidad y formato
// del consecutivo. Sin dependencias de infraestructura.
package ncr

import "github.com/tu-usuario/procura-pro/internal/domain/entity"

// transitions define los destinos permitidos por estado actual.
// CLOSED es alcanzable desde todos los estados; además la operación de cierre
// (application/ncr) lo trata como destino privilegiado con sus propias
// precondiciones de evidencia, sin pasar por esta tabla.
var transitions = map[string][]string{
	entity.NCRStatusOpen: {
		entity.NCRStatusSupplierResponded,
		entity.NCRStatusReview,
		entity.NCRStatusClosed,
	},
	entity.NCRStatusSupplierResponded: {
		entity.NCRStatusReinspection,
		entity.NCRStatusReview,
		entity.NCRStatusClosed,
	},
	entity.NCRStatusReinspection: {
		entity.NCRStatusReview,
		entity.NCRStatusRemediation,
		entity.NCRStatusClosed,
		entity.NCRStatusOpen,
	},
	entity.NCRStatusReview: {
		entity.NCRStatusRemediation,
		entity.NCRStatusClosed,
		entity.NCRStatusOpen,
	},
	entity.NCRStatusRemediation: {
		entity.NCRStatusClosed,
		entity.NCRStatusReinspection,
	},
	entity.NCRStatusClosed: {
		entity.NCRStatusOpen,
	},
}

// IsValidStatus indica si s es un estado conocido del ciclo de vida.
func IsValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition indica si el cambio from -> to está permitido por la tabla.
func CanTransition(from, to string) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTargets devuelve los destinos válidos desde un estado (copia defensiva).
func AllowedTargets(from string) []string {
	src := transitions[from]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsValidSeverity indica si s es una severidad conocida.
func IsValidSeverity(s string) bool {
	switch s {
	case entity.SeverityMinor, entity.SeverityMajor, entity.SeverityCritical:
		return true
	}
	return false
}

// IsValidIssueType indica si t es un tipo de no conformidad conocido.
func IsValidIssueType(t string) bool {
	switch t {
	case entity.IssueTypeDamaged, entity.IssueTypeWrongSpec, entity.IssueTypeDocMissing,
		entity.IssueTypeQuantityShort, entity.IssueTypeQualityDefect, entity.IssueTypeOther:
		return true
	}
	return false
}
