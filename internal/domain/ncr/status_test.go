package ncr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/ncr"
)

// La tabla completa de transiciones permitidas, estado por estado.
func TestCanTransition_TablaCompleta(t *testing.T) {
	allowed := map[string][]string{
		entity.NCRStatusOpen:              {entity.NCRStatusSupplierResponded, entity.NCRStatusReview, entity.NCRStatusClosed},
		entity.NCRStatusSupplierResponded: {entity.NCRStatusReinspection, entity.NCRStatusReview, entity.NCRStatusClosed},
		entity.NCRStatusReinspection:      {entity.NCRStatusReview, entity.NCRStatusRemediation, entity.NCRStatusClosed, entity.NCRStatusOpen},
		entity.NCRStatusReview:            {entity.NCRStatusRemediation, entity.NCRStatusClosed, entity.NCRStatusOpen},
		entity.NCRStatusRemediation:       {entity.NCRStatusClosed, entity.NCRStatusReinspection},
		entity.NCRStatusClosed:            {entity.NCRStatusOpen},
	}

	all := []string{
		entity.NCRStatusOpen, entity.NCRStatusSupplierResponded, entity.NCRStatusReinspection,
		entity.NCRStatusReview, entity.NCRStatusRemediation, entity.NCRStatusClosed,
	}

	for from, targets := range allowed {
		want := map[string]bool{}
		for _, to := range targets {
			want[to] = true
		}
		for _, to := range all {
			got := ncr.CanTransition(from, to)
			assert.Equal(t, want[to], got, "transición %s -> %s", from, to)
		}
	}
}

// OPEN no permite saltar directo a REMEDIATION (escenario 5 del diseño de calidad).
func TestCanTransition_OpenNoSaltaARemediation(t *testing.T) {
	assert.False(t, ncr.CanTransition(entity.NCRStatusOpen, entity.NCRStatusRemediation))
}

// CLOSED solo puede reabrirse.
func TestCanTransition_ClosedSoloReabre(t *testing.T) {
	assert.Equal(t, []string{entity.NCRStatusOpen}, ncr.AllowedTargets(entity.NCRStatusClosed))
}

// Un estado desconocido no permite ninguna transición.
func TestCanTransition_EstadoDesconocido(t *testing.T) {
	assert.False(t, ncr.CanTransition("GARBAGE", entity.NCRStatusClosed))
	assert.False(t, ncr.IsValidStatus("GARBAGE"))
	assert.Empty(t, ncr.AllowedTargets("GARBAGE"))
}

// Todos los estados de la tabla alcanzan CLOSED.
func TestCanTransition_TodosAlcanzanClosed(t *testing.T) {
	for _, from := range []string{
		entity.NCRStatusOpen, entity.NCRStatusSupplierResponded, entity.NCRStatusReinspection,
		entity.NCRStatusReview, entity.NCRStatusRemediation,
	} {
		assert.True(t, ncr.CanTransition(from, entity.NCRStatusClosed), "desde %s", from)
	}
}

func TestIsValidSeverity(t *testing.T) {
	assert.True(t, ncr.IsValidSeverity(entity.SeverityMinor))
	assert.True(t, ncr.IsValidSeverity(entity.SeverityMajor))
	assert.True(t, ncr.IsValidSeverity(entity.SeverityCritical))
	assert.False(t, ncr.IsValidSeverity("HIGH"))
}

func TestIsValidIssueType(t *testing.T) {
	assert.True(t, ncr.IsValidIssueType(entity.IssueTypeDamaged))
	assert.True(t, ncr.IsValidIssueType(entity.IssueTypeOther))
	assert.False(t, ncr.IsValidIssueType("BROKEN"))
}
