package ncr_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
	"github.com/tu-usuario/procura-pro/internal/domain/ncr"
)

func TestResolutionDue_PorSeveridad(t *testing.T) {
	from := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, from.Add(24*time.Hour), ncr.ResolutionDue(entity.SeverityCritical, from))
	assert.Equal(t, from.Add(72*time.Hour), ncr.ResolutionDue(entity.SeverityMajor, from))
	assert.Equal(t, from.Add(168*time.Hour), ncr.ResolutionDue(entity.SeverityMinor, from))
}

func TestResponseDue_PorSeveridad(t *testing.T) {
	from := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, from.Add(4*time.Hour), ncr.ResponseDue(entity.SeverityCritical, from))
	assert.Equal(t, from.Add(24*time.Hour), ncr.ResponseDue(entity.SeverityMajor, from))
	assert.Equal(t, from.Add(72*time.Hour), ncr.ResponseDue(entity.SeverityMinor, from))
}

// Severidad desconocida cae al SLA más laxo (MINOR), nunca a cero.
func TestSLAFor_SeveridadDesconocida(t *testing.T) {
	sla := ncr.SLAFor("UNKNOWN")
	assert.Equal(t, 168, sla.ResolutionHours)
	assert.Equal(t, 72, sla.ResponseHours)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "NCR-0001", ncr.FormatNumber(1))
	assert.Equal(t, "NCR-0042", ncr.FormatNumber(42))
	assert.Equal(t, "NCR-9999", ncr.FormatNumber(9999))
	assert.Equal(t, "NCR-10000", ncr.FormatNumber(10000))
}
