package ncr

import (
	"time"

	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

// SLA horas de respuesta y resolución por severidad.
type SLA struct {
	ResponseHours   int
	ResolutionHours int
}

// slaTable SLA por severidad. Solo ResolutionHours alimenta SLADueAt al crear;
// ResponseHours queda definido para un futuro SLA de primera respuesta.
var slaTable = map[string]SLA{
	entity.SeverityCritical: {ResponseHours: 4, ResolutionHours: 24},
	entity.SeverityMajor:    {ResponseHours: 24, ResolutionHours: 72},
	entity.SeverityMinor:    {ResponseHours: 72, ResolutionHours: 168},
}

// SLAFor devuelve el SLA de una severidad. Severidad desconocida usa el SLA de MINOR.
func SLAFor(severity string) SLA {
	if sla, ok := slaTable[severity]; ok {
		return sla
	}
	return slaTable[entity.SeverityMinor]
}

// ResolutionDue calcula la fecha límite de resolución desde un instante dado.
func ResolutionDue(severity string, from time.Time) time.Time {
	return from.Add(time.Duration(SLAFor(severity).ResolutionHours) * time.Hour)
}

// ResponseDue calcula la fecha límite de primera respuesta desde un instante dado.
func ResponseDue(severity string, from time.Time) time.Time {
	return from.Add(time.Duration(SLAFor(severity).ResponseHours) * time.Hour)
}
