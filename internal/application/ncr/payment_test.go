package ncr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	appncr "github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

func milestonesWithStatuses(statuses ...string) []*entity.Milestone {
	out := make([]*entity.Milestone, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, &entity.Milestone{ID: string(rune('a' + i)), Status: s})
	}
	return out
}

func TestAnyMilestonePaid(t *testing.T) {
	assert.False(t, appncr.AnyMilestonePaid(nil))
	assert.False(t, appncr.AnyMilestonePaid(milestonesWithStatuses(
		entity.MilestoneStatusPlanned, entity.MilestoneStatusInProgress, entity.MilestoneStatusCompleted,
	)))
	assert.True(t, appncr.AnyMilestonePaid(milestonesWithStatuses(
		entity.MilestoneStatusPlanned, entity.MilestoneStatusCertified,
	)))
	assert.True(t, appncr.AnyMilestonePaid(milestonesWithStatuses(
		entity.MilestoneStatusInvoiced,
	)))
}

// Los hitos ya pagados no se bloquean: su escudo es la nota crédito.
func TestLockableMilestones_ExcluyePagados(t *testing.T) {
	ms := []*entity.Milestone{
		{ID: "m-1", Status: entity.MilestoneStatusPlanned},
		{ID: "m-2", Status: entity.MilestoneStatusCertified},
		{ID: "m-3", Status: entity.MilestoneStatusCompleted},
		{ID: "m-4", Status: entity.MilestoneStatusInvoiced},
	}
	assert.Equal(t, []string{"m-1", "m-3"}, appncr.LockableMilestones(ms))
	assert.Nil(t, appncr.LockableMilestones(nil))
}
