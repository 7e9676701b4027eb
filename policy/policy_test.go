package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccessAdminOverride(t *testing.T) {
	for _, plan := range []Plan{PlanFree, PlanPro, PlanEnterprise} {
		for _, cap := range allCapabilities() {
			assert.True(t, CanAccess(plan, true, cap), "admin on %s plan should have %s", plan, cap)
		}
	}
}

func TestCanAccessFreePlan(t *testing.T) {
	for _, cap := range allCapabilities() {
		assert.False(t, CanAccess(PlanFree, false, cap), "free plan should not have %s", cap)
	}
}

func TestCanAccessProPlan(t *testing.T) {
	assert.True(t, CanAccess(PlanPro, false, CapScheduledPublishing))
	assert.True(t, CanAccess(PlanPro, false, CapVersionHistory))
	assert.True(t, CanAccess(PlanPro, false, CapSEOOptimization))

	assert.False(t, CanAccess(PlanPro, false, CapCollaborativeEditing))
	assert.False(t, CanAccess(PlanPro, false, CapAdvancedAnalytics))
	assert.False(t, CanAccess(PlanPro, false, CapUnlimitedArticles))
	assert.False(t, CanAccess(PlanPro, false, CapCustomDomain))
}

func TestCanAccessEnterprisePlan(t *testing.T) {
	for _, cap := range allCapabilities() {
		assert.True(t, CanAccess(PlanEnterprise, false, cap), "enterprise plan should have %s", cap)
	}
}

func TestPlanValid(t *testing.T) {
	assert.True(t, PlanFree.Valid())
	assert.True(t, PlanPro.Valid())
	assert.True(t, PlanEnterprise.Valid())
	assert.False(t, Plan("platinum").Valid())
	assert.False(t, Plan("").Valid())
}

func allCapabilities() []Capability {
	return []Capability{
		CapScheduledPublishing,
		CapVersionHistory,
		CapCollaborativeEditing,
		CapAdvancedAnalytics,
		CapUnlimitedArticles,
		CapCustomDomain,
		CapSEOOptimization,
	}
}
