// Package policy decides whether an actor may use a gated capability.
// It is a pure lookup over closed plan and capability enumerations.
package policy

type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

type Capability string

const (
	CapScheduledPublishing  Capability = "scheduled_publishing"
	CapVersionHistory       Capability = "version_history"
	CapCollaborativeEditing Capability = "collaborative_editing"
	CapAdvancedAnalytics    Capability = "advanced_analytics"
	CapUnlimitedArticles    Capability = "unlimited_articles"
	CapCustomDomain         Capability = "custom_domain"
	CapSEOOptimization      Capability = "seo_optimization"
)

// entitlements is the per-plan capability table. Admins bypass it entirely.
var entitlements = map[Plan]map[Capability]bool{
	PlanFree: {},
	PlanPro: {
		CapScheduledPublishing: true,
		CapVersionHistory:      true,
		CapSEOOptimization:     true,
	},
	PlanEnterprise: {
		CapScheduledPublishing:  true,
		CapVersionHistory:       true,
		CapCollaborativeEditing: true,
		CapAdvancedAnalytics:    true,
		CapUnlimitedArticles:    true,
		CapCustomDomain:         true,
		CapSEOOptimization:      true,
	},
}

// CanAccess reports whether an actor on the given plan may use the capability.
// Admins are always allowed.
func CanAccess(plan Plan, isAdmin bool, cap Capability) bool {
	if isAdmin {
		return true
	}
	return entitlements[plan][cap]
}

// Valid reports whether p is a member of the closed plan enumeration. Used at
// the auth boundary; inside the core an unknown plan is unrepresentable.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
