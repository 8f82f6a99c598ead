// Package quota enforces the per-account resource limits derived from a
// user's subscription plan.
package quota

// Plan is a snapshot of the limits for one subscription tier. It is always
// recomputed from the static table below, never stored.
type Plan struct {
	// MaxSecrets caps how many secrets the account may hold at once.
	MaxSecrets int
	// MaxRequests is the per-billing-period budget of quota-gated
	// operations, used to seed the live request_quota counter.
	MaxRequests int
}

var (
	freePlan = Plan{MaxSecrets: 5, MaxRequests: 200}
	paidPlan = Plan{MaxSecrets: 50, MaxRequests: 5000}
)

// PlanFor returns the plan limits for a tier.
func PlanFor(hasPaid bool) Plan {
	if hasPaid {
		return paidPlan
	}
	return freePlan
}
