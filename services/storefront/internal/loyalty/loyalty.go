package loyalty

import "time"

// Program is the customer's loyalty membership.
type Program struct {
	ID         string
	CustomerID string
	Points     int
	Tier       string
	Benefits   []string
	AutoRenew  bool
	ExpiresAt  time.Time
}

// Active reports whether the membership is usable at now. A program with
// no expiry never lapses.
func (p Program) Active(now time.Time) bool {
	return p.ExpiresAt.IsZero() || now.Before(p.ExpiresAt)
}

// Clone returns a copy that shares no slices with p.
func (p Program) Clone() Program {
	if p.Benefits != nil {
		p.Benefits = append([]string(nil), p.Benefits...)
	}
	return p
}

// Plan is a membership the customer can subscribe to.
type Plan struct {
	ID   string
	Name string
}

// DefaultPlans are offered when no plans are configured.
var DefaultPlans = []Plan{
	{ID: "1", Name: "Silver"},
	{ID: "2", Name: "Gold"},
}

// FindPlan looks up a plan by id.
func FindPlan(plans []Plan, id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
