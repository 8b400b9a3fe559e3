// Package category classifies records into contract-status categories.
// Categories are pure data: a finite status-string set plus an optional
// team allow-list. Matching is exact and fail-closed; a status the
// vocabulary does not know never counts anywhere.
package category

// Category names a predicate over (contract status, team membership).
type Category struct {
	Name     string
	Statuses []string
	// Teams restricts the category to a roster. Empty means every team
	// is eligible.
	Teams []string
}

// Matches reports whether the status belongs to the category. Comparison is
// exact and case-sensitive against the upstream status vocabulary. An empty
// status set means the category does not filter on status at all.
func (c Category) Matches(status string) bool {
	if len(c.Statuses) == 0 {
		return true
	}
	for _, s := range c.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// EligibleTeam reports whether the team may contribute to the category.
// Categories without a roster accept every team.
func (c Category) EligibleTeam(team string) bool {
	if len(c.Teams) == 0 {
		return true
	}
	for _, t := range c.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// WithTeams returns a copy of the category gated to the given roster.
func (c Category) WithTeams(teams []string) Category {
	c.Teams = teams
	return c
}
