// Package gate derives feature permissions from the cached principal. It
// never issues network calls; the bootstrapper is responsible for keeping the
// cache current.
package gate

import "github.com/zealess/doj-frontend/internal/identity"

// Discord highest-role labels. Keep these stable; they are matched exactly
// against what the backend reports.
const (
	RoleFederalJudge       = "Juge Fédéral"
	RoleDeputyFederalJudge = "Juge Fédéral Adjoint"
	RoleAssessorJudge      = "Juge Assesseur"
)

// structureEditors is the fixed allow-list for structure edits. Static
// policy, evaluated per render, never stored per user.
var structureEditors = map[string]struct{}{
	RoleFederalJudge:       {},
	RoleDeputyFederalJudge: {},
	RoleAssessorJudge:      {},
}

// Enabled reports whether feature affordances are active for p, based solely
// on the Discord link status. Absence of information is never permission: a
// nil principal (failed load, empty cache) disables everything.
func Enabled(p *identity.Principal) bool {
	return p != nil && p.DiscordLinked
}

// CanEditStructure reports whether p may mutate the structure fields. Any
// role outside the allow-list, including an empty one, is read-only. This is
// advisory for the UI; the backend enforces the same policy on the mutation
// endpoint.
func CanEditStructure(p *identity.Principal) bool {
	if p == nil {
		return false
	}
	_, ok := structureEditors[p.DiscordHighestRole]
	return ok
}
