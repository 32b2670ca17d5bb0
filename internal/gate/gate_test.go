package gate

import (
	"testing"

	"github.com/zealess/doj-frontend/internal/identity"
)

func TestEnabledRequiresLinkedDiscord(t *testing.T) {
	if Enabled(nil) {
		t.Fatalf("nil principal must be disabled")
	}
	if Enabled(&identity.Principal{Username: "a.targaryen"}) {
		t.Fatalf("unlinked principal must be disabled")
	}
	// Stale Discord fields with linked=false are still unlinked.
	if Enabled(&identity.Principal{DiscordUsername: "targa", DiscordHighestRole: RoleFederalJudge}) {
		t.Fatalf("linked=false with stale fields must be disabled")
	}
	if !Enabled(&identity.Principal{DiscordLinked: true}) {
		t.Fatalf("linked principal must be enabled regardless of role")
	}
}

func TestCanEditStructureAllowList(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{RoleFederalJudge, true},
		{RoleDeputyFederalJudge, true},
		{RoleAssessorJudge, true},
		{"Greffier", false},
		{"juge fédéral", false}, // exact match only
		{"", false},
	}
	for _, tc := range cases {
		p := &identity.Principal{DiscordLinked: true, DiscordHighestRole: tc.role}
		if got := CanEditStructure(p); got != tc.want {
			t.Fatalf("role %q: expected %v, got %v", tc.role, tc.want, got)
		}
	}
	if CanEditStructure(nil) {
		t.Fatalf("nil principal must not edit")
	}
}
