package httpapi

import (
	"github.com/zealess/doj-frontend/internal/gate"
	"github.com/zealess/doj-frontend/internal/identity"
	"github.com/zealess/doj-frontend/internal/profile"
)

// View models returned to the rendering layer. The gateway decides what is
// enabled; the presentation only draws it.

type cardView struct {
	Subtitle    string `json:"subtitle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Badge       string `json:"badge,omitempty"`
	// Enabled mirrors the capability gate: false renders the card
	// non-interactive and visually distinguished.
	Enabled bool `json:"enabled"`
}

type cardGroupView struct {
	Name  string     `json:"name"`
	Cards []cardView `json:"cards"`
}

type dashboardPayload struct {
	User     *identity.Principal `json:"user,omitempty"`
	Linked   bool                `json:"linked"`
	Degraded bool                `json:"degraded,omitempty"`
	// LoadFailed is the availability-failure state: no principal could be
	// resolved but the session itself is intact.
	LoadFailed bool            `json:"loadFailed,omitempty"`
	Groups     []cardGroupView `json:"groups"`
}

type cardSpec struct {
	subtitle    string
	title       string
	description string
	badge       string
}

// The portal's feature surface. All cards are placeholders pending their
// sections' development; their availability is still gated on the Discord
// link.
var cardGroups = []struct {
	name  string
	cards []cardSpec
}{
	{
		name: "Outils",
		cards: []cardSpec{
			{"Outils", "Calculatrice", "Effectuer rapidement des calculs RP (amendes, intérêts, durées de peine…).", "À venir"},
			{"Outils", "Comptabilité", "Suivi des honoraires, frais de justice et mouvements financiers internes.", "À venir"},
			{"Outils", "CAD", "Accès au CAD du DOJ : dossiers en cours, décisions et historiques.", "À venir"},
			{"Documentation", "Guide – Législatif, Exécutif & Judiciaire", "Accès centralisé aux textes RP : lois, procédures, guides internes.", "À venir"},
			{"Communication", "Messagerie interne", "Échanger avec les magistrats, greffiers et membres du DOJ.", "À venir"},
		},
	},
	{
		name: "Travail",
		cards: []cardSpec{
			{"Dossiers", "Comparutions immédiates", "Création et suivi des dossiers de CI en temps réel.", "À venir"},
			{"Dossiers", "Procès", "Gestion des audiences planifiées et des décisions rendues.", "À venir"},
			{"Dossiers", "Dossier 10-10", "Suivi des dossiers complexes nécessitant une instruction approfondie.", "À venir"},
			{"Casier", "Effacement de casier", "Traitement des demandes d'effacement de casier judiciaire RP.", "À venir"},
		},
	},
	{
		name: "Annuaire",
		cards: []cardSpec{
			{"Annuaire", "Mon profil magistrat", "Consulter et modifier les informations de votre profil DOJ.", "À venir"},
			{"Annuaire", "Effectif & organigramme", "Liste des magistrats, greffiers et postes au sein du DOJ.", "À venir"},
		},
	},
}

func dashboardView(p *identity.Principal, degraded, loadFailed bool) dashboardPayload {
	enabled := gate.Enabled(p)

	groups := make([]cardGroupView, 0, len(cardGroups))
	for _, g := range cardGroups {
		cards := make([]cardView, 0, len(g.cards))
		for _, spec := range g.cards {
			cards = append(cards, cardView{
				Subtitle:    spec.subtitle,
				Title:       spec.title,
				Description: spec.description,
				Badge:       spec.badge,
				Enabled:     enabled,
			})
		}
		groups = append(groups, cardGroupView{Name: g.name, Cards: cards})
	}

	return dashboardPayload{
		User:       p,
		Linked:     enabled,
		Degraded:   degraded,
		LoadFailed: loadFailed,
		Groups:     groups,
	}
}

type assignmentPayload struct {
	Sector        string `json:"sector"`
	Service       string `json:"service"`
	Poles         string `json:"poles"`
	Habilitations string `json:"habilitations"`
	FJF           bool   `json:"fjf"`
}

type profilePayload struct {
	User            *identity.Principal `json:"user,omitempty"`
	DisplayIdentity string              `json:"displayIdentity,omitempty"`
	HighestRole     string              `json:"highestRole,omitempty"`
	Linked          bool                `json:"linked"`
	CanEdit         bool                `json:"canEdit"`
	Assignment      *assignmentPayload  `json:"assignment,omitempty"`
	Degraded        bool                `json:"degraded,omitempty"`
	LoadFailed      bool                `json:"loadFailed,omitempty"`
}

func profileView(p *identity.Principal, degraded, loadFailed bool) profilePayload {
	out := profilePayload{
		Linked:     gate.Enabled(p),
		CanEdit:    gate.CanEditStructure(p),
		Degraded:   degraded,
		LoadFailed: loadFailed,
	}
	if p == nil {
		return out
	}

	// The read-only rendering reuses the draft hydration so both modes show
	// the identical canonical joined form.
	d := profile.BeginEdit(*p)
	out.User = p
	out.DisplayIdentity = p.DisplayName()
	out.HighestRole = p.DiscordHighestRole
	out.Assignment = &assignmentPayload{
		Sector:        d.Sector,
		Service:       d.Service,
		Poles:         d.Poles,
		Habilitations: d.Habilitations,
		FJF:           d.FJF,
	}
	return out
}
