package identity

import (
	"encoding/json"
	"strings"
)

// Principal is the authenticated user's profile as returned by the identity
// backend. It is cached verbatim by the session layer and replaced wholesale
// on every successful fetch; no component field-merges into it.
//
// Invariants:
// - DiscordLinked == false means the Discord fields must be treated as absent,
//   even when stale values are still present in the record.
// - At most one linked Discord identity per principal.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`

	DiscordLinked      bool   `json:"discordLinked"`
	DiscordUsername    string `json:"discordUsername,omitempty"`
	DiscordNickname    string `json:"discordNickname,omitempty"`
	DiscordAvatar      string `json:"discordAvatar,omitempty"`
	DiscordHighestRole string `json:"discordHighestRole,omitempty"`

	Sector        string     `json:"sector,omitempty"`
	Service       string     `json:"service,omitempty"`
	Poles         StringList `json:"poles,omitempty"`
	Habilitations StringList `json:"habilitations,omitempty"`
	FJF           bool       `json:"fjf"`
}

// DisplayName is the identity shown in the portal header: Discord nickname,
// then Discord username, then the portal username.
func (p Principal) DisplayName() string {
	if p.DiscordNickname != "" {
		return p.DiscordNickname
	}
	if p.DiscordUsername != "" {
		return p.DiscordUsername
	}
	return p.Username
}

// Assignment groups the organizational fields of a principal. It is mutated
// only through the structure edit flow; reads always come from the cached
// principal.
type Assignment struct {
	Sector        string     `json:"sector"`
	Service       string     `json:"service"`
	Poles         StringList `json:"poles"`
	Habilitations StringList `json:"habilitations"`
	FJF           bool       `json:"fjf"`
}

func (p Principal) Assignment() Assignment {
	return Assignment{
		Sector:        p.Sector,
		Service:       p.Service,
		Poles:         p.Poles,
		Habilitations: p.Habilitations,
		FJF:           p.FJF,
	}
}

// StringList is a label set that the backend serializes either as a JSON
// array or as a single comma-joined string. Both forms decode to the
// canonical split form: comma-separated, trimmed, empties dropped, order
// preserved. It re-encodes as an array.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = normalizeList(items)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = SplitList(joined)
	return nil
}

// Joined renders the list in its editable text form ("A, B").
func (l StringList) Joined() string {
	return strings.Join(l, ", ")
}

// SplitList converts a comma-joined string to canonical form.
func SplitList(s string) StringList {
	return normalizeList(strings.Split(s, ","))
}

func normalizeList(items []string) StringList {
	out := make(StringList, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
