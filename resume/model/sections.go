package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SectionKind names one of the optional resume sections.
type SectionKind string

const (
	SectionProjects       SectionKind = "projects"
	SectionCertifications SectionKind = "certifications"
	SectionPublications   SectionKind = "publications"
	SectionReferences     SectionKind = "references"
	SectionAchievements   SectionKind = "achievements"
	SectionVolunteering   SectionKind = "volunteering"
)

// SectionKinds lists every kind in canonical display order.
var SectionKinds = []SectionKind{
	SectionProjects,
	SectionCertifications,
	SectionPublications,
	SectionAchievements,
	SectionVolunteering,
	SectionReferences,
}

// ParseSectionKind accepts any casing and surrounding space.
func ParseSectionKind(s string) (SectionKind, bool) {
	k := SectionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SectionKinds {
		if k == known {
			return k, true
		}
	}
	return "", false
}

// Entry is the kind-independent projection renderers lay out.
type Entry struct {
	Title    string
	Subtitle string
	Meta     string
	Body     string
	Link     string
}

// SectionItems is implemented by the per-kind record lists.
type SectionItems interface {
	Kind() SectionKind
	Len() int
	Entries() []Entry
}

type Project struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
	Link         string `json:"link"`
}

type Publication struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Date      string `json:"date"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
}

type Reference struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type Achievement struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type Volunteering struct {
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Period       string `json:"period"`
	Description  string `json:"description"`
}

type (
	Projects       []Project
	Certifications []Certification
	Publications   []Publication
	References     []Reference
	Achievements   []Achievement
	Volunteerings  []Volunteering
)

func (Projects) Kind() SectionKind       { return SectionProjects }
func (Certifications) Kind() SectionKind { return SectionCertifications }
func (Publications) Kind() SectionKind   { return SectionPublications }
func (References) Kind() SectionKind     { return SectionReferences }
func (Achievements) Kind() SectionKind   { return SectionAchievements }
func (Volunteerings) Kind() SectionKind  { return SectionVolunteering }

func (s Projects) Len() int       { return len(s) }
func (s Certifications) Len() int { return len(s) }
func (s Publications) Len() int   { return len(s) }
func (s References) Len() int     { return len(s) }
func (s Achievements) Len() int   { return len(s) }
func (s Volunteerings) Len() int  { return len(s) }

func (s Projects) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, p := range s {
		out = append(out, Entry{Title: p.Name, Subtitle: p.Role, Meta: p.Period, Body: p.Description, Link: p.Link})
	}
	return compact(out)
}

func (s Certifications) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, c := range s {
		meta := c.Date
		if id := strings.TrimSpace(c.CredentialID); id != "" {
			meta = joinNonEmpty(" | ", meta, "ID "+id)
		}
		out = append(out, Entry{Title: c.Name, Subtitle: c.Issuer, Meta: meta, Link: c.Link})
	}
	return compact(out)
}

func (s Publications) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, p := range s {
		out = append(out, Entry{Title: p.Title, Subtitle: p.Publisher, Meta: p.Date, Body: p.Summary, Link: p.Link})
	}
	return compact(out)
}

func (s References) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, r := range s {
		out = append(out, Entry{
			Title:    r.Name,
			Subtitle: joinNonEmpty(", ", r.Position, r.Organization),
			Meta:     joinNonEmpty(" | ", r.Email, r.Phone),
		})
	}
	return compact(out)
}

func (s Achievements) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, a := range s {
		out = append(out, Entry{Title: a.Title, Meta: a.Date, Body: a.Description})
	}
	return compact(out)
}

func (s Volunteerings) Entries() []Entry {
	out := make([]Entry, 0, len(s))
	for _, v := range s {
		out = append(out, Entry{Title: v.Role, Subtitle: v.Organization, Meta: v.Period, Body: v.Description})
	}
	return compact(out)
}

// CustomSection is an optional section with a kind-specific record list.
type CustomSection struct {
	Kind    SectionKind
	Enabled bool
	Items   SectionItems
}

// Entries is the common projection of the items, with blank records removed.
func (s CustomSection) Entries() []Entry {
	if s.Items == nil {
		return nil
	}
	return s.Items.Entries()
}

// Visible reports whether the section should be rendered at all.
func (s CustomSection) Visible() bool {
	return s.Enabled && len(s.Entries()) > 0
}

type sectionWire struct {
	Kind    string          `json:"kind"`
	Enabled bool            `json:"enabled"`
	Items   json.RawMessage `json:"items"`
}

func (s CustomSection) MarshalJSON() ([]byte, error) {
	items := any(s.Items)
	if s.Items == nil {
		items = []any{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionWire{Kind: string(s.Kind), Enabled: s.Enabled, Items: raw})
}

func (s *CustomSection) UnmarshalJSON(data []byte) error {
	var wire sectionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	kind, ok := ParseSectionKind(wire.Kind)
	if !ok {
		return fmt.Errorf("unknown section kind %q", wire.Kind)
	}

	var items SectionItems
	switch kind {
	case SectionProjects:
		var v Projects
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	case SectionCertifications:
		var v Certifications
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	case SectionPublications:
		var v Publications
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	case SectionReferences:
		var v References
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	case SectionAchievements:
		var v Achievements
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	case SectionVolunteering:
		var v Volunteerings
		if err := decodeItems(wire.Items, &v); err != nil {
			return fmt.Errorf("%s items: %w", kind, err)
		}
		items = v
	}

	*s = CustomSection{Kind: kind, Enabled: wire.Enabled, Items: items}
	return nil
}

func decodeItems(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func compact(entries []Entry) []Entry {
	out := entries[:0]
	for _, e := range entries {
		e = Entry{
			Title:    strings.TrimSpace(e.Title),
			Subtitle: strings.TrimSpace(e.Subtitle),
			Meta:     strings.TrimSpace(e.Meta),
			Body:     strings.TrimSpace(e.Body),
			Link:     strings.TrimSpace(e.Link),
		}
		if e == (Entry{}) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
