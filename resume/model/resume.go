package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingName is returned when neither first nor last name is present.
var ErrMissingName = errors.New("at least one of firstName or lastName is required")

// DefaultLanguage is assumed when no language was detected.
const DefaultLanguage = "en"

// Resume is the canonical structured resume record.
type Resume struct {
	FirstName  string       `json:"firstName"`
	LastName   string       `json:"lastName"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Address    string       `json:"address"`
	Education  *Education   `json:"education"`
	Experience []Experience `json:"experience"`
	Skills     string       `json:"skills"`
	Objective  string       `json:"objective"`
	Language   string       `json:"language"`
}

// Education is the latest education block.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// IsZero reports whether every field is blank.
func (e *Education) IsZero() bool {
	return e == nil || (strings.TrimSpace(e.Degree) == "" &&
		strings.TrimSpace(e.Institution) == "" &&
		strings.TrimSpace(e.Year) == "")
}

// Experience is one work history entry. All fields are required once the entry exists.
type Experience struct {
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Period       string `json:"period"`
	Description  string `json:"description"`
}

func (e Experience) isBlank() bool {
	return strings.TrimSpace(e.Role) == "" &&
		strings.TrimSpace(e.Organization) == "" &&
		strings.TrimSpace(e.Period) == "" &&
		strings.TrimSpace(e.Description) == ""
}

func (e Experience) missing() []string {
	var out []string
	if strings.TrimSpace(e.Role) == "" {
		out = append(out, "role")
	}
	if strings.TrimSpace(e.Organization) == "" {
		out = append(out, "organization")
	}
	if strings.TrimSpace(e.Period) == "" {
		out = append(out, "period")
	}
	if strings.TrimSpace(e.Description) == "" {
		out = append(out, "description")
	}
	return out
}

// HasName reports whether the identity invariant holds.
func (r Resume) HasName() bool {
	return strings.TrimSpace(r.FirstName) != "" || strings.TrimSpace(r.LastName) != ""
}

// Validate enforces the name invariant and complete experience entries.
func (r Resume) Validate() error {
	if !r.HasName() {
		return ErrMissingName
	}
	for i, exp := range r.Experience {
		if missing := exp.missing(); len(missing) > 0 {
			return fmt.Errorf("experience[%d] is missing %s", i, strings.Join(missing, ", "))
		}
	}
	return nil
}

// FullName joins the non-empty name parts.
func (r Resume) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}

// SkillList splits the free-text skills field on commas, semicolons, bullets and
// newlines. Duplicates are dropped case-insensitively; first spelling wins.
func (r Resume) SkillList() []string {
	fields := strings.FieldsFunc(r.Skills, func(c rune) bool {
		switch c {
		case ',', ';', '\n', '\r', '•', '·', '|':
			return true
		}
		return false
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		s := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(f), "-*"))
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Normalized trims every string, drops blank experience entries and a blank education
// block, and lower-cases the language tag.
func (r Resume) Normalized() Resume {
	out := Resume{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
		Phone:     strings.TrimSpace(r.Phone),
		Address:   strings.TrimSpace(r.Address),
		Skills:    strings.TrimSpace(r.Skills),
		Objective: strings.TrimSpace(r.Objective),
		Language:  strings.ToLower(strings.TrimSpace(r.Language)),
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	if !r.Education.IsZero() {
		out.Education = &Education{
			Degree:      strings.TrimSpace(r.Education.Degree),
			Institution: strings.TrimSpace(r.Education.Institution),
			Year:        strings.TrimSpace(r.Education.Year),
		}
	}
	for _, exp := range r.Experience {
		if exp.isBlank() {
			continue
		}
		out.Experience = append(out.Experience, Experience{
			Role:         strings.TrimSpace(exp.Role),
			Organization: strings.TrimSpace(exp.Organization),
			Period:       strings.TrimSpace(exp.Period),
			Description:  strings.TrimSpace(exp.Description),
		})
	}
	return out
}
