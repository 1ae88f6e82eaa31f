package render

import (
	"strings"

	"resume-pipeline/internal/apperr"
	"resume-pipeline/resume/model"
)

// ContactItem is one line of the identity header.
type ContactItem struct {
	Icon string
	Text string
}

// SectionBlock is a visible custom section ready to lay out.
type SectionBlock struct {
	Spec    SectionSpec
	Entries []model.Entry
}

// Binding is the data every resume strategy lays out. It is derived once per
// render so strategies never re-derive it.
type Binding struct {
	Name       string
	Headline   string
	Contact    []ContactItem
	Objective  string
	Experience []model.Experience
	Education  *model.Education
	Skills     []string
	Sections   []SectionBlock
	Photo      *photo
}

// LetterBinding is the data every letter strategy lays out.
type LetterBinding struct {
	Name       string
	Contact    []ContactItem
	Date       string
	Recipient  []string
	Subject    string
	Greeting   string
	Paragraphs []string
	SignOff    string
	Signer     string
}

func bindResume(r model.Resume, sections []model.CustomSection, only []model.SectionKind, ph *photo) (Binding, error) {
	r = r.Normalized()
	if !r.HasName() {
		return Binding{}, apperr.Render("resume data has no name to place in the header", model.ErrMissingName)
	}

	b := Binding{
		Name:      r.FullName(),
		Contact:   contactItems(r.Email, r.Phone, r.Address),
		Objective: r.Objective,
		Skills:    r.SkillList(),
		Photo:     ph,
	}
	if !r.Education.IsZero() {
		b.Education = r.Education
	}
	for _, exp := range r.Experience {
		// Entries need something to title them; other missing fields are omitted.
		if exp.Role == "" && exp.Organization == "" {
			continue
		}
		b.Experience = append(b.Experience, exp)
	}
	if len(b.Experience) > 0 {
		b.Headline = b.Experience[0].Role
	}
	b.Sections = visibleSections(sections, only)
	return b, nil
}

func bindLetter(l model.Letter) (LetterBinding, error) {
	if err := l.Validate(); err != nil {
		return LetterBinding{}, apperr.Render("letter data is incomplete", err)
	}
	return LetterBinding{
		Name:       strings.TrimSpace(l.Sender.Name),
		Contact:    contactItems(l.Sender.Email, l.Sender.Phone, l.Sender.Address),
		Date:       strings.TrimSpace(l.Date),
		Recipient:  l.Recipient.Lines(),
		Subject:    strings.TrimSpace(l.Subject),
		Greeting:   l.Greeting(),
		Paragraphs: l.Body(),
		SignOff:    l.SignOff(),
		Signer:     l.Signer(),
	}, nil
}

func contactItems(email, phone, address string) []ContactItem {
	var out []ContactItem
	if s := strings.TrimSpace(email); s != "" {
		out = append(out, ContactItem{Icon: iconEmail, Text: s})
	}
	if s := strings.TrimSpace(phone); s != "" {
		out = append(out, ContactItem{Icon: iconPhone, Text: s})
	}
	if s := strings.TrimSpace(address); s != "" {
		out = append(out, ContactItem{Icon: iconAddress, Text: s})
	}
	return out
}

// visibleSections keeps sections that are enabled and have data. A non-empty only
// list restricts and orders the kinds.
func visibleSections(sections []model.CustomSection, only []model.SectionKind) []SectionBlock {
	pick := func(s model.CustomSection) (SectionBlock, bool) {
		if !s.Visible() {
			return SectionBlock{}, false
		}
		return SectionBlock{Spec: SpecFor(s.Kind), Entries: s.Entries()}, true
	}

	var out []SectionBlock
	if len(only) == 0 {
		for _, s := range sections {
			if block, ok := pick(s); ok {
				out = append(out, block)
			}
		}
		return out
	}
	seen := make(map[model.SectionKind]bool, len(only))
	for _, kind := range only {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		for _, s := range sections {
			if s.Kind != kind {
				continue
			}
			if block, ok := pick(s); ok {
				out = append(out, block)
			}
		}
	}
	return out
}

func contactTexts(items []ContactItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}
