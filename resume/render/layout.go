package render

import (
	"strings"

	"resume-pipeline/resume/model"
)

// typeset is the font palette a strategy hands to the shared section writers.
type typeset struct {
	name     Font
	headline Font
	heading  Font
	title    Font
	body     Font
	meta     Font
	upper    bool
	glyph    string
	inline   bool
}

func newTypeset(t Theme, headingSize float64, upper bool) typeset {
	return typeset{
		name:     Font{Family: t.HeadingFont, Style: "B", Size: 24, Color: t.Primary},
		headline: Font{Family: t.BodyFont, Style: "I", Size: 11, Color: t.Secondary},
		heading:  Font{Family: t.HeadingFont, Style: "B", Size: headingSize, Color: t.Primary},
		title:    Font{Family: t.BodyFont, Style: "B", Size: 10.5, Color: t.Text},
		body:     Font{Family: t.BodyFont, Size: 10, Color: t.Text},
		meta:     Font{Family: t.BodyFont, Style: "I", Size: 9, Color: t.Secondary},
		upper:    upper,
		glyph:    "l",
	}
}

func (ts typeset) objective(c *Canvas, b Binding) {
	if b.Objective == "" {
		return
	}
	c.Heading(specObjective, ts.heading, ts.upper)
	c.Paragraph(b.Objective, ts.body)
	c.Gap(3)
}

func (ts typeset) experience(c *Canvas, b Binding) {
	if len(b.Experience) == 0 {
		return
	}
	c.Heading(specExperience, ts.heading, ts.upper)
	for _, exp := range b.Experience {
		c.Split(experienceTitle(exp), ts.title, exp.Period, ts.meta)
		for _, line := range descriptionLines(exp.Description) {
			c.Bullet(line, ts.body, ts.glyph)
		}
		c.Gap(2.5)
	}
	c.Gap(1.5)
}

func (ts typeset) education(c *Canvas, b Binding) {
	if b.Education == nil {
		return
	}
	c.Heading(specEducation, ts.heading, ts.upper)
	edu := b.Education
	title := edu.Degree
	if title == "" {
		title = edu.Institution
	}
	c.Split(title, ts.title, edu.Year, ts.meta)
	if edu.Degree != "" && edu.Institution != "" {
		c.Text(edu.Institution, ts.meta, "L")
	}
	c.Gap(4)
}

func (ts typeset) skills(c *Canvas, b Binding) {
	if len(b.Skills) == 0 {
		return
	}
	c.Heading(specSkills, ts.heading, ts.upper)
	if ts.inline {
		c.Paragraph(strings.Join(b.Skills, "  ·  "), ts.body)
	} else {
		for _, s := range b.Skills {
			c.Bullet(s, ts.body, ts.glyph)
		}
	}
	c.Gap(3)
}

func (ts typeset) custom(c *Canvas, blocks []SectionBlock) {
	for _, block := range blocks {
		c.Heading(block.Spec, ts.heading, ts.upper)
		for _, e := range block.Entries {
			c.Split(e.Title, ts.title, e.Meta, ts.meta)
			c.Text(e.Subtitle, ts.meta, "L")
			c.Text(e.Body, ts.body, "L")
			c.Text(e.Link, Font{Family: ts.body.Family, Size: 9, Color: c.Theme().Accent}, "L")
			c.Gap(2)
		}
		c.Gap(2)
	}
}

// contactLine writes contact items on one line.
func (ts typeset) contactLine(c *Canvas, items []ContactItem, f Font, align string) {
	c.Section(specContact.Key)
	c.Text(strings.Join(contactTexts(items), "   |   "), f, align)
}

// contactList writes one item per line, each led by its icon.
func (ts typeset) contactList(c *Canvas, items []ContactItem, f Font, iconColor RGB) {
	c.Section(specContact.Key)
	for _, it := range items {
		if !c.Theme().Icons {
			c.Text(it.Text, f, "L")
			continue
		}
		c.EnsureSpace(c.lineHeight(f.Size))
		y := c.Y()
		x := c.Left()
		c.Icon(x, y, it.Icon, f.Size*0.8, iconColor)
		c.SetColumn(x+5, c.Width()-5)
		c.MoveTo(y)
		c.Text(it.Text, f, "L")
		c.SetColumn(x, c.Width()+5)
		c.MoveTo(c.Y())
	}
}

func (ts typeset) letterBody(c *Canvas, l LetterBinding) {
	c.Section("letter")
	if l.Date != "" {
		c.Text(l.Date, ts.body, "L")
		c.Gap(5)
	}
	for _, line := range l.Recipient {
		c.Text(line, ts.body, "L")
	}
	if len(l.Recipient) > 0 {
		c.Gap(5)
	}
	if l.Subject != "" {
		c.Text(l.Subject, ts.title, "L")
		c.Gap(4)
	}
	c.Text(l.Greeting, ts.body, "L")
	c.Gap(3)
	for _, p := range l.Paragraphs {
		c.Paragraph(p, ts.body)
		c.Gap(1.5)
	}
	c.Gap(3)
	c.Text(l.SignOff, ts.body, "L")
	c.Gap(10)
	c.Text(l.Signer, ts.title, "L")
}

func experienceTitle(exp model.Experience) string {
	switch {
	case exp.Role != "" && exp.Organization != "":
		return exp.Role + ", " + exp.Organization
	case exp.Role != "":
		return exp.Role
	default:
		return exp.Organization
	}
}

// descriptionLines splits a description into bullet lines, dropping list markers.
func descriptionLines(desc string) []string {
	var out []string
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
