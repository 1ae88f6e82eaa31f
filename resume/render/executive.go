package render

import "strings"

// executive opens with a full-width banner and separates sections with accent rules.
type executive struct{}

func (executive) ID() TemplateID { return TemplateExecutive }

func (executive) Theme() Theme {
	return Theme{
		Primary:     RGB{0x1E, 0x3A, 0x5F},
		Secondary:   RGB{0x5B, 0x64, 0x70},
		Accent:      RGB{0xB8, 0x86, 0x0B},
		Text:        inkColor,
		HeadingFont: "Helvetica",
		BodyFont:    "Times",
		Scale:       1,
		Icons:       true,
		Borders:     true,
	}
}

const bannerHeight = 40.0

func (executive) banner(c *Canvas, name, headline string, contact []ContactItem, ph *photo) {
	t := c.Theme()
	c.Fill(0, 0, c.pageW, bannerHeight, t.Primary)
	c.Fill(0, bannerHeight, c.pageW, 1.2, t.Accent)

	width := c.Width()
	if ph != nil {
		size := bannerHeight - 12
		c.Section("photo")
		c.Photo(ph, c.pageW-pageMargin-size, 6, size, false)
		width -= size + 6
	}
	x := c.Left()
	c.SetColumn(x, width)
	c.MoveTo(10)
	c.Section("header")
	c.Text(name, Font{Family: t.HeadingFont, Style: "B", Size: 22, Color: white}, "L")
	c.Text(headline, Font{Family: t.HeadingFont, Size: 11, Color: t.Accent}, "L")
	c.Gap(1)
	c.Section(specContact.Key)
	var parts []string
	for _, it := range contact {
		parts = append(parts, it.Text)
	}
	c.Text(strings.Join(parts, "   |   "), Font{Family: t.BodyFont, Size: 9, Color: white}, "L")

	c.SetColumn(x, c.pageW-2*pageMargin)
	c.MoveTo(bannerHeight + 8)
}

func (s executive) Resume(c *Canvas, b Binding) {
	t := c.Theme()
	ts := newTypeset(t, 12, true)
	ts.heading.Color = t.Primary
	ts.glyph = "t"
	c.Start()
	s.banner(c, b.Name, b.Headline, b.Contact, b.Photo)
	ts.objective(c, b)
	ts.experience(c, b)
	ts.skills(c, b)
	ts.education(c, b)
	ts.custom(c, b.Sections)
}

func (s executive) Letter(c *Canvas, l LetterBinding) {
	ts := newTypeset(c.Theme(), 12, true)
	c.Start()
	s.banner(c, l.Name, "", l.Contact, nil)
	ts.letterBody(c, l)
}
