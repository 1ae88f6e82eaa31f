package render

// classic is a single serif column with ruled, upper-case headings.
type classic struct{}

func (classic) ID() TemplateID { return TemplateClassic }

func (classic) Theme() Theme {
	return Theme{
		Primary:     RGB{0x1F, 0x29, 0x37},
		Secondary:   RGB{0x4B, 0x55, 0x63},
		Accent:      RGB{0x1F, 0x29, 0x37},
		Text:        inkColor,
		HeadingFont: "Times",
		BodyFont:    "Times",
		Scale:       1,
		Borders:     true,
	}
}

func (classic) header(c *Canvas, ts typeset, name, headline string, contact []ContactItem) {
	c.Section("header")
	c.Text(name, ts.name, "C")
	c.Text(headline, ts.headline, "C")
	c.Gap(1)
	ts.contactLine(c, contact, ts.meta, "C")
	c.Gap(2)
	c.Rule(c.Theme().Primary, 0.6)
	c.Gap(4)
}

func (s classic) Resume(c *Canvas, b Binding) {
	ts := newTypeset(c.Theme(), 12, true)
	ts.glyph = "l"
	c.Start()
	s.header(c, ts, b.Name, b.Headline, b.Contact)
	ts.objective(c, b)
	ts.experience(c, b)
	ts.education(c, b)
	ts.inline = true
	ts.skills(c, b)
	ts.custom(c, b.Sections)
}

func (s classic) Letter(c *Canvas, l LetterBinding) {
	ts := newTypeset(c.Theme(), 12, true)
	c.Start()
	s.header(c, ts, l.Name, "", l.Contact)
	ts.letterBody(c, l)
}
