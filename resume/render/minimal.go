package render

// minimal uses one sans-serif column, no rules or icons, and wide margins.
type minimal struct{}

func (minimal) ID() TemplateID { return TemplateMinimal }

func (minimal) Theme() Theme {
	return Theme{
		Primary:     RGB{0x11, 0x11, 0x11},
		Secondary:   RGB{0x6B, 0x72, 0x80},
		Accent:      RGB{0x9C, 0xA3, 0xAF},
		Text:        RGB{0x37, 0x41, 0x51},
		HeadingFont: "Helvetica",
		BodyFont:    "Helvetica",
		Scale:       1.1,
	}
}

const minimalInset = 10.0

func (minimal) typeset(t Theme) typeset {
	ts := newTypeset(t, 9, true)
	ts.name = Font{Family: t.HeadingFont, Size: 26, Color: t.Primary}
	ts.heading = Font{Family: t.HeadingFont, Style: "B", Size: 9, Color: t.Secondary}
	ts.glyph = "m"
	ts.inline = true
	return ts
}

func (s minimal) Resume(c *Canvas, b Binding) {
	ts := s.typeset(c.Theme())
	c.SetColumn(c.Left()+minimalInset, c.Width()-2*minimalInset)
	c.Start()
	c.Section("header")
	c.Text(b.Name, ts.name, "L")
	c.Text(b.Headline, ts.headline, "L")
	ts.contactLine(c, b.Contact, ts.meta, "L")
	c.Gap(8)
	ts.objective(c, b)
	ts.experience(c, b)
	ts.education(c, b)
	ts.skills(c, b)
	ts.custom(c, b.Sections)
}

func (s minimal) Letter(c *Canvas, l LetterBinding) {
	ts := s.typeset(c.Theme())
	c.SetColumn(c.Left()+minimalInset, c.Width()-2*minimalInset)
	c.Start()
	c.Section("header")
	c.Text(l.Name, ts.name, "L")
	ts.contactLine(c, l.Contact, ts.meta, "L")
	c.Gap(12)
	ts.letterBody(c, l)
}
