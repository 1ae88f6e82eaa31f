package render

// modern paints a coloured sidebar on every page holding the photo, contact
// details, skills and education; the main column carries the narrative sections.
type modern struct{}

func (modern) ID() TemplateID { return TemplateModern }

func (modern) Theme() Theme {
	return Theme{
		Primary:     RGB{0x0F, 0x76, 0x6E},
		Secondary:   RGB{0x4B, 0x55, 0x63},
		Accent:      RGB{0x14, 0xB8, 0xA6},
		Text:        inkColor,
		HeadingFont: "Helvetica",
		BodyFont:    "Helvetica",
		Scale:       1,
		Icons:       true,
	}
}

const (
	sidebarWidth = 64.0
	sidebarPad   = 8.0
	photoSize    = 34.0
	gutter       = 9.0
)

func (s modern) Resume(c *Canvas, b Binding) {
	t := c.Theme()
	c.OnPageStart(func() {
		c.Fill(0, 0, sidebarWidth, c.Height(), t.Primary)
	})

	side := newTypeset(t, 10, true)
	side.name = Font{Family: t.HeadingFont, Style: "B", Size: 18, Color: white}
	side.headline = Font{Family: t.BodyFont, Style: "I", Size: 10, Color: white}
	side.heading = Font{Family: t.HeadingFont, Style: "B", Size: 10, Color: white}
	side.title = Font{Family: t.BodyFont, Style: "B", Size: 9.5, Color: white}
	side.body = Font{Family: t.BodyFont, Size: 9, Color: white}
	side.meta = Font{Family: t.BodyFont, Style: "I", Size: 8.5, Color: white}

	c.SetColumn(sidebarPad, sidebarWidth-2*sidebarPad)
	c.Start()
	if b.Photo != nil {
		c.Section("photo")
		c.Photo(b.Photo, (sidebarWidth-photoSize)/2, c.Y(), photoSize, true)
		c.MoveTo(c.Y() + photoSize + 6)
	}
	c.Section("header")
	c.Text(b.Name, side.name, "L")
	c.Text(b.Headline, side.headline, "L")
	c.Gap(5)
	if len(b.Contact) > 0 {
		c.Heading(specContact, side.heading, side.upper)
		side.contactList(c, b.Contact, side.body, white)
		c.Gap(4)
	}
	if len(b.Skills) > 0 {
		c.Heading(specSkills, side.heading, side.upper)
		for _, skill := range b.Skills {
			c.Text(skill, side.body, "L")
		}
		c.Gap(4)
	}
	side.education(c, b)

	main := newTypeset(t, 13, false)
	main.glyph = "u"
	c.GotoPage(1)
	c.SetColumn(sidebarWidth+gutter, c.pageW-sidebarWidth-gutter-pageMargin)
	c.MoveTo(pageMargin)
	main.objective(c, b)
	main.experience(c, b)
	main.custom(c, b.Sections)
}

func (s modern) Letter(c *Canvas, l LetterBinding) {
	t := c.Theme()
	ts := newTypeset(t, 12, false)
	c.OnPageStart(func() {
		c.Fill(0, 0, c.pageW, 6, t.Primary)
	})
	c.Start()
	c.Section("header")
	c.Text(l.Name, Font{Family: t.HeadingFont, Style: "B", Size: 20, Color: t.Primary}, "L")
	ts.contactList(c, l.Contact, ts.meta, t.Accent)
	c.Gap(8)
	ts.letterBody(c, l)
}
