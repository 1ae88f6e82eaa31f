package render

import (
	"fmt"
	"strconv"
	"strings"

	"resume-pipeline/resume/model"
)

// Style carries advisory presentation hints. Strategies honour what their layout
// can use; anything unparseable falls back to the strategy's own theme.
type Style struct {
	Template       string              `json:"template"`
	PrimaryColor   string              `json:"primaryColor"`
	SecondaryColor string              `json:"secondaryColor"`
	AccentColor    string              `json:"accentColor"`
	HeadingFont    string              `json:"headingFont"`
	BodyFont       string              `json:"bodyFont"`
	Spacing        string              `json:"spacing"`
	ShowIcons      *bool               `json:"showIcons"`
	SectionBorders *bool               `json:"sectionBorders"`
	Sections       []model.SectionKind `json:"sections"`
}

// RGB is a colour in 0-255 channels.
type RGB struct{ R, G, B int }

// Hex formats the colour as RRGGBB, the form Word run properties use.
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

var (
	white    = RGB{255, 255, 255}
	inkColor = RGB{0x22, 0x22, 0x22}
)

// ParseColor accepts #RRGGBB, RRGGBB and #RGB.
func ParseColor(s string) (RGB, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, true
}

// Theme is a fully resolved style.
type Theme struct {
	Primary     RGB
	Secondary   RGB
	Accent      RGB
	Text        RGB
	HeadingFont string
	BodyFont    string
	Scale       float64
	Icons       bool
	Borders     bool
}

// apply overlays the hints in s that parse onto base.
func (s Style) apply(base Theme) Theme {
	t := base
	if c, ok := ParseColor(s.PrimaryColor); ok {
		t.Primary = c
	}
	if c, ok := ParseColor(s.SecondaryColor); ok {
		t.Secondary = c
	}
	if c, ok := ParseColor(s.AccentColor); ok {
		t.Accent = c
	}
	if f, ok := coreFamily(s.HeadingFont); ok {
		t.HeadingFont = f
	}
	if f, ok := coreFamily(s.BodyFont); ok {
		t.BodyFont = f
	}
	switch strings.ToLower(strings.TrimSpace(s.Spacing)) {
	case "compact":
		t.Scale = 0.85
	case "relaxed":
		t.Scale = 1.2
	case "normal":
		t.Scale = 1
	}
	if s.ShowIcons != nil {
		t.Icons = *s.ShowIcons
	}
	if s.SectionBorders != nil {
		t.Borders = *s.SectionBorders
	}
	if t.Scale <= 0 {
		t.Scale = 1
	}
	if t.Text == (RGB{}) {
		t.Text = inkColor
	}
	return t
}

// coreFamily maps requested typefaces onto the PDF core families so no font
// files are needed.
func coreFamily(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "helvetica", "arial", "sans", "sans-serif", "inter", "roboto", "open sans", "lato":
		return "Helvetica", true
	case "times", "times new roman", "serif", "georgia", "garamond", "merriweather":
		return "Times", true
	case "courier", "courier new", "mono", "monospace":
		return "Courier", true
	default:
		return "", false
	}
}
