package render

import "strings"

// TemplateID names a layout strategy.
type TemplateID string

const (
	TemplateClassic   TemplateID = "classic"
	TemplateModern    TemplateID = "modern"
	TemplateMinimal   TemplateID = "minimal"
	TemplateExecutive TemplateID = "executive"

	DefaultTemplate = TemplateClassic
)

// Strategy lays out a bound resume or letter onto a canvas.
type Strategy interface {
	ID() TemplateID
	Theme() Theme
	Resume(c *Canvas, b Binding)
	Letter(c *Canvas, l LetterBinding)
}

// TemplateInfo describes a template for listings.
type TemplateInfo struct {
	ID          TemplateID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Default     bool       `json:"default"`
}

var strategies = []Strategy{classic{}, modern{}, minimal{}, executive{}}

var templateInfo = map[TemplateID]TemplateInfo{
	TemplateClassic:   {Name: "Classic", Description: "Single column serif layout with ruled section headings."},
	TemplateModern:    {Name: "Modern", Description: "Coloured sidebar with photo, contact details and skills."},
	TemplateMinimal:   {Name: "Minimal", Description: "Quiet sans-serif layout with generous whitespace."},
	TemplateExecutive: {Name: "Executive", Description: "Full width banner header with accent rules."},
}

// Templates lists the available templates in display order.
func Templates() []TemplateInfo {
	out := make([]TemplateInfo, 0, len(strategies))
	for _, s := range strategies {
		info := templateInfo[s.ID()]
		info.ID = s.ID()
		info.Default = s.ID() == DefaultTemplate
		out = append(out, info)
	}
	return out
}

func lookup(id string) (Strategy, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range strategies {
		if string(s.ID()) == id {
			return s, true
		}
	}
	return nil, false
}

// Resolve picks the strategy for a request. A valid style override wins over the
// requested id; anything unrecognised falls back to the default and reports it.
func Resolve(id string, style Style) (Strategy, bool) {
	if s, ok := lookup(style.Template); ok {
		return s, false
	}
	if s, ok := lookup(id); ok {
		return s, false
	}
	def, _ := lookup(string(DefaultTemplate))
	fallback := strings.TrimSpace(id) != "" || strings.TrimSpace(style.Template) != ""
	return def, fallback
}
