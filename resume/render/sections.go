package render

import "resume-pipeline/resume/model"

// SectionSpec is the canonical heading and icon of a section. Icons are
// ZapfDingbats code points, shared by every strategy.
type SectionSpec struct {
	Key     string `json:"key"`
	Heading string `json:"heading"`
	Icon    string `json:"icon"`
}

var (
	specObjective  = SectionSpec{Key: "objective", Heading: "Profile", Icon: "l"}
	specExperience = SectionSpec{Key: "experience", Heading: "Experience", Icon: "u"}
	specEducation  = SectionSpec{Key: "education", Heading: "Education", Icon: "n"}
	specSkills     = SectionSpec{Key: "skills", Heading: "Skills", Icon: "s"}
	specContact    = SectionSpec{Key: "contact", Heading: "Contact", Icon: ")"}
)

var customSpecs = map[model.SectionKind]SectionSpec{
	model.SectionProjects:       {Key: string(model.SectionProjects), Heading: "Projects", Icon: "/"},
	model.SectionCertifications: {Key: string(model.SectionCertifications), Heading: "Certifications", Icon: "4"},
	model.SectionPublications:   {Key: string(model.SectionPublications), Heading: "Publications", Icon: "."},
	model.SectionReferences:     {Key: string(model.SectionReferences), Heading: "References", Icon: "%"},
	model.SectionAchievements:   {Key: string(model.SectionAchievements), Heading: "Achievements", Icon: "H"},
	model.SectionVolunteering:   {Key: string(model.SectionVolunteering), Heading: "Volunteering", Icon: "v"},
}

// SpecFor returns the canonical spec of a custom section kind.
func SpecFor(kind model.SectionKind) SectionSpec {
	if spec, ok := customSpecs[kind]; ok {
		return spec
	}
	return SectionSpec{Key: string(kind), Heading: string(kind)}
}

// SectionSpecs lists the core blocks followed by the custom kinds, in display order.
func SectionSpecs() []SectionSpec {
	out := []SectionSpec{specObjective, specExperience, specEducation, specSkills}
	for _, kind := range model.SectionKinds {
		out = append(out, SpecFor(kind))
	}
	return out
}

// contact icons
const (
	iconEmail   = ")"
	iconPhone   = "%"
	iconAddress = "+"
)
