package main

// Render a sample resume and cover letter through every template:
//   go run ./cmd/renderdemo -out ./out

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-pipeline/internal/extract"
	"resume-pipeline/resume/model"
	"resume-pipeline/resume/render"
)

func main() {
	outDir := flag.String("out", "./out", "directory for rendered documents")
	style := flag.String("style", "", "optional JSON style override applied to every render")
	flag.Parse()

	var st render.Style
	if *style != "" {
		if err := json.Unmarshal([]byte(*style), &st); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -style: %v\n", err)
			os.Exit(2)
		}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	resume, sections, letter := sampleResume(), sampleSections(), sampleLetter()
	if err := writeJSON(filepath.Join(*outDir, "sample_resume.json"), resume); err != nil {
		fmt.Fprintf(os.Stderr, "write sample: %v\n", err)
		os.Exit(1)
	}

	engine := render.NewEngine(func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) })
	failed := false
	for _, tmpl := range render.Templates() {
		jobs := []render.Request{
			{Template: string(tmpl.ID), Format: "pdf", Style: st, Resume: &resume, Sections: sections},
			{Template: string(tmpl.ID), Format: "docx", Style: st, Resume: &resume, Sections: sections},
			{Template: string(tmpl.ID), Format: "pdf", Style: st, Letter: &letter},
		}
		for _, req := range jobs {
			res, err := engine.Render(req)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s/%s: render failed: %v\n", tmpl.ID, req.Format, err)
				failed = true
				continue
			}
			path := filepath.Join(*outDir, string(tmpl.ID)+"-"+res.FileName)
			if err := os.WriteFile(path, res.Bytes, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
				failed = true
				continue
			}
			if err := verify(res, resume, letter); err != nil {
				fmt.Fprintf(os.Stderr, "%s: verification failed: %v\n", path, err)
				failed = true
				continue
			}
			fmt.Printf("OK: %s (%d bytes, %d pages)\n", path, len(res.Bytes), res.Pages)
		}
	}
	if failed {
		os.Exit(1)
	}
}

// verify reads the document back through the extractor and checks the name survived.
func verify(res render.Result, resume model.Resume, letter model.Letter) error {
	upload, err := extract.NewUpload(res.Bytes, res.ContentType, 0)
	if err != nil {
		return err
	}
	text, err := extract.New(0).Extract(context.Background(), upload)
	if err != nil {
		return err
	}
	want := resume.FullName()
	if res.Document == render.DocumentLetter {
		want = letter.Sender.Name
	}
	// Some templates set the name in capitals.
	if !strings.Contains(strings.ToLower(text.Content), strings.ToLower(want)) {
		return fmt.Errorf("name %q not found in extracted text", want)
	}
	return nil
}

func writeJSON(path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func sampleResume() model.Resume {
	return model.Resume{
		FirstName: "Jordan",
		LastName:  "Lee",
		Email:     "jordan.lee@example.com",
		Phone:     "+1-555-0102",
		Address:   "Austin, TX",
		Objective: "Backend engineer with 8+ years of experience building resilient APIs and data services.",
		Education: &model.Education{Degree: "B.Sc. Computer Science", Institution: "University of Texas", Year: "2015"},
		Experience: []model.Experience{
			{
				Role:         "Senior Backend Engineer",
				Organization: "Acme Logistics",
				Period:       "2021 - Present",
				Description:  "Designed a routing service that reduced shipment latency by 18%.\nImplemented distributed tracing to cut incident triage time by 35%.",
			},
			{
				Role:         "Backend Engineer",
				Organization: "Blue Harbor Systems",
				Period:       "2018 - 2021",
				Description:  "Built event-driven ingestion pipelines for compliance data feeds.",
			},
		},
		Skills:   "Go, Java, PostgreSQL, Redis, AWS, Docker, Kubernetes, Terraform",
		Language: "en",
	}
}

func sampleSections() []model.CustomSection {
	return []model.CustomSection{
		{Kind: model.SectionProjects, Enabled: true, Items: model.Projects{
			{Name: "Routing engine", Role: "Lead", Period: "2022", Description: "Graph-based shipment routing in Go."},
		}},
		{Kind: model.SectionCertifications, Enabled: true, Items: model.Certifications{
			{Name: "AWS Solutions Architect", Issuer: "Amazon", Date: "2023"},
		}},
		{Kind: model.SectionPublications, Enabled: true, Items: model.Publications{}},
	}
}

func sampleLetter() model.Letter {
	return model.Letter{
		Sender:     model.Party{Name: "Jordan Lee", Email: "jordan.lee@example.com", Address: "Austin, TX"},
		Recipient:  model.Party{Name: "Hiring Team", Company: "Northwind"},
		Date:       "January 1, 2026",
		Subject:    "Senior Backend Engineer",
		Salutation: "Dear Hiring Team,",
		Paragraphs: []string{
			"I am writing to apply for the Senior Backend Engineer role at Northwind.",
			"At Acme Logistics I led the routing platform and its observability rollout.",
		},
		Closing:   "Kind regards,",
		Signature: "Jordan Lee",
	}
}
