package main

// Run the ingestion pipeline against a local file:
//   go run ./cmd/extractdemo -file ./cv.pdf
// Without -structured only text extraction runs, so no API key is needed.

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"resume-pipeline/internal/bootstrap"
	"resume-pipeline/internal/documents"
	"resume-pipeline/internal/extract"
	"resume-pipeline/internal/shared/config"
)

func main() {
	file := flag.String("file", "", "path to a PDF, DOCX or plain text resume")
	mimeType := flag.String("mime", "", "declared MIME type; derived from the extension when empty")
	structured := flag.Bool("structured", false, "also run structured extraction with the configured LLM provider")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: extractdemo -file <path> [-mime type] [-structured]")
		os.Exit(2)
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
		os.Exit(1)
	}
	mt := *mimeType
	if mt == "" {
		mt = mime.TypeByExtension(filepath.Ext(*file))
	}
	if mt == "" && filepath.Ext(*file) == ".docx" {
		mt = extract.MimeDOCX
	}

	cfg := config.Load()
	// Quotas guard the HTTP surface, not a local run.
	cfg.QuotaStore = "memory"
	cfg.DatabaseURL = ""
	cfg.ArchiveUploads = false

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLMTimeout+30*time.Second)
	defer cancel()
	app, err := bootstrap.Build(ctx, cfg, bootstrap.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	in := documents.Input{Identity: "local", FileName: filepath.Base(*file), MimeType: mt, Data: data}
	var out documents.Outcome
	if *structured {
		out, err = app.DocumentsService.Ingest(ctx, in)
	} else {
		out, err = app.DocumentsService.ExtractText(ctx, in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s stage failed: %v\n", out.Stage, err)
		os.Exit(1)
	}

	fmt.Printf("format=%s pages=%d chars=%d\n\n%s\n", out.Text.Format, out.Text.Pages, out.Text.Len(), out.Text.Content)
	if out.Resume != nil {
		payload, _ := json.MarshalIndent(out.Resume, "", "  ")
		fmt.Printf("\n%s\n", payload)
	}
}
