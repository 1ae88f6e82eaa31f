package documents

import "resume-pipeline/resume/model"

// TextResponse describes the extracted text of a document.
type TextResponse struct {
	ID         string `json:"id"`
	Format     string `json:"format"`
	Pages      int    `json:"pages,omitempty"`
	Chars      int    `json:"chars"`
	Text       string `json:"text"`
	ArchiveKey string `json:"archiveKey,omitempty"`
}

// ExtractResponse is the result of a full ingestion run.
type ExtractResponse struct {
	ID         string       `json:"id"`
	Format     string       `json:"format"`
	Pages      int          `json:"pages,omitempty"`
	Chars      int          `json:"chars"`
	Resume     model.Resume `json:"resume"`
	ArchiveKey string       `json:"archiveKey,omitempty"`
}

type fromStorageRequest struct {
	Key      string `json:"key" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
}

func toTextResponse(out Outcome) TextResponse {
	return TextResponse{
		ID:         out.ID,
		Format:     out.Text.Format.String(),
		Pages:      out.Text.Pages,
		Chars:      out.Text.Len(),
		Text:       out.Text.Content,
		ArchiveKey: out.ArchiveKey,
	}
}

func toExtractResponse(out Outcome) ExtractResponse {
	resp := ExtractResponse{
		ID:         out.ID,
		Format:     out.Text.Format.String(),
		Pages:      out.Text.Pages,
		Chars:      out.Text.Len(),
		ArchiveKey: out.ArchiveKey,
	}
	if out.Resume != nil {
		resp.Resume = *out.Resume
	}
	return resp
}
