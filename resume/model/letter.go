package model

import (
	"errors"
	"strings"
)

// Letter is the cover letter variant of render data.
type Letter struct {
	Sender     Party    `json:"sender"`
	Recipient  Party    `json:"recipient"`
	Date       string   `json:"date"`
	Subject    string   `json:"subject"`
	Salutation string   `json:"salutation"`
	Paragraphs []string `json:"paragraphs"`
	Closing    string   `json:"closing"`
	Signature  string   `json:"signature"`
}

// Party is the sender or recipient block of a letter.
type Party struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Lines returns the non-empty lines of the block in display order.
func (p Party) Lines() []string {
	var out []string
	for _, s := range []string{p.Name, p.Title, p.Company, p.Address, p.Email, p.Phone} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate requires a sender name and at least one non-blank paragraph.
func (l Letter) Validate() error {
	if strings.TrimSpace(l.Sender.Name) == "" {
		return errors.New("sender.name is required")
	}
	if len(l.Body()) == 0 {
		return errors.New("at least one paragraph is required")
	}
	return nil
}

// Body returns the trimmed, non-blank paragraphs.
func (l Letter) Body() []string {
	out := make([]string, 0, len(l.Paragraphs))
	for _, p := range l.Paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Greeting falls back to a neutral salutation.
func (l Letter) Greeting() string {
	if s := strings.TrimSpace(l.Salutation); s != "" {
		return s
	}
	if name := strings.TrimSpace(l.Recipient.Name); name != "" {
		return "Dear " + name + ","
	}
	return "Dear Hiring Manager,"
}

// SignOff returns the closing line, defaulting to "Sincerely,".
func (l Letter) SignOff() string {
	if s := strings.TrimSpace(l.Closing); s != "" {
		return s
	}
	return "Sincerely,"
}

// Signer is the signature, or the sender name when unset.
func (l Letter) Signer() string {
	if s := strings.TrimSpace(l.Signature); s != "" {
		return s
	}
	return strings.TrimSpace(l.Sender.Name)
}
