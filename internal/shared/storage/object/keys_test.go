package object

import (
	"errors"
	"strings"
	"testing"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "uploads/a/b.pdf", want: "uploads/a/b.pdf"},
		{in: "uploads//a/./b.pdf", want: "uploads/a/b.pdf"},
		{in: `uploads\a\b.pdf`, want: "uploads/a/b.pdf"},
		{in: "", wantErr: true},
		{in: "/etc/passwd", wantErr: true},
		{in: "../secrets", wantErr: true},
		{in: "uploads/../../x", wantErr: true},
		{in: ".", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanKey(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("CleanKey(%q) expected ErrInvalidKey, got %q %v", tt.in, got, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("CleanKey(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestArchiveKeyIsStableAndNamespaced(t *testing.T) {
	data := []byte("resume bytes")
	a := ArchiveKey("203.0.113.7", "cv.pdf", data)
	if a != ArchiveKey("203.0.113.7", "cv.pdf", data) {
		t.Fatalf("expected a stable key")
	}
	if a == ArchiveKey("198.51.100.1", "cv.pdf", data) {
		t.Fatalf("identities must not share a namespace")
	}
	if !strings.HasPrefix(a, "uploads/") || !strings.HasSuffix(a, "_cv.pdf") {
		t.Fatalf("unexpected key %q", a)
	}
	if k := ArchiveKey("x", "../../evil", data); strings.Contains(k, "..") {
		t.Fatalf("traversal leaked into key %q", k)
	}
}

func TestHashKey(t *testing.T) {
	got := HashKey([]byte("google:12345"))
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
}
