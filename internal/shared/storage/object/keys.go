package object

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// CleanKey normalises a slash-separated key and rejects traversal.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(strings.TrimSpace(key), "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return "", ErrInvalidKey
		}
	}
	clean := path.Clean(key)
	if clean == "." {
		return "", ErrInvalidKey
	}
	return clean, nil
}

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidKey
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", ErrInvalidKey
	}
	return s, nil
}

// HashKey returns a stable, path-safe digest of s.
func HashKey(s []byte) string {
	sum := sha256.Sum256(s)
	return hex.EncodeToString(sum[:])
}

// ArchiveKey names an archived upload. Keys are namespaced per identity and
// content addressed, so re-uploading the same file reuses its key.
func ArchiveKey(identity, fileName string, data []byte) string {
	name, err := SanitizeFileName(fileName)
	if err != nil {
		name = "upload"
	}
	return path.Join("uploads", HashKey([]byte(identity))[:16], HashKey(data)[:16]+"_"+name)
}
