package upload

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Extensions accepted for KYC documents, each mapped to the mimetype its
// content must sniff as.
var extensionMimeTypes = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// Mimetypes accepted for KYC documents, matched against sniffed content.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// AllowedExtension reports whether the file extension (without the dot,
// case-insensitive) is accepted.
func AllowedExtension(ext string) bool {
	return extensionMimeTypes[strings.ToLower(ext)] != ""
}

// AllowedMimeType reports whether the sniffed mimetype is accepted.
func AllowedMimeType(mimeType string) bool {
	return allowedMimeTypes[mimeType]
}

// MimeTypeForExtension returns the mimetype an accepted extension's content
// must sniff as, or "" for an unknown extension.
func MimeTypeForExtension(ext string) string {
	return extensionMimeTypes[strings.ToLower(ext)]
}

// DetectMimeType sniffs the mimetype from file content using magic bytes.
// Returns application/octet-stream when no known signature matches.
func DetectMimeType(data []byte) string {
	// JPEG: FF D8 FF
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}

	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "image/png"
	}

	// PDF: 25 50 44 46 2D ("%PDF-")
	if len(data) >= 5 && bytes.Equal(data[:5], []byte("%PDF-")) {
		return "application/pdf"
	}

	return "application/octet-stream"
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// GenerateFilename builds a collision-resistant stored filename from the
// client-supplied name: the sanitized basename, a millisecond timestamp, and
// a random suffix, keeping the original extension lowercased.
// Example: "Aadhaar Card.PDF" -> "Aadhaar_Card-1735689600000-483920174.pdf".
func GenerateFilename(originalName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(originalName), "."))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))

	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "file"
	}

	return fmt.Sprintf("%s-%d-%d.%s", base, time.Now().UnixMilli(), rand.Int64N(1_000_000_000), ext)
}
