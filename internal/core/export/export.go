// Package export packages extracted text as a downloadable .doc file.
//
// The body is the plain text itself; the .doc extension and the msword media
// type are labels so word processors open it.
package export

import "strings"

const (
	MediaType   = "application/msword"
	DefaultName = "document.doc"
	suffix      = "_converti.doc"
)

// Artifact is one downloadable file.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// FileName derives the download name from the original document name: the part
// before the first dot, plus "_converti.doc".
func FileName(originalName string) string {
	base, _, _ := strings.Cut(originalName, ".")
	if base == "" {
		return DefaultName
	}
	return base + suffix
}

// Build returns the artifact for text, or false when there is nothing to export.
func Build(text, originalName string) (*Artifact, bool) {
	if text == "" {
		return nil, false
	}
	return &Artifact{
		Name:        FileName(originalName),
		ContentType: MediaType,
		Body:        []byte(text),
	}, true
}
