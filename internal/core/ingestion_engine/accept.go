package ingestion_engine

import "strings"

const pdfMediaType = "application/pdf"

// Source says how a file reached the service.
type Source string

const (
	// SourcePicker is the explicit file-picker path. It trusts the picker's own
	// type filter and admits whatever was chosen.
	SourcePicker Source = "picker"
	// SourceDrop is the drag-and-drop path, which filters by media type.
	SourceDrop Source = "drop"
)

// ParseSource maps a form value onto a Source; anything unknown is the picker.
func ParseSource(v string) Source {
	if Source(strings.ToLower(strings.TrimSpace(v))) == SourceDrop {
		return SourceDrop
	}
	return SourcePicker
}

// IsAccepted reports whether mediaType is an image or a PDF.
func IsAccepted(mediaType string) bool {
	return IsImage(mediaType) || mediaType == pdfMediaType
}

// IsImage reports whether mediaType is image/*.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// Admit decides whether a file arriving through source should reach the session.
// Dropped files of other types are ignored without an error.
func Admit(source Source, mediaType string) bool {
	if source == SourceDrop {
		return IsAccepted(mediaType)
	}
	return true
}
