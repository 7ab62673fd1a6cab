package models

import (
	"fmt"
	"time"
)

// Document represents a user-supplied image or PDF. It is never mutated after
// ingestion; a new selection replaces it wholesale.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MediaType  string    `json:"media_type"`
	Size       int64     `json:"size"`
	Data       []byte    `json:"-"`
	SelectedAt time.Time `json:"selected_at"`
}

// SizeKB formats the size the way the upload panel shows it.
func (d *Document) SizeKB() string {
	return fmt.Sprintf("%.2f KB", float64(d.Size)/1024)
}

// SessionState is the single source of truth for one conversion session.
//
// Preview is a data URL and only ever set for image documents.
// ExtractedText == "" means "no result yet".
// Error and ExtractedText are mutually exclusive.
type SessionState struct {
	Document       *Document
	Preview        string
	PreviewPending bool
	ExtractedText  string
	Busy           bool
	Error          string
	// InputResets counts Clear calls so clients know to reset their file input.
	InputResets int
}

// DocumentInfo is the public part of a Document.
type DocumentInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	SizeKB    string `json:"size_kb"`
}

// SessionView is what the API returns for a session.
type SessionView struct {
	SessionID      string        `json:"session_id"`
	Phase          string        `json:"phase"`
	Document       *DocumentInfo `json:"document"`
	Preview        *string       `json:"preview"`
	PreviewPending bool          `json:"preview_pending"`
	ExtractedText  string        `json:"extracted_text"`
	Busy           bool          `json:"busy"`
	Error          *string       `json:"error"`
	InputResets    int           `json:"input_resets"`
	CanConvert     bool          `json:"can_convert"`
	CanDownload    bool          `json:"can_download"`
	CanClear       bool          `json:"can_clear"`
}
