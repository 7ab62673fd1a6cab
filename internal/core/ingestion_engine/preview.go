package ingestion_engine

import (
	"encoding/base64"
	"fmt"

	"github.com/markdave123-py/Textora/internal/models"
)

// Preview renders an image document as a data URL.
func Preview(doc *models.Document) (string, error) {
	if doc == nil || !IsImage(doc.MediaType) {
		return "", fmt.Errorf("no preview for non-image document")
	}
	return "data:" + doc.MediaType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data), nil
}
