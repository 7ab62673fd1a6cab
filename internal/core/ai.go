package core

import (
	"context"

	"github.com/markdave123-py/Textora/internal/models"
)

// TextExtractor turns a document into plain text. Implementations make a
// single attempt and return the text exactly as produced.
type TextExtractor interface {
	ExtractText(ctx context.Context, doc *models.Document) (string, error)
}
