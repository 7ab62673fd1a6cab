package ingestion_engine

import (
	"bytes"
	"context"

	"code.sajari.com/docconv"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/models"
)

var _ core.TextExtractor = (*DocconvExtractor)(nil)

// DocconvExtractor implements core.TextExtractor locally using sajari/docconv.
// PDFs need pdftotext on PATH; images need a docconv build with OCR enabled.
type DocconvExtractor struct {
	convert func(r *bytes.Reader, mediaType string) (string, error)
	log     zerolog.Logger
}

func NewDocconvExtractor(log zerolog.Logger) *DocconvExtractor {
	return &DocconvExtractor{
		convert: func(r *bytes.Reader, mediaType string) (string, error) {
			res, err := docconv.Convert(r, mediaType, false)
			if err != nil {
				return "", err
			}
			return res.Body, nil
		},
		log: log.With().Str("component", "docconv").Logger(),
	}
}

// ExtractText converts the document bytes in one pass and returns the body as is.
func (e *DocconvExtractor) ExtractText(ctx context.Context, doc *models.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", core.ExtractionError("docconv: context done before extraction", err)
	}

	text, err := e.convert(bytes.NewReader(doc.Data), doc.MediaType)
	if err != nil {
		e.log.Error().Err(err).Str("media_type", doc.MediaType).Str("document_id", doc.ID).Msg("extraction failed")
		return "", core.ExtractionError("docconv: extraction failed", err)
	}

	if text == "" {
		e.log.Warn().Str("media_type", doc.MediaType).Str("document_id", doc.ID).Msg("extracted empty text")
	}
	return text, nil
}
