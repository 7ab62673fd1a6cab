package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Textora/internal/models"
)

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// ReadDocument reads r to completion and returns the resulting Document.
// An empty or generic media type is sniffed from the content.
func ReadDocument(ctx context.Context, r io.Reader, name, mediaType string) (*models.Document, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, ctxReader{ctx: ctx, r: r}); err != nil {
		return nil, fmt.Errorf("read document %q: %w", name, err)
	}
	data := buf.Bytes()

	return &models.Document{
		ID:         uuid.NewString(),
		Name:       filepath.Base(name),
		MediaType:  normalizeMediaType(mediaType, data),
		Size:       int64(len(data)),
		Data:       data,
		SelectedAt: time.Now(),
	}, nil
}

func normalizeMediaType(declared string, data []byte) string {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}
