package export

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/markdave123-py/Textora/internal/core"
)

// Archiver keeps a copy of every exported artifact.
type Archiver interface {
	Archive(ctx context.Context, sessionID string, a *Artifact) (string, error)
}

// ObjectArchiver stores artifacts in an object store bucket under
// exports/<session-id>/<file-name>.
type ObjectArchiver struct {
	obj    core.ObjectClient
	bucket string
}

func NewObjectArchiver(obj core.ObjectClient, bucket string) *ObjectArchiver {
	return &ObjectArchiver{obj: obj, bucket: bucket}
}

func (a *ObjectArchiver) Archive(ctx context.Context, sessionID string, art *Artifact) (string, error) {
	key := path.Join("exports", sessionID, art.Name)
	url, err := a.obj.UploadFile(ctx, a.bucket, key, bytes.NewReader(art.Body), art.ContentType)
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", key, err)
	}
	return url, nil
}

var _ Archiver = (*ObjectArchiver)(nil)
