package export

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	tests := []struct {
		original string
		want     string
	}{
		{"report.pdf", "report_converti.doc"},
		{"photo.png", "photo_converti.doc"},
		{"scan.2024.01.jpg", "scan_converti.doc"},
		{"noext", "noext_converti.doc"},
		{"relevé bancaire.pdf", "relevé bancaire_converti.doc"},
		{" .pdf", " _converti.doc"},
		{".hidden", DefaultName},
		{"", DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			assert.Equal(t, tt.want, FileName(tt.original))
		})
	}
}

func TestBuildEmptyTextProducesNothing(t *testing.T) {
	a, ok := Build("", "report.pdf")
	assert.False(t, ok)
	assert.Nil(t, a)
}

func TestBuildKeepsTextExactly(t *testing.T) {
	a, ok := Build("Hello\nWorld", "report.pdf")
	require.True(t, ok)

	assert.Equal(t, "report_converti.doc", a.Name)
	assert.Equal(t, MediaType, a.ContentType)
	assert.Equal(t, "Hello\nWorld", string(a.Body))
}

type recordingObjectClient struct {
	bucket, key, contentType string
	body                     []byte
	err                      error
}

func (r *recordingObjectClient) UploadFile(_ context.Context, bucket, key string, data io.Reader, contentType string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.bucket, r.key, r.contentType = bucket, key, contentType
	r.body, _ = io.ReadAll(data)
	return "https://" + bucket + ".example/" + key, nil
}

func TestObjectArchiver(t *testing.T) {
	obj := &recordingObjectClient{}
	arch := NewObjectArchiver(obj, "textora-exports")
	a, _ := Build("Bonjour", "lettre.pdf")

	url, err := arch.Archive(context.Background(), "sess-1", a)
	require.NoError(t, err)

	assert.Equal(t, "textora-exports", obj.bucket)
	assert.Equal(t, "exports/sess-1/lettre_converti.doc", obj.key)
	assert.Equal(t, MediaType, obj.contentType)
	assert.Equal(t, "Bonjour", string(obj.body))
	assert.Equal(t, "https://textora-exports.example/exports/sess-1/lettre_converti.doc", url)
}

func TestObjectArchiverWrapsUploadError(t *testing.T) {
	cause := errors.New("access denied")
	arch := NewObjectArchiver(&recordingObjectClient{err: cause}, "b")
	a, _ := Build("x", "a.pdf")

	_, err := arch.Archive(context.Background(), "s", a)
	assert.ErrorIs(t, err, cause)
}
