package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/models"
)

type fakeGenerator struct {
	parts  []genai.Part
	resp   *genai.GenerateContentResponse
	err    error
	calls  int
	closed bool
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.parts = parts
	return f.resp, f.err
}

func (f *fakeGenerator) Close() error {
	f.closed = true
	return nil
}

func textResponse(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func newTestExtractor(key string, gen *fakeGenerator) (*GeminiExtractor, *int) {
	dials := 0
	ex := NewGeminiExtractor("", zerolog.Nop())
	ex.apiKey = func() string { return key }
	ex.dial = func(_ context.Context, apiKey, modelName string) (generator, error) {
		dials++
		return gen, nil
	}
	return ex, &dials
}

var report = &models.Document{ID: "doc-1", Name: "report.pdf", MediaType: "application/pdf", Size: 5, Data: []byte("%PDF-")}

func TestNewGeminiExtractorDefaultModel(t *testing.T) {
	assert.Equal(t, DefaultModel, NewGeminiExtractor("", zerolog.Nop()).modelName)
	assert.Equal(t, "gemini-2.5-pro", NewGeminiExtractor("gemini-2.5-pro", zerolog.Nop()).modelName)
}

func TestExtractTextMissingKeyFailsBeforeDialing(t *testing.T) {
	gen := &fakeGenerator{}
	ex, dials := newTestExtractor("", gen)

	_, err := ex.ExtractText(context.Background(), report)
	require.Error(t, err)

	var de *core.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, core.KindConfiguration, de.Kind)
	assert.Equal(t, MissingKeyMessage, de.Message)
	assert.Zero(t, *dials)
	assert.Zero(t, gen.calls)
}

func TestExtractTextSendsDocumentAndInstruction(t *testing.T) {
	gen := &fakeGenerator{resp: textResponse(genai.Text("Hello\nWorld"))}
	ex, _ := newTestExtractor("key", gen)

	text, err := ex.ExtractText(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "Hello\nWorld", text)
	assert.True(t, gen.closed)

	require.Len(t, gen.parts, 2)
	blob, ok := gen.parts[0].(genai.Blob)
	require.True(t, ok)
	assert.Equal(t, "application/pdf", blob.MIMEType)
	assert.Equal(t, report.Data, blob.Data)

	prompt, ok := gen.parts[1].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(prompt), "sauts de ligne")
	assert.Contains(t, string(prompt), "sans aucun commentaire")
}

func TestExtractTextWrapsModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	ex, _ := newTestExtractor("key", gen)

	_, err := ex.ExtractText(context.Background(), report)
	require.Error(t, err)
	assert.Equal(t, core.KindExtraction, core.KindOf(err))
	assert.Equal(t, 1, gen.calls)
	assert.True(t, gen.closed)
}

func TestExtractTextDialFailure(t *testing.T) {
	ex, _ := newTestExtractor("key", nil)
	ex.dial = func(context.Context, string, string) (generator, error) { return nil, errors.New("no route") }

	_, err := ex.ExtractText(context.Background(), report)
	assert.Equal(t, core.KindExtraction, core.KindOf(err))
}

func TestResponseText(t *testing.T) {
	_, err := responseText(nil)
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	text, err := responseText(textResponse(genai.Text("  a\n"), genai.Blob{MIMEType: "image/png"}, genai.Text("b  ")))
	require.NoError(t, err)
	assert.Equal(t, "  a\nb  ", text)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	assert.Empty(t, APIKeyFromEnv())

	t.Setenv("GEMINI_API_KEY", "gem")
	assert.Equal(t, "gem", APIKeyFromEnv())

	t.Setenv("API_KEY", "primary")
	assert.Equal(t, "primary", APIKeyFromEnv())
}
