package llm

import (
	"context"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/models"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// MissingKeyMessage is shown to the user as is.
	MissingKeyMessage = "La variable d'environnement API_KEY n'est pas définie."

	extractionPrompt = "Extrais tout le texte de ce document (image ou PDF). " +
		"Préserve la mise en forme originale autant que possible, y compris les sauts de ligne, les paragraphes et les titres. " +
		"Ne renvoie que le texte extrait, sans aucun commentaire ou phrase d'introduction de ta part."
)

// generator is the single model operation the extractor needs.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
	Close() error
}

type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func (g *geminiGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	return g.model.GenerateContent(ctx, parts...)
}

func (g *geminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func dialGemini(ctx context.Context, apiKey, modelName string) (generator, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &geminiGenerator{client: cl, model: cl.GenerativeModel(modelName)}, nil
}

// APIKeyFromEnv reads the credential at call time: API_KEY first, then GEMINI_API_KEY.
func APIKeyFromEnv() string {
	if v := os.Getenv("API_KEY"); v != "" {
		return v
	}
	return os.Getenv("GEMINI_API_KEY")
}

// GeminiExtractor asks a Gemini model for the text of an image or PDF.
// One request per call: no retry, no timeout of its own.
type GeminiExtractor struct {
	modelName string
	apiKey    func() string
	dial      func(ctx context.Context, apiKey, modelName string) (generator, error)
	log       zerolog.Logger
}

func NewGeminiExtractor(modelName string, log zerolog.Logger) *GeminiExtractor {
	if modelName == "" {
		modelName = DefaultModel
	}
	return &GeminiExtractor{
		modelName: modelName,
		apiKey:    APIKeyFromEnv,
		dial:      dialGemini,
		log:       log.With().Str("component", "gemini").Str("model", modelName).Logger(),
	}
}

func (g *GeminiExtractor) ExtractText(ctx context.Context, doc *models.Document) (string, error) {
	key := g.apiKey()
	if key == "" {
		return "", core.ConfigurationError(MissingKeyMessage)
	}

	gen, err := g.dial(ctx, key, g.modelName)
	if err != nil {
		return "", core.ExtractionError("gemini client", err)
	}
	defer gen.Close()

	g.log.Debug().
		Str("document_id", doc.ID).
		Str("media_type", doc.MediaType).
		Int64("size", doc.Size).
		Msg("requesting extraction")

	resp, err := gen.GenerateContent(ctx, requestParts(doc)...)
	if err != nil {
		return "", core.ExtractionError("gemini generate", err)
	}
	return responseText(resp)
}

// requestParts pairs the inline document with the fixed instruction.
// The SDK sends Blob.Data base64 encoded on the wire.
func requestParts(doc *models.Document) []genai.Part {
	return []genai.Part{
		genai.Blob{MIMEType: doc.MediaType, Data: doc.Data},
		genai.Text(extractionPrompt),
	}
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", core.ExtractionError("gemini returned no candidate content", nil)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ core.TextExtractor = (*GeminiExtractor)(nil)
