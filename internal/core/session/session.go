package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/core/export"
	"github.com/markdave123-py/Textora/internal/core/ingestion_engine"
	"github.com/markdave123-py/Textora/internal/models"
)

const (
	MsgNoDocument       = "Veuillez d'abord sélectionner un fichier."
	MsgExtractionFailed = "Une erreur est survenue lors de la conversion. Veuillez vérifier les journaux du serveur pour plus de détails."
)

// Session owns the state of one conversion session.
//
// Every change of document (select, deselect, clear) bumps version. Async
// work records the version it started for and drops its result if the
// version has moved on. inFlight outlives document changes so that a single
// extraction call runs at a time.
type Session struct {
	ID string

	extractor core.TextExtractor
	preview   func(*models.Document) (string, error)
	now       func() time.Time
	log       zerolog.Logger

	mu       sync.Mutex
	state    models.SessionState
	version  uint64
	inFlight bool
	lastSeen time.Time
}

func New(id string, extractor core.TextExtractor, log zerolog.Logger) *Session {
	return &Session{
		ID:        id,
		extractor: extractor,
		preview:   ingestion_engine.Preview,
		now:       time.Now,
		log:       log.With().Str("session_id", id).Logger(),
		lastSeen:  time.Now(),
	}
}

// SelectFile replaces the current document, or clears it when doc is nil.
// For images the preview is rendered in the background.
func (s *Session) SelectFile(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.version++
	s.state = selectDocument(s.state, doc, s.inFlight)

	if doc == nil {
		return
	}
	s.log.Info().
		Str("document_id", doc.ID).
		Str("name", doc.Name).
		Str("media_type", doc.MediaType).
		Int64("size", doc.Size).
		Msg("document selected")

	if s.state.PreviewPending {
		go s.renderPreview(doc, s.version)
	}
}

func (s *Session) renderPreview(doc *models.Document, version uint64) {
	url, err := s.preview(doc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version != version {
		s.log.Debug().Str("document_id", doc.ID).Msg("discarding stale preview")
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("document_id", doc.ID).Msg("preview failed")
		s.state.PreviewPending = false
		return
	}
	s.state = attachPreview(s.state, url)
}

// Convert runs one extraction for the current document and blocks until it
// completes. Failures end up in the session's error field; the returned error
// only tells the caller which outcome happened.
func (s *Session) Convert(ctx context.Context) error {
	s.mu.Lock()
	s.touch()
	if _, err := Next(PhaseOf(s.state), EventConvert); err != nil {
		if errors.Is(err, ErrNoDocument) {
			s.state = rejectConvert(s.state, MsgNoDocument)
		}
		s.mu.Unlock()
		return err
	}
	s.state = beginExtraction(s.state)
	s.inFlight = true
	version := s.version
	doc := s.state.Document
	s.mu.Unlock()

	started := s.now()
	text, err := s.extract(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if s.version != version {
		s.state = dropExtraction(s.state)
		s.log.Info().Str("document_id", doc.ID).Msg("discarding result for a replaced document")
		return ErrSuperseded
	}

	if err != nil {
		s.state = failExtraction(s.state, userMessage(err))
		s.log.Error().Err(err).
			Str("document_id", doc.ID).
			Str("kind", string(core.KindOf(err))).
			Dur("elapsed", s.now().Sub(started)).
			Msg("extraction failed")
		return err
	}

	s.state = completeExtraction(s.state, text)
	s.log.Info().
		Str("document_id", doc.ID).
		Int("chars", len(text)).
		Dur("elapsed", s.now().Sub(started)).
		Msg("extraction done")
	return nil
}

// extract calls the extractor and turns a panic into an error so busy always resets.
func (s *Session) extract(ctx context.Context, doc *models.Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.ExtractionError("extractor panicked", fmt.Errorf("%v", r))
		}
	}()
	return s.extractor.ExtractText(ctx, doc)
}

// userMessage surfaces configuration messages verbatim and hides everything else.
func userMessage(err error) string {
	var de *core.DomainError
	if errors.As(err, &de) && de.Kind == core.KindConfiguration {
		return de.Message
	}
	return MsgExtractionFailed
}

// Clear returns the session to its initial empty state from any phase.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.version++
	s.state = clearState(s.state)
	s.log.Info().Msg("session cleared")
}

// Download packages the extracted text. It reports false when there is no result.
func (s *Session) Download() (*export.Artifact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, err := Next(PhaseOf(s.state), EventDownload); err != nil {
		return nil, false
	}
	return export.Build(s.state.ExtractedText, s.state.Document.Name)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Phase() Phase {
	return PhaseOf(s.Snapshot())
}

// Extracting reports whether an extraction call is running, even one whose
// document has since been replaced or cleared.
func (s *Session) Extracting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// View renders the state for API clients.
func (s *Session) View() models.SessionView {
	st := s.Snapshot()

	v := models.SessionView{
		SessionID:      s.ID,
		Phase:          string(PhaseOf(st)),
		PreviewPending: st.PreviewPending,
		ExtractedText:  st.ExtractedText,
		Busy:           st.Busy,
		InputResets:    st.InputResets,
		CanConvert:     st.Document != nil && !st.Busy,
		CanDownload:    st.ExtractedText != "" && !st.Busy,
		CanClear:       st.Document != nil && !st.Busy,
	}
	if d := st.Document; d != nil {
		v.Document = &models.DocumentInfo{
			ID:        d.ID,
			Name:      d.Name,
			MediaType: d.MediaType,
			Size:      d.Size,
			SizeKB:    d.SizeKB(),
		}
	}
	if st.Preview != "" {
		v.Preview = &st.Preview
	}
	if st.Error != "" {
		v.Error = &st.Error
	}
	return v
}

// LastSeen is the time of the last operation on the session.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch() {
	s.lastSeen = s.now()
}
