package session

import (
	"errors"
	"fmt"

	"github.com/markdave123-py/Textora/internal/core/ingestion_engine"
	"github.com/markdave123-py/Textora/internal/models"
)

// Phase is the observable state of a session, derived from its SessionState.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseReady      Phase = "ready"
	PhaseExtracting Phase = "extracting"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)

type Event string

const (
	EventSelect   Event = "select"
	EventDeselect Event = "deselect"
	EventConvert  Event = "convert"
	EventSucceed  Event = "succeed"
	EventFail     Event = "fail"
	EventClear    Event = "clear"
	EventDownload Event = "download"
)

var (
	ErrNoDocument        = errors.New("no document selected")
	ErrBusy              = errors.New("extraction already in progress")
	ErrSuperseded        = errors.New("document changed while extraction was running")
	ErrInvalidTransition = errors.New("invalid transition")
)

// transitions is the whole state machine. Convert is only reachable from a
// phase with a document and no call in flight.
var transitions = map[Phase]map[Event]Phase{
	PhaseIdle: {
		EventSelect:   PhaseReady,
		EventDeselect: PhaseIdle,
		EventClear:    PhaseIdle,
	},
	PhaseReady: {
		EventSelect:   PhaseReady,
		EventDeselect: PhaseIdle,
		EventConvert:  PhaseExtracting,
		EventClear:    PhaseIdle,
	},
	PhaseExtracting: {
		EventSelect:   PhaseExtracting,
		EventDeselect: PhaseIdle,
		EventSucceed:  PhaseDone,
		EventFail:     PhaseFailed,
		EventClear:    PhaseIdle,
	},
	PhaseDone: {
		EventSelect:   PhaseReady,
		EventDeselect: PhaseIdle,
		EventConvert:  PhaseExtracting,
		EventDownload: PhaseDone,
		EventClear:    PhaseIdle,
	},
	PhaseFailed: {
		EventSelect:   PhaseReady,
		EventDeselect: PhaseIdle,
		EventConvert:  PhaseExtracting,
		EventClear:    PhaseIdle,
	},
}

// Next returns the phase reached from `from` on ev.
func Next(from Phase, ev Event) (Phase, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	if ev == EventConvert {
		switch from {
		case PhaseIdle:
			return from, ErrNoDocument
		case PhaseExtracting:
			return from, ErrBusy
		}
	}
	return from, fmt.Errorf("%w: %s in %s", ErrInvalidTransition, ev, from)
}

// PhaseOf derives the phase of st.
func PhaseOf(st models.SessionState) Phase {
	switch {
	case st.Document == nil:
		return PhaseIdle
	case st.Busy:
		return PhaseExtracting
	case st.Error != "":
		return PhaseFailed
	case st.ExtractedText != "":
		return PhaseDone
	default:
		return PhaseReady
	}
}

// The functions below are the pure state updates behind each transition.

// selectDocument swaps the document. busy reports a call still in flight for
// an earlier document; the new document stays in extracting until it returns.
func selectDocument(st models.SessionState, doc *models.Document, busy bool) models.SessionState {
	next := models.SessionState{InputResets: st.InputResets}
	if doc == nil {
		return next
	}
	next.Document = doc
	next.Busy = busy
	next.PreviewPending = ingestion_engine.IsImage(doc.MediaType)
	return next
}

func attachPreview(st models.SessionState, dataURL string) models.SessionState {
	st.Preview = dataURL
	st.PreviewPending = false
	return st
}

func rejectConvert(st models.SessionState, message string) models.SessionState {
	st.ExtractedText = ""
	st.Error = message
	return st
}

func beginExtraction(st models.SessionState) models.SessionState {
	st.Busy = true
	st.ExtractedText = ""
	st.Error = ""
	return st
}

func completeExtraction(st models.SessionState, text string) models.SessionState {
	st.Busy = false
	st.ExtractedText = text
	st.Error = ""
	return st
}

// dropExtraction ends a call whose result no longer applies.
func dropExtraction(st models.SessionState) models.SessionState {
	st.Busy = false
	return st
}

func failExtraction(st models.SessionState, message string) models.SessionState {
	st.Busy = false
	st.ExtractedText = ""
	st.Error = message
	return st
}

func clearState(st models.SessionState) models.SessionState {
	return models.SessionState{InputResets: st.InputResets + 1}
}
