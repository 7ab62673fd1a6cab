package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/markdave123-py/Textora/internal/core"
	"github.com/markdave123-py/Textora/internal/core/ingestion_engine"
	"github.com/markdave123-py/Textora/internal/core/session"
	"github.com/markdave123-py/Textora/internal/services"
)

type DocumentHandler struct {
	svc       *services.SessionService
	maxMemory int64
}

// NewDocumentHandler builds the handler; maxMemory bounds the multipart bytes
// kept in memory, the rest spills to temporary files.
func NewDocumentHandler(svc *services.SessionService, maxMemory int64) *DocumentHandler {
	return &DocumentHandler{svc: svc, maxMemory: maxMemory}
}

// UploadDocument reads the "file" part and makes it the session's document.
// With source=drop, files that are neither images nor PDFs are ignored.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}
	log := hlog.FromRequest(r)

	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	doc, err := ingestion_engine.ReadDocument(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		log.Warn().Err(err).Msg("read upload")
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}

	source := ingestion_engine.ParseSource(r.FormValue("source"))
	if !ingestion_engine.Admit(source, doc.MediaType) {
		log.Debug().Str("name", doc.Name).Str("media_type", doc.MediaType).Msg("dropped file ignored")
		writeView(w, r, http.StatusOK, sess.View())
		return
	}

	sess.SelectFile(doc)
	writeView(w, r, http.StatusOK, sess.View())
}

// RemoveDocument deselects the current document.
func (h *DocumentHandler) RemoveDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}
	sess.SelectFile(nil)
	writeView(w, r, http.StatusOK, sess.View())
}

// Convert runs the extraction and answers once it is over. The call is not
// tied to the client connection: a disconnect does not abort it.
func (h *DocumentHandler) Convert(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}

	err := sess.Convert(context.WithoutCancel(r.Context()))
	writeView(w, r, convertStatus(err), sess.View())
}

func convertStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, session.ErrNoDocument):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case core.KindOf(err) == core.KindConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// Download sends the extracted text as a .doc attachment, or 204 when there is none.
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}

	art, ok := h.svc.Export(r.Context(), sess)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", art.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": art.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(art.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(art.Body); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("file", art.Name).Msg("write download")
	}
}
