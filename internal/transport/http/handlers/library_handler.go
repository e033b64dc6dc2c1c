package handlers

import (
	"errors"
	"net/http"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"

	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	librarysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/library"
)

// LibraryHandler serves study notes and previous-year papers.
type LibraryHandler struct {
	service *librarysvc.Service
}

func NewLibraryHandler(service *librarysvc.Service) *LibraryHandler {
	return &LibraryHandler{service: service}
}

func (h *LibraryHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	sectionID, ok := queryInt64(r, "section_id")
	if !ok {
		writeBadRequest(w, "invalid section_id filter")
		return
	}
	page, ok := queryInt(r, "page")
	if !ok {
		writeBadRequest(w, "invalid page")
		return
	}

	result, err := h.service.ListNotes(r.Context(), sectionID, page)
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, result)
}

func (h *LibraryHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	note := model.Note{
		SectionID: req.SectionID,
		Title:     req.Title,
		Subject:   req.Subject,
		FileURL:   req.FileURL,
	}
	if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
		note.CreatedBy = identity.UserID
	}

	created, err := h.service.CreateNote(r.Context(), note)
	if err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, created)
}

func (h *LibraryHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid note id")
		return
	}

	var req dto.NoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := h.service.UpdateNote(r.Context(), model.Note{
		ID:        id,
		SectionID: req.SectionID,
		Title:     req.Title,
		Subject:   req.Subject,
		FileURL:   req.FileURL,
	})
	if err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, updated)
}

func (h *LibraryHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid note id")
		return
	}

	if err := h.service.DeleteNote(r.Context(), id); err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *LibraryHandler) ListPapers(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	sectionID, ok := queryInt64(r, "section_id")
	if !ok {
		writeBadRequest(w, "invalid section_id filter")
		return
	}
	examYear, ok := queryInt(r, "exam_year")
	if !ok {
		writeBadRequest(w, "invalid exam_year filter")
		return
	}

	papers, err := h.service.ListPapers(r.Context(), sectionID, examYear)
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, papers)
}

func (h *LibraryHandler) CreatePaper(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.PaperRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	created, err := h.service.CreatePaper(r.Context(), model.Paper{
		SectionID: req.SectionID,
		Title:     req.Title,
		Subject:   req.Subject,
		ExamYear:  req.ExamYear,
		FileURL:   req.FileURL,
	})
	if err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, created)
}

func (h *LibraryHandler) UpdatePaper(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid paper id")
		return
	}

	var req dto.PaperRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	updated, err := h.service.UpdatePaper(r.Context(), model.Paper{
		ID:        id,
		SectionID: req.SectionID,
		Title:     req.Title,
		Subject:   req.Subject,
		ExamYear:  req.ExamYear,
		FileURL:   req.FileURL,
	})
	if err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, updated)
}

func (h *LibraryHandler) DeletePaper(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid paper id")
		return
	}

	if err := h.service.DeletePaper(r.Context(), id); err != nil {
		h.handleLibraryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *LibraryHandler) handleLibraryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, librarysvc.ErrValidation):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, librarysvc.ErrNotFound):
		writeNotFound(w, "note or paper not found")
	default:
		writeInternal(w)
	}
}
