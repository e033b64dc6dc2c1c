package handlers

import (
	"errors"
	"net/http"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"

	batchessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/batches"
)

// BatchesHandler serves both batches and their sections.
type BatchesHandler struct {
	service *batchessvc.Service
}

func NewBatchesHandler(service *batchessvc.Service) *BatchesHandler {
	return &BatchesHandler{service: service}
}

func (h *BatchesHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	batches, err := h.service.ListBatches(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, batches)
}

func (h *BatchesHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	batch, err := h.service.CreateBatch(r.Context(), req.Name, req.StartYear)
	if err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, batch)
}

func (h *BatchesHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid batch id")
		return
	}

	var req dto.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	batch, err := h.service.UpdateBatch(r.Context(), id, req.Name, req.StartYear)
	if err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, batch)
}

func (h *BatchesHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid batch id")
		return
	}

	if err := h.service.DeleteBatch(r.Context(), id); err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *BatchesHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	batchID, ok := queryInt64(r, "batch_id")
	if !ok {
		writeBadRequest(w, "invalid batch_id filter")
		return
	}

	sections, err := h.service.ListSections(r.Context(), batchID)
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, sections)
}

func (h *BatchesHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.SectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	section, err := h.service.CreateSection(r.Context(), req.BatchID, req.Name)
	if err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, section)
}

func (h *BatchesHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid section id")
		return
	}

	var req dto.SectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	section, err := h.service.UpdateSection(r.Context(), id, req.BatchID, req.Name)
	if err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, section)
}

func (h *BatchesHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid section id")
		return
	}

	if err := h.service.DeleteSection(r.Context(), id); err != nil {
		h.handleBatchesError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *BatchesHandler) handleBatchesError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batchessvc.ErrValidation):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, batchessvc.ErrNotFound):
		writeNotFound(w, "batch or section not found")
	case errors.Is(err, batchessvc.ErrConflict):
		writeBadRequest(w, "dependent rows exist, delete or move them first")
	default:
		writeInternal(w)
	}
}
