package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/dto"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/transport/http/envelope"

	gallerysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/gallery"
)

// maxUploadBytes bounds the whole multipart request, slightly above the
// per-image limit the service enforces.
const maxUploadBytes = 12 << 20

type GalleryHandler struct {
	service *gallerysvc.Service
}

func NewGalleryHandler(service *gallerysvc.Service) *GalleryHandler {
	return &GalleryHandler{service: service}
}

func (h *GalleryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, categories)
}

func (h *GalleryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, category)
}

func (h *GalleryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}

	var req dto.CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, category)
}

func (h *GalleryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid category id")
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *GalleryHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	categoryID, ok := queryInt64(r, "category_id")
	if !ok {
		writeBadRequest(w, "invalid category_id filter")
		return
	}

	images, err := h.service.ListImages(r.Context(), categoryID)
	if err != nil {
		writeInternal(w)
		return
	}
	envelope.WriteData(w, http.StatusOK, images)
}

// Upload accepts multipart/form-data with a "file" part, a "category_id"
// field and an optional "caption".
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeBadRequest(w, "invalid multipart request")
		return
	}

	categoryID, err := strconv.ParseInt(r.FormValue("category_id"), 10, 64)
	if err != nil || categoryID <= 0 {
		writeBadRequest(w, "invalid category_id")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file part is required")
		return
	}
	defer file.Close()

	image, err := h.service.Upload(
		r.Context(),
		categoryID,
		r.FormValue("caption"),
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusCreated, image)
}

// UpdateImage edits the caption or category of an existing image; the
// stored object is untouched.
func (h *GalleryHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid image id")
		return
	}

	var req dto.GalleryImageUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	image, err := h.service.UpdateImage(r.Context(), id, req.CategoryID, req.Caption)
	if err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, image)
}

func (h *GalleryHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w)
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "invalid image id")
		return
	}

	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		h.handleGalleryError(w, err)
		return
	}
	envelope.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *GalleryHandler) handleGalleryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallerysvc.ErrValidation):
		writeBadRequest(w, "invalid input")
	case errors.Is(err, gallerysvc.ErrNotFound):
		writeNotFound(w, "image or category not found")
	case errors.Is(err, gallerysvc.ErrConflict):
		writeBadRequest(w, "category still has images")
	default:
		writeInternal(w)
	}
}
