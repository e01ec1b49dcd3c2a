package media

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/transport"
)

// maxUploadBytes caps multipart memory use; larger files spill to disk.
const maxUploadBytes = 32 << 20

type ServiceAPI interface {
	Store(ctx context.Context, up Upload, meta UploadMeta) (*Media, error)
	List() ([]Media, error)
	Get(id int64) (*Media, error)
	Update(id int64, dto UpdateMediaDTO) (*Media, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

// Upload handles the multipart POST. The file travels in the "files" field; a
// request without one is a 422.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteError(w, http.StatusUnprocessableEntity, "No file provided.")
		return
	}

	file, header, err := r.FormFile("files")
	if err != nil {
		h.WriteError(w, http.StatusUnprocessableEntity, "No file provided.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when reading file.")
		return
	}

	meta := UploadMeta{
		Name:            r.FormValue("name"),
		AlternativeText: r.FormValue("alternative_text"),
		Caption:         r.FormValue("caption"),
	}

	view, err := h.Service.Store(r.Context(), Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, meta)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := h.mediaID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting media object.")
		return
	}

	view, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.mediaID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting media object.")
		return
	}

	var dto UpdateMediaDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating media object.")
		return
	}

	view, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.mediaID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting media object.")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) mediaID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
