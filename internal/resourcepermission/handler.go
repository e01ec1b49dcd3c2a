package resourcepermission

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/transport"
)

type ServiceAPI interface {
	List() ([]PermissionView, error)
	Get(id int64) (*PermissionView, error)
	Create(ctx context.Context, dto CreatePermissionDTO) (*PermissionView, error)
	Update(ctx context.Context, id int64, dto UpdatePermissionDTO) (*PermissionView, error)
	Delete(ctx context.Context, id int64) error
	Rebuild(ctx context.Context) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := h.permissionID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting resource permission.")
		return
	}

	view, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when creating resource permission.")
		return
	}

	view, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.permissionID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting resource permission.")
		return
	}

	var dto UpdatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating resource permission.")
		return
	}

	view, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.permissionID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting resource permission.")
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Rebuild handles POST /resourcepermissions/rebuild for operators running
// with auto rebuild disabled.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Rebuild(r.Context()); err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteMessage(w, http.StatusOK, "Permission table rebuilt.")
}

func (h *Handler) permissionID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
