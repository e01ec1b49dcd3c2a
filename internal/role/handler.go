package role

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal/transport"
)

type ServiceAPI interface {
	List() ([]Role, error)
	Get(id int64) (*Role, error)
	Create(dto CreateRoleDTO) (*Role, error)
	Update(id int64, dto UpdateRoleDTO) (*Role, error)
	Delete(id int64) error
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
	roles, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, roles)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := h.roleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting role.")
		return
	}

	role, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when creating role.")
		return
	}

	role, err := h.Service.Create(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.roleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting role.")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating role.")
		return
	}

	role, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.roleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting role.")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// roleID parses the id path parameter. A malformed id surfaces as 500, the
// contract this API has always had.
func (h *Handler) roleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
