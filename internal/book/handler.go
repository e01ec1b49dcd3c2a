package book

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/transport"
)

type ServiceAPI interface {
	List() ([]Book, error)
	Get(id int64) (*Book, error)
	Create(authorID int64, dto CreateBookDTO) (*Book, error)
	Update(id int64, dto UpdateBookDTO) (*Book, error)
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
	books, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, books)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting book.")
		return
	}

	book, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, book)
}

// Create stores a book with the calling identity as author.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
		return
	}

	var dto CreateBookDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when creating book.")
		return
	}

	book, err := h.Service.Create(identity.UserID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, book)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting book.")
		return
	}

	var dto UpdateBookDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating book.")
		return
	}

	book, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, book)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting book.")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) bookID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
