package article

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/transport"
)

type ServiceAPI interface {
	List() ([]Article, error)
	Get(id int64) (*Article, error)
	Create(authorID int64, dto CreateArticleDTO) (*Article, error)
	Update(id int64, dto UpdateArticleDTO) (*Article, error)
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
	articles, err := h.Service.List()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, articles)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := h.articleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting article.")
		return
	}

	article, err := h.Service.Get(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

// Create stores an article with the calling identity as author.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
		return
	}

	var dto CreateArticleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when creating article.")
		return
	}

	article, err := h.Service.Create(identity.UserID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, article)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := h.articleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting article.")
		return
	}

	var dto UpdateArticleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating article.")
		return
	}

	article, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.articleID(r)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when getting article.")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) articleID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
