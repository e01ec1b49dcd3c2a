package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/publica-project/publica/internal"
	"github.com/publica-project/publica/internal/transport"
	"github.com/publica-project/publica/pkg/logger"
)

type ServiceAPI interface {
	Login(dto LoginDTO) (*LoginResponse, error)
	Register(dto RegisterDTO) (*User, error)
	Profile(userID int64) (*ProfileResponse, error)
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*ProfileResponse, error)
	DeleteProfile(userID int64) error
	Bootstrap() (*BootstrapResponse, error)
	VerifyToken(tokenString string) (*Claims, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Login handles POST /auth/login and answers 201 with the token and its
// decoded claims, matching the historical contract.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	resp, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Warn("login failed", "email", dto.Email, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when creating user.")
		return
	}

	user, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "email", dto.Email, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
		return
	}

	profile, err := h.Service.Profile(identity.UserID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
		return
	}

	var dto UpdateProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusInternalServerError, "Error when updating user.")
		return
	}

	profile, err := h.Service.UpdateProfile(identity.UserID, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
		return
	}

	if err := h.Service.DeleteProfile(identity.UserID); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateAdmin handles POST /auth/createadmin: one-shot bootstrap of the seed
// roles and the configured admin user.
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.Bootstrap()
	if err != nil {
		h.Logger.Error("bootstrap failed", "error", err)
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, resp)
}

// IdentityMiddleware verifies a bearer token when one is present and stores
// the caller identity in the request context. Requests without a token pass
// through anonymously; the access guard decides whether that is acceptable.
// A token that is present but fails verification is rejected here.
func (h *Handler) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := h.Service.VerifyToken(token)
		if err != nil {
			h.Logger.Warn("token verification failed", "error", err)
			h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
			return
		}

		identity, err := claims.Identity()
		if err != nil {
			h.WriteMessage(w, http.StatusForbidden, "Failed to authenticate token.")
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
