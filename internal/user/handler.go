package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timesheet-management/internal"
	"github.com/frahmantamala/timesheet-management/internal/transport"
	"github.com/frahmantamala/timesheet-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll() ([]*User, error)
	GetByID(id int64) (*User, error)
	Create(dto UserDTO) (*User, error)
	Update(id int64, dto UserDTO) (*User, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return 0, false
	}
	return id, true
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := internal.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.Logger.Error("GetCurrentUser: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(sessionUser.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", sessionUser.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("GetUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get users")
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err)
		switch err {
		case ErrDuplicateUsername:
			h.WriteError(w, http.StatusConflict, "username already exists")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "user_id", id)
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		case ErrDuplicateUsername:
			h.WriteError(w, http.StatusConflict, "username already exists")
		case ErrLastManager:
			h.WriteError(w, http.StatusConflict, "cannot demote the last manager")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteUser: service error", "error", err, "user_id", id)
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "user not found")
		case ErrInUse:
			h.WriteError(w, http.StatusConflict, "user is referenced by existing timesheets")
		case ErrLastManager:
			h.WriteError(w, http.StatusConflict, "cannot delete the last manager")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
