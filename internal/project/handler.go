package project

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/frahmantamala/timesheet-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll() ([]*ProjectCode, error)
	GetByID(id int64) (*ProjectCode, error)
	Create(dto ProjectCodeDTO) (*ProjectCode, error)
	Update(id int64, dto ProjectCodeDTO) (*ProjectCode, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) projectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid project code ID")
		return 0, false
	}
	return id, true
}

// GetProjectCodes is readable by any authenticated user: the create form
// needs the list of codes to pick from.
func (h *Handler) GetProjectCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("GetProjectCodes: failed to get project codes", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get project codes")
		return
	}

	h.WriteJSON(w, http.StatusOK, ProjectCodesResponse{
		ProjectCodes: codes,
	})
}

func (h *Handler) GetProjectCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	code, err := h.Service.GetByID(id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, code)
}

func (h *Handler) CreateProjectCode(w http.ResponseWriter, r *http.Request) {
	var dto ProjectCodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.Service.Create(dto)
	if err != nil {
		h.Logger.Error("CreateProjectCode: service error", "error", err)
		switch err {
		case ErrDuplicateCode:
			h.WriteError(w, http.StatusConflict, "project code already exists")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, code)
}

func (h *Handler) UpdateProjectCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	var dto ProjectCodeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Error("UpdateProjectCode: service error", "error", err, "id", id)
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "project code not found")
		case ErrDuplicateCode:
			h.WriteError(w, http.StatusConflict, "project code already exists")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, code)
}

func (h *Handler) DeleteProjectCode(w http.ResponseWriter, r *http.Request) {
	id, ok := h.projectID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Error("DeleteProjectCode: service error", "error", err, "id", id)
		switch err {
		case ErrNotFound:
			h.WriteError(w, http.StatusNotFound, "project code not found")
		case ErrInUse:
			h.WriteError(w, http.StatusConflict, "project code is referenced by existing timesheets")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
