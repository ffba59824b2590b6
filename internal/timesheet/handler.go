package timesheet

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
	CreateWeekly(userID int64, dto CreateTimesheetDTO) ([]*Timesheet, error)
	GetByID(id, callerID int64, isManager bool) (*Timesheet, error)
	ListForUser(userID int64) ([]*Timesheet, error)
	ListRejectedForUser(userID int64) ([]*Timesheet, error)
	Update(id, userID int64, dto UpdateTimesheetDTO) (*Timesheet, error)
	Delete(id, userID int64) error
	Resubmit(id, userID int64, dto ResubmitDTO) (*Timesheet, error)
	ListPending(limit, offset int) ([]*Timesheet, error)
	Approve(id, managerID int64, dto ReviewDTO) error
	Reject(id, managerID int64, dto ReviewDTO) error
	Reopen(id, managerID int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) timesheetID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid timesheet ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid timesheet ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) CreateTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("CreateTimesheet: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTimesheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTimesheet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entries, err := h.Service.CreateWeekly(user.ID, dto)
	if err != nil {
		h.Logger.Error("CreateTimesheet: service error", "error", err, "user_id", user.ID)
		switch err {
		case ErrProjectCodeNotFound:
			h.WriteError(w, http.StatusNotFound, "project code not found")
		default:
			if appErr, ok := internal.IsAppError(err); ok {
				h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			} else {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			}
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"timesheets": entries,
		"batch_id":   entries[0].BatchID,
	})
}

func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	entry, err := h.Service.GetByID(id, user.ID, user.IsManager())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) ListTimesheets(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.ListForUser(user.ID)
	if err != nil {
		h.Logger.Error("ListTimesheets: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timesheets": entries,
	})
}

func (h *Handler) ListRejected(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.ListRejectedForUser(user.ID)
	if err != nil {
		h.Logger.Error("ListRejected: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to list rejected timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timesheets": entries,
	})
}

func (h *Handler) UpdateTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	var dto UpdateTimesheetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateTimesheet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Update(id, user.ID, dto)
	if err != nil {
		h.Logger.Error("UpdateTimesheet: service error", "error", err, "timesheet_id", id, "user_id", user.ID)
		switch err {
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found or not owned")
		case ErrProjectCodeNotFound:
			h.WriteError(w, http.StatusNotFound, "project code not found")
		case ErrNotEditable:
			h.WriteError(w, http.StatusBadRequest, "only pending timesheets can be modified")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) DeleteTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, user.ID); err != nil {
		h.Logger.Error("DeleteTimesheet: service error", "error", err, "timesheet_id", id, "user_id", user.ID)
		switch err {
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found or not owned")
		case ErrNotEditable:
			h.WriteError(w, http.StatusBadRequest, "only pending timesheets can be deleted")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ResubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	var dto ResubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ResubmitTimesheet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.Service.Resubmit(id, user.ID, dto)
	if err != nil {
		h.Logger.Error("ResubmitTimesheet: service error", "error", err, "timesheet_id", id, "user_id", user.ID)
		switch err {
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found or not owned")
		case ErrInvalidStatus:
			h.WriteError(w, http.StatusBadRequest, "only rejected timesheets can be resubmitted")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.Logger.Info("ResubmitTimesheet: timesheet resubmitted", "timesheet_id", id, "user_id", user.ID)
	h.WriteJSON(w, http.StatusOK, entry)
}

// ListPending serves the manager review queue.
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.Service.ListPending(limit, offset)
	if err != nil {
		h.Logger.Error("ListPending: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list pending timesheets")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"timesheets": entries,
		"limit":      limit,
		"offset":     offset,
	})
}

func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	var dto ReviewDTO
	if r.Body != nil {
		// comment is optional on approval
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	if err := h.Service.Approve(id, user.ID, dto); err != nil {
		h.Logger.Error("ApproveTimesheet: service error", "error", err, "timesheet_id", id, "manager_id", user.ID)
		switch err {
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found")
		case ErrInvalidStatus:
			h.WriteError(w, http.StatusBadRequest, "timesheet cannot be approved in current status")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.Logger.Info("ApproveTimesheet: timesheet approved", "timesheet_id", id, "manager_id", user.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "approved"})
}

func (h *Handler) RejectTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	var dto ReviewDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("RejectTimesheet: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.Reject(id, user.ID, dto); err != nil {
		h.Logger.Error("RejectTimesheet: service error", "error", err, "timesheet_id", id, "manager_id", user.ID)
		switch err {
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found")
		case ErrInvalidStatus:
			h.WriteError(w, http.StatusBadRequest, "timesheet cannot be rejected in current status")
		default:
			if appErr, ok := internal.IsAppError(err); ok {
				h.WriteError(w, appErr.StatusCode, appErr.GetDetailedMessage())
			} else {
				h.WriteError(w, http.StatusBadRequest, err.Error())
			}
		}
		return
	}

	h.Logger.Info("RejectTimesheet: timesheet rejected", "timesheet_id", id, "manager_id", user.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func (h *Handler) ReopenTimesheet(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.timesheetID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Reopen(id, user.ID); err != nil {
		h.Logger.Error("ReopenTimesheet: service error", "error", err, "timesheet_id", id, "manager_id", user.ID)
		switch err {
		case ErrReopenDisabled:
			h.WriteError(w, http.StatusForbidden, "reopening approved timesheets is disabled")
		case ErrTimesheetNotFound:
			h.WriteError(w, http.StatusNotFound, "timesheet not found")
		case ErrInvalidStatus:
			h.WriteError(w, http.StatusBadRequest, "only approved timesheets can be reopened")
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}
