package timesheet

import (
	"time"

	"github.com/google/uuid"

	"log/slog"
)

// Repository defines the data access methods for timesheets. Update and
// Delete are owner-scoped and must report ErrTimesheetNotFound when zero rows
// match, never a silent no-op.
type Repository interface {
	CreateBatch(entries []*Timesheet) error
	GetByID(id int64) (*Timesheet, error)
	GetByUserID(userID int64) ([]*Timesheet, error)
	GetRejectedByUserID(userID int64) ([]*Timesheet, error)
	GetPending(limit, offset int) ([]*Timesheet, error)
	Update(entry *Timesheet, ownerID int64) error
	Delete(id, ownerID int64) error
	UpdateStatus(id int64, status string, comments *string, processedAt *time.Time) error
	UpdateForResubmit(id int64, hours float64) error
}

// ProjectCodeResolver resolves a project code string to its identifier.
type ProjectCodeResolver interface {
	GetIDByCode(code string) (int64, error)
}

// Service handles timesheet business logic for both the user workflow
// (submit, modify, delete, view, resubmit) and the manager workflow
// (review, approve, reject, reopen).
type Service struct {
	repo                Repository
	projects            ProjectCodeResolver
	allowReopenApproved bool
	logger              *slog.Logger
}

func NewService(repo Repository, projects ProjectCodeResolver, allowReopenApproved bool, logger *slog.Logger) *Service {
	return &Service{
		repo:                repo,
		projects:            projects,
		allowReopenApproved: allowReopenApproved,
		logger:              logger,
	}
}

// CreateWeekly inserts one pending row per (date, hours) entry, all in a
// single transaction so a failure partway never leaves a partial week behind.
func (s *Service) CreateWeekly(userID int64, dto CreateTimesheetDTO) ([]*Timesheet, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("timesheet validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	projectCodeID, err := s.projects.GetIDByCode(dto.ProjectCode)
	if err != nil {
		s.logger.Warn("project code vanished before submit", "code", dto.ProjectCode, "user_id", userID)
		return nil, ErrProjectCodeNotFound
	}

	now := time.Now()
	batchID := uuid.NewString()

	entries := make([]*Timesheet, 0, len(dto.Entries))
	for _, e := range dto.Entries {
		entryDate, err := e.ParseDate()
		if err != nil {
			return nil, err
		}
		entries = append(entries, &Timesheet{
			UserID:        userID,
			ProjectCodeID: projectCodeID,
			BatchID:       batchID,
			EntryDate:     entryDate,
			Hours:         e.Hours,
			Status:        StatusPending,
			SubmittedAt:   now,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	if err := s.repo.CreateBatch(entries); err != nil {
		s.logger.Error("failed to create timesheet batch", "error", err, "user_id", userID, "batch_id", batchID)
		return nil, err
	}

	s.logger.Info("weekly timesheet created",
		"user_id", userID,
		"batch_id", batchID,
		"entries", len(entries),
		"project_code", dto.ProjectCode)

	return entries, nil
}

// GetByID retrieves one entry with access control: owners and managers only.
func (s *Service) GetByID(id, callerID int64, isManager bool) (*Timesheet, error) {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrTimesheetNotFound
	}

	if !isManager && entry.UserID != callerID {
		s.logger.Warn("unauthorized access to timesheet", "timesheet_id", id, "caller_id", callerID, "owner_id", entry.UserID)
		return nil, ErrTimesheetNotFound
	}

	return entry, nil
}

// ListForUser returns all of the caller's entries, newest date first.
func (s *Service) ListForUser(userID int64) ([]*Timesheet, error) {
	entries, err := s.repo.GetByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list timesheets", "error", err, "user_id", userID)
		return nil, err
	}
	return entries, nil
}

// ListRejectedForUser returns the caller's rejected entries with the
// manager's comments, the working set for resubmission.
func (s *Service) ListRejectedForUser(userID int64) ([]*Timesheet, error) {
	entries, err := s.repo.GetRejectedByUserID(userID)
	if err != nil {
		s.logger.Error("failed to list rejected timesheets", "error", err, "user_id", userID)
		return nil, err
	}
	return entries, nil
}

// Update replaces the project code, date and hours of an owned pending entry.
// An id owned by another user reports not found rather than touching rows.
func (s *Service) Update(id, userID int64, dto UpdateTimesheetDTO) (*Timesheet, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrTimesheetNotFound
	}
	if entry.UserID != userID {
		s.logger.Warn("modify denied: not the owner", "timesheet_id", id, "caller_id", userID)
		return nil, ErrTimesheetNotFound
	}
	if !entry.IsEditable() {
		return nil, ErrNotEditable
	}

	projectCodeID, err := s.projects.GetIDByCode(dto.ProjectCode)
	if err != nil {
		return nil, ErrProjectCodeNotFound
	}

	entryDate, _ := time.Parse(dateLayout, dto.Date)
	entry.ProjectCodeID = projectCodeID
	entry.EntryDate = entryDate
	entry.Hours = dto.Hours
	entry.UpdatedAt = time.Now()

	if err := s.repo.Update(entry, userID); err != nil {
		s.logger.Error("failed to update timesheet", "error", err, "timesheet_id", id, "user_id", userID)
		return nil, err
	}

	s.logger.Info("timesheet modified", "timesheet_id", id, "user_id", userID)
	return entry, nil
}

// Delete removes an owned pending entry, reporting not found on a miss.
func (s *Service) Delete(id, userID int64) error {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return ErrTimesheetNotFound
	}
	if entry.UserID != userID {
		s.logger.Warn("delete denied: not the owner", "timesheet_id", id, "caller_id", userID)
		return ErrTimesheetNotFound
	}
	if !entry.IsEditable() {
		return ErrNotEditable
	}

	if err := s.repo.Delete(id, userID); err != nil {
		s.logger.Error("failed to delete timesheet", "error", err, "timesheet_id", id, "user_id", userID)
		return err
	}

	s.logger.Info("timesheet deleted", "timesheet_id", id, "user_id", userID)
	return nil
}

// Resubmit sets revised hours on a rejected owned entry and returns it to
// pending review. The prior rejection comment is preserved.
func (s *Service) Resubmit(id, userID int64, dto ResubmitDTO) (*Timesheet, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.repo.GetByID(id)
	if err != nil {
		return nil, ErrTimesheetNotFound
	}
	if entry.UserID != userID {
		s.logger.Warn("resubmit denied: not the owner", "timesheet_id", id, "caller_id", userID)
		return nil, ErrTimesheetNotFound
	}
	if !entry.CanBeResubmitted() {
		s.logger.Warn("cannot resubmit timesheet in current status", "timesheet_id", id, "status", entry.Status)
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateForResubmit(id, dto.Hours); err != nil {
		s.logger.Error("failed to resubmit timesheet", "error", err, "timesheet_id", id)
		return nil, err
	}

	entry.Resubmit(dto.Hours)
	s.logger.Info("timesheet resubmitted", "timesheet_id", id, "user_id", userID, "hours", dto.Hours)
	return entry, nil
}

// ListPending returns entries awaiting review, oldest submitted first.
func (s *Service) ListPending(limit, offset int) ([]*Timesheet, error) {
	entries, err := s.repo.GetPending(limit, offset)
	if err != nil {
		s.logger.Error("failed to list pending timesheets", "error", err)
		return nil, err
	}
	return entries, nil
}

// Approve transitions a pending entry to approved, storing the manager's
// comment and processed time. Approved is terminal unless the reopen policy
// is enabled.
func (s *Service) Approve(id, managerID int64, dto ReviewDTO) error {
	entry, err := s.repo.GetByID(id)
	if err != nil {
		return ErrTimesheetNotFound
	}

	if !entry.CanBeApproved() {
		s.logger.Warn("cannot approve timesheet in current status", "timesheet_id", id, "status", entry.Status)
		return ErrInvalidStatus
	}

	comments := entry.Comments
	if dto.Comments != "" {
		comments = &dto.Comments
	}

	processedAt := time.Now()
	if err := s.repo.UpdateStatus(id, StatusApproved, comments, &processedAt); err != nil {
		s.logger.Error("failed to approve timesheet", "error", err, "timesheet_id", id)
		return err
	}

	s.logger.Info("timesheet approved", "timesheet_id", id, "manager_id", managerID)
	return nil
}

// Reject transitions a pending entry to rejected with a mandatory comment.
func (s *Service) Reject(id, managerID int64, dto ReviewDTO) error {
	if err := dto.ValidateForReject(); err != nil {
		return err
	}

	entry, err := s.repo.GetByID(id)
	if err != nil {
		return ErrTimesheetNotFound
	}

	if !entry.CanBeRejected() {
		s.logger.Warn("cannot reject timesheet in current status", "timesheet_id", id, "status", entry.Status)
		return ErrInvalidStatus
	}

	processedAt := time.Now()
	if err := s.repo.UpdateStatus(id, StatusRejected, &dto.Comments, &processedAt); err != nil {
		s.logger.Error("failed to reject timesheet", "error", err, "timesheet_id", id)
		return err
	}

	s.logger.Info("timesheet rejected", "timesheet_id", id, "manager_id", managerID, "comments", dto.Comments)
	return nil
}

// Reopen returns an approved entry to pending. Disabled by default; the
// allow_reopen_approved policy switch turns it on.
func (s *Service) Reopen(id, managerID int64) error {
	if !s.allowReopenApproved {
		return ErrReopenDisabled
	}

	entry, err := s.repo.GetByID(id)
	if err != nil {
		return ErrTimesheetNotFound
	}

	if entry.Status != StatusApproved {
		return ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(id, StatusPending, entry.Comments, nil); err != nil {
		s.logger.Error("failed to reopen timesheet", "error", err, "timesheet_id", id)
		return err
	}

	s.logger.Info("approved timesheet reopened", "timesheet_id", id, "manager_id", managerID)
	return nil
}
