package project

import (
	"log/slog"
	"strings"
	"time"
)

// RepositoryAPI defines the data access methods for project codes.
type RepositoryAPI interface {
	GetAll() ([]*ProjectCode, error)
	GetByID(id int64) (*ProjectCode, error)
	GetByCode(code string) (*ProjectCode, error)
	Create(code *ProjectCode) error
	Update(code *ProjectCode) error
	Delete(id int64) error
}

// ReferenceCounter reports how many timesheets reference a project code. It
// backs the referential guard that refuses deletes which would leave dangling
// foreign keys.
type ReferenceCounter interface {
	CountByProjectCodeID(projectCodeID int64) (int64, error)
}

type Service struct {
	repo       RepositoryAPI
	references ReferenceCounter
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, references ReferenceCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		references: references,
		logger:     logger,
	}
}

func (s *Service) GetAll() ([]*ProjectCode, error) {
	codes, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get project codes", "error", err)
		return nil, err
	}
	return codes, nil
}

func (s *Service) GetByID(id int64) (*ProjectCode, error) {
	code, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}
	return code, nil
}

// GetIDByCode resolves a code string to its identifier, for timesheet
// submission.
func (s *Service) GetIDByCode(code string) (int64, error) {
	p, err := s.repo.GetByCode(code)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, ErrNotFound
	}
	return p.ID, nil
}

func (s *Service) Create(dto ProjectCodeDTO) (*ProjectCode, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByCode(dto.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("duplicate project code", "code", dto.Code)
		return nil, ErrDuplicateCode
	}

	now := time.Now()
	code := &ProjectCode{
		Code:        dto.Code,
		Description: dto.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(code); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		s.logger.Error("failed to create project code", "error", err, "code", dto.Code)
		return nil, err
	}

	s.logger.Info("project code created", "id", code.ID, "code", code.Code)
	return code, nil
}

func (s *Service) Update(id int64, dto ProjectCodeDTO) (*ProjectCode, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	code, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if code == nil {
		return nil, ErrNotFound
	}

	code.Code = dto.Code
	code.Description = dto.Description
	code.UpdatedAt = time.Now()

	if err := s.repo.Update(code); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		s.logger.Error("failed to update project code", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("project code updated", "id", id, "code", code.Code)
	return code, nil
}

// Delete removes a project code unless timesheets still reference it.
func (s *Service) Delete(id int64) error {
	code, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if code == nil {
		return ErrNotFound
	}

	count, err := s.references.CountByProjectCodeID(id)
	if err != nil {
		s.logger.Error("failed to count timesheet references", "error", err, "project_code_id", id)
		return err
	}
	if count > 0 {
		s.logger.Warn("delete refused: project code in use", "project_code_id", id, "references", count)
		return ErrInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project code", "error", err, "id", id)
		return err
	}

	s.logger.Info("project code deleted", "id", id, "code", code.Code)
	return nil
}

// isUniqueViolation matches unique-constraint failures from both the
// postgres and sqlite drivers without importing either.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
