package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/timesheet-management/internal"
)

// Repository defines the data access methods for users.
type Repository interface {
	GetAll() ([]*User, error)
	GetByID(id int64) (*User, error)
	GetByUsername(username string) (*User, error)
	CountByRole(role string) (int64, error)
	Create(u *User) error
	Update(u *User) error
	Delete(id int64) error
}

// ReferenceCounter reports how many timesheets reference a user, backing the
// referential guard before user deletion.
type ReferenceCounter interface {
	CountByUserID(userID int64) (int64, error)
}

type Service struct {
	repo       Repository
	references ReferenceCounter
	logger     *slog.Logger
}

func NewService(repo Repository, references ReferenceCounter, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		references: references,
		logger:     logger,
	}
}

func (s *Service) GetAll() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get users", "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *Service) Create(dto UserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("duplicate username", "username", dto.Username)
		return nil, ErrDuplicateUsername
	}

	now := time.Now()
	u := &User{
		Username:  dto.Username,
		Role:      dto.Role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

// Update changes username and role. Demoting the last remaining manager is
// refused so the review workflow can never be locked out.
func (s *Service) Update(id int64, dto UserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}

	if u.Role == internal.RoleManager && dto.Role != internal.RoleManager {
		managers, err := s.repo.CountByRole(internal.RoleManager)
		if err != nil {
			return nil, err
		}
		if managers <= 1 {
			s.logger.Warn("demote refused: last manager", "user_id", id)
			return nil, ErrLastManager
		}
	}

	u.Username = dto.Username
	u.Role = dto.Role
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id, "username", u.Username, "role", u.Role)
	return u, nil
}

// Delete removes a user unless timesheets reference them or they are the
// last manager.
func (s *Service) Delete(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}

	if u.Role == internal.RoleManager {
		managers, err := s.repo.CountByRole(internal.RoleManager)
		if err != nil {
			return err
		}
		if managers <= 1 {
			s.logger.Warn("delete refused: last manager", "user_id", id)
			return ErrLastManager
		}
	}

	count, err := s.references.CountByUserID(id)
	if err != nil {
		s.logger.Error("failed to count timesheet references", "error", err, "user_id", id)
		return err
	}
	if count > 0 {
		s.logger.Warn("delete refused: user has timesheets", "user_id", id, "references", count)
		return ErrInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", id)
		return err
	}

	s.logger.Info("user deleted", "user_id", id, "username", u.Username)
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
