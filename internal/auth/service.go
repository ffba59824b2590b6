package auth

import (
	"log/slog"

	"github.com/frahmantamala/timesheet-management/internal"
)

// UserRepository resolves stored identities for session establishment.
type UserRepository interface {
	GetByUsernameAndRole(username, role string) (*internal.SessionUser, error)
	GetByID(userID int64) (*internal.SessionUser, error)
}

// Service performs authentication business logic. There is no password in
// the identity model: a login matches username and role exactly, which is a
// placeholder mechanism for low-volume internal use.
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate looks up a user matching both username and role and issues a
// session token. Zero matches means invalid credentials.
func (s *Service) Authenticate(dto LoginDTO) (*SessionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsernameAndRole(dto.Username, dto.Role)
	if err != nil {
		s.logger.Warn("login failed: no matching user", "username", dto.Username, "role", dto.Role)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", user.ID)
		return nil, err
	}

	s.logger.Info("session established", "user_id", user.ID, "role", user.Role)

	return &SessionResponse{
		AccessToken: token,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

// ValidateAccessToken validates a session token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetSessionUser re-loads the user behind a validated token. A user deleted
// after login loses access even while the token is still unexpired.
func (s *Service) GetSessionUser(userID int64) (*internal.SessionUser, error) {
	return s.userRepo.GetByID(userID)
}
