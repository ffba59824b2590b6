package auth

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/timesheet-management/internal"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock UserRepository for testing
type mockUserRepository struct {
	users         map[string]*internal.SessionUser // "username/role" -> user
	usersByID     map[int64]*internal.SessionUser
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	alice := &internal.SessionUser{ID: 1, Username: "alice", Role: "user"}
	bob := &internal.SessionUser{ID: 2, Username: "bob", Role: "manager"}

	return &mockUserRepository{
		users: map[string]*internal.SessionUser{
			"alice/user":  alice,
			"bob/manager": bob,
		},
		usersByID: map[int64]*internal.SessionUser{
			1: alice,
			2: bob,
		},
	}
}

func (m *mockUserRepository) GetByUsernameAndRole(username, role string) (*internal.SessionUser, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.users[username+"/"+role]; exists {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) GetByID(userID int64) (*internal.SessionUser, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, exists := m.usersByID[userID]; exists {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
		secret   string        = "test-secret-key-of-sufficient-size"
		ttl      time.Duration = 15 * time.Minute
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(secret, ttl)
		service = NewService(mockRepo, tokenGen, newTestLogger())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when the identity matches", func() {
			ginkgo.It("should establish a session with a token", func() {
				dto := LoginDTO{Username: "alice", Role: "user"}

				session, err := service.Authenticate(dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(session.UserID).To(gomega.Equal(int64(1)))
				gomega.Expect(session.Username).To(gomega.Equal("alice"))
				gomega.Expect(session.Role).To(gomega.Equal("user"))
			})

			ginkgo.It("should issue a token that carries identity and role", func() {
				session, err := service.Authenticate(LoginDTO{Username: "bob", Role: "manager"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(session.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("2"))
				gomega.Expect(claims.Username).To(gomega.Equal("bob"))
				gomega.Expect(claims.Role).To(gomega.Equal("manager"))
			})
		})

		ginkgo.Context("when the identity does not match", func() {
			ginkgo.It("should return invalid credentials for an unknown username", func() {
				session, err := service.Authenticate(LoginDTO{Username: "nobody", Role: "user"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(session).To(gomega.BeNil())
			})

			ginkgo.It("should return invalid credentials for a role mismatch", func() {
				// alice exists but is not a manager
				session, err := service.Authenticate(LoginDTO{Username: "alice", Role: "manager"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(session).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when input validation fails", func() {
			ginkgo.It("should return validation error for empty username", func() {
				session, err := service.Authenticate(LoginDTO{Role: "user"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("username is required"))
				gomega.Expect(session).To(gomega.BeNil())
			})

			ginkgo.It("should return validation error for an unknown role", func() {
				session, err := service.Authenticate(LoginDTO{Username: "alice", Role: "admin"})

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("role must be either"))
				gomega.Expect(session).To(gomega.BeNil())
			})
		})

		ginkgo.Context("when repository returns error", func() {
			ginkgo.It("should return invalid credentials error", func() {
				mockRepo.setError(errors.New("database error"))

				session, err := service.Authenticate(LoginDTO{Username: "alice", Role: "user"})

				gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
				gomega.Expect(session).To(gomega.BeNil())
			})
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.Context("when access token is invalid", func() {
			ginkgo.It("should return error for malformed token", func() {
				claims, err := service.ValidateAccessToken("invalid.token")

				gomega.Expect(err).To(gomega.HaveOccurred())
				gomega.Expect(claims).To(gomega.BeNil())
			})

			ginkgo.It("should return ErrTokenExpired for an expired token", func() {
				expiredGen := NewJWTTokenGenerator(secret, -1*time.Hour)
				token, err := expiredGen.GenerateAccessToken(1, "alice", "user")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)

				gomega.Expect(err).To(gomega.Equal(ErrTokenExpired))
				gomega.Expect(claims).To(gomega.BeNil())
			})

			ginkgo.It("should reject a token signed with a different secret", func() {
				otherGen := NewJWTTokenGenerator("another-secret-entirely-different", ttl)
				token, err := otherGen.GenerateAccessToken(1, "alice", "user")
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(token)

				gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
				gomega.Expect(claims).To(gomega.BeNil())
			})
		})
	})

	ginkgo.Describe("GetSessionUser", func() {
		ginkgo.It("should return the stored user", func() {
			u, err := service.GetSessionUser(2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Username).To(gomega.Equal("bob"))
			gomega.Expect(u.IsManager()).To(gomega.BeTrue())
		})

		ginkgo.It("should fail for a deleted user even with a live token", func() {
			session, err := service.Authenticate(LoginDTO{Username: "alice", Role: "user"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			delete(mockRepo.usersByID, 1)

			claims, err := service.ValidateAccessToken(session.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims).ToNot(gomega.BeNil())

			u, err := service.GetSessionUser(1)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(u).To(gomega.BeNil())
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokenGen *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("test-secret-key-of-sufficient-size", 15*time.Minute)
	})

	ginkgo.Describe("GenerateAccessToken", func() {
		ginkgo.It("should generate a parseable token", func() {
			token, err := tokenGen.GenerateAccessToken(123, "carol", "user")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token).ToNot(gomega.BeEmpty())

			claims, err := tokenGen.ValidateToken(token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("123"))
			gomega.Expect(claims.Username).To(gomega.Equal("carol"))
			gomega.Expect(claims.ExpiresAt.Time).To(gomega.BeTemporally("~", time.Now().Add(15*time.Minute), time.Minute))
		})
	})

	ginkgo.Describe("ValidateToken", func() {
		ginkgo.It("should return error for empty token", func() {
			claims, err := tokenGen.ValidateToken("")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(claims).To(gomega.BeNil())
		})
	})
})

var _ = ginkgo.Describe("LoginDTO", func() {
	ginkgo.Describe("Validate", func() {
		ginkgo.It("should accept a valid login", func() {
			gomega.Expect(LoginDTO{Username: "alice", Role: "user"}.Validate()).To(gomega.Succeed())
		})

		ginkgo.It("should require username", func() {
			err := LoginDTO{Role: "user"}.Validate()
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("username is required"))
		})

		ginkgo.It("should require role", func() {
			err := LoginDTO{Username: "alice"}.Validate()
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.Equal("role is required"))
		})
	})
})
