package auth

import (
	"errors"
	"testing"
	"time"

	internal "github.com/jovitools/portal/internal"
	"github.com/jovitools/portal/internal/access"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	users         map[string]string // email -> password hash
	userIDs       map[string]string // email -> userID
	usersByID     map[string]*User
	created       []string // emails passed to CreateUserWithProfile
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockUserRepository{
		users: map[string]string{
			"member@example.com": string(hashedPassword),
			"admin@example.com":  string(hashedPassword),
		},
		userIDs: map[string]string{
			"member@example.com": "user-1",
			"admin@example.com":  "user-2",
		},
		usersByID: map[string]*User{
			"user-1": {ID: "user-1", Email: "member@example.com", Role: access.RoleMember},
			"user-2": {ID: "user-2", Email: "admin@example.com", Role: access.RoleAdmin},
		},
	}
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, string, error) {
	if m.returnError {
		return "", "", m.errorToReturn
	}

	if hash, exists := m.users[email]; exists {
		if userID, userExists := m.userIDs[email]; userExists {
			return hash, userID, nil
		}
	}
	return "", "", internal.ErrInvalidCredentials
}

func (m *mockUserRepository) GetUserWithRole(userID string) (*User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}

	if user, exists := m.usersByID[userID]; exists {
		return user, nil
	}
	return nil, internal.ErrInvalidCredentials
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	_, exists := m.users[email]
	return exists, nil
}

func (m *mockUserRepository) CreateUserWithProfile(userID, email, passwordHash string, name *string) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.users[email] = passwordHash
	m.userIDs[email] = userID
	m.usersByID[userID] = &User{ID: userID, Email: email, Role: access.RoleMember}
	m.created = append(m.created, email)
	return nil
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service       *Service
		mockRepo      *mockUserRepository
		tokenGen      *JWTTokenGenerator
		accessSecret  = "test-access-secret"
		refreshSecret = "test-refresh-secret"
		accessTTL     = 15 * time.Minute
		refreshTTL    = 24 * time.Hour
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator(accessSecret, refreshSecret, accessTTL, refreshTTL)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "member@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should issue an access token that validates to the user", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "member@example.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("user-1"))
				gomega.Expect(claims.Email).To(gomega.Equal("member@example.com"))
			})
		})

		ginkgo.Context("when the password is wrong", func() {
			ginkgo.It("should return invalid credentials", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "member@example.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the user does not exist", func() {
			ginkgo.It("should return invalid credentials without leaking existence", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@example.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the DTO is incomplete", func() {
			ginkgo.It("should reject a missing email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "x"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})

			ginkgo.It("should reject a missing password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "member@example.com"})
				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("Signup", func() {
		ginkgo.It("should create the account and sign the user in", func() {
			tokens, err := service.Signup(SignupDTO{
				Email:    "New.Member@Example.com",
				Password: "longenough",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(mockRepo.created).To(gomega.ConsistOf("new.member@example.com"))
		})

		ginkgo.It("should reject an email that is already registered", func() {
			_, err := service.Signup(SignupDTO{
				Email:    "member@example.com",
				Password: "longenough",
			})

			gomega.Expect(err).To(gomega.MatchError(internal.ErrEmailTaken))
		})

		ginkgo.It("should reject a short password", func() {
			_, err := service.Signup(SignupDTO{
				Email:    "new@example.com",
				Password: "short",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.created).To(gomega.BeEmpty())
		})

		ginkgo.It("should surface repository failures", func() {
			mockRepo.setError(errors.New("db down"))

			_, err := service.Signup(SignupDTO{
				Email:    "new@example.com",
				Password: "longenough",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a new pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "member@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(refreshed.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject a garbage token", func() {
			_, err := service.RefreshTokens("not.a.token")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("should reject a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("other-access-secret", "other-refresh-secret", accessTTL, refreshTTL)
			token, err := otherGen.GenerateAccessToken("user-1", "member@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should reject an expired token", func() {
			expiredGen := NewJWTTokenGenerator(accessSecret, refreshSecret, -time.Minute, refreshTTL)
			token, err := expiredGen.GenerateAccessToken("user-1", "member@example.com")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrTokenExpired))
		})
	})

	ginkgo.Describe("GetUserWithRole", func() {
		ginkgo.It("should return the role alongside identity", func() {
			user, err := service.GetUserWithRole("user-2")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(user.IsAdmin()).To(gomega.BeTrue())
		})
	})
})
