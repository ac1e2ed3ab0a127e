package auth_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/session"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	usersByEmail map[string]*auth.User
	usersByID    map[string]*auth.User
	getError     error
	createError  error
	nextID       int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*auth.User),
		usersByID:    make(map[string]*auth.User),
		nextID:       1,
	}
}

func (m *mockUserRepository) GetByEmail(email string) (*auth.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.usersByEmail[email], nil
}

func (m *mockUserRepository) GetByID(id string) (*auth.User, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepository) Create(user *auth.User) error {
	if m.createError != nil {
		return m.createError
	}
	if user.ID == "" {
		user.ID = "user-" + string(rune('0'+m.nextID))
		m.nextID++
	}
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepository) EmailExists(email string) (bool, error) {
	if m.getError != nil {
		return false, m.getError
	}
	_, ok := m.usersByEmail[email]
	return ok, nil
}

var _ = Describe("AuthService", func() {
	var (
		service *auth.Service
		repo    *mockUserRepository
		codec   *session.Codec
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		codec = session.NewCodec("test-session-secret-0123456789abcdef", time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(repo, codec, 4, logger)
	})

	registerUser := func(email, password, role string) *auth.User {
		user, err := service.Register(auth.RegisterDTO{
			Name:     "Teknisi",
			Email:    email,
			Password: password,
			Role:     role,
		})
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("Authenticate", func() {
		It("should return a verifiable session token for valid credentials", func() {
			registered := registerUser("teknisi@pabrik.co.id", "rahasia123", auth.RoleStaff)

			token, user, err := service.Authenticate(auth.LoginDTO{
				Email:    "teknisi@pabrik.co.id",
				Password: "rahasia123",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(registered.ID))

			claims, err := codec.Verify(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(registered.ID))
			Expect(claims.Role).To(Equal(auth.RoleStaff))
			Expect(claims.Email).To(Equal("teknisi@pabrik.co.id"))
		})

		It("should reject a wrong password", func() {
			registerUser("teknisi@pabrik.co.id", "rahasia123", auth.RoleStaff)

			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "teknisi@pabrik.co.id",
				Password: "salah",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("should reject an unknown email with the same error as a wrong password", func() {
			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "tidakada@pabrik.co.id",
				Password: "rahasia123",
			})
			Expect(err).To(Equal(internal.ErrInvalidCredentials))
		})

		It("should surface an internal error when the lookup fails", func() {
			repo.getError = errors.New("db down")

			_, _, err := service.Authenticate(auth.LoginDTO{
				Email:    "teknisi@pabrik.co.id",
				Password: "rahasia123",
			})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("Register", func() {
		It("should default the role to STAFF", func() {
			user := registerUser("baru@pabrik.co.id", "rahasia123", "")
			Expect(user.Role).To(Equal(auth.RoleStaff))
			Expect(user.PasswordHash).NotTo(Equal("rahasia123"))
		})

		It("should reject a duplicate email", func() {
			registerUser("baru@pabrik.co.id", "rahasia123", "")

			_, err := service.Register(auth.RegisterDTO{
				Name:     "Lain",
				Email:    "baru@pabrik.co.id",
				Password: "rahasia456",
			})
			Expect(err).To(Equal(internal.ErrEmailTaken))
		})

		It("should reject an unknown role", func() {
			_, err := service.Register(auth.RegisterDTO{
				Name:     "Baru",
				Email:    "baru@pabrik.co.id",
				Password: "rahasia123",
				Role:     "SUPERVISOR",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CurrentUser", func() {
		It("should resolve an existing user", func() {
			registered := registerUser("teknisi@pabrik.co.id", "rahasia123", auth.RoleManager)

			user, err := service.CurrentUser(registered.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("teknisi@pabrik.co.id"))
		})

		It("should treat a deleted user as unauthenticated", func() {
			_, err := service.CurrentUser("sudah-dihapus")
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
