package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	internal "github.com/rizkypratama/maintenance-portal/internal"
	"github.com/rizkypratama/maintenance-portal/internal/session"
)

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (string, *User, error)
	Register(dto RegisterDTO) (*User, error)
	CurrentUser(userID string) (*User, error)
	HashPassword(password string) (string, error)
}

// Service performs credential checks and mints session tokens.
type Service struct {
	repo       RepositoryAPI
	codec      *session.Codec
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, codec *session.Codec, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		codec:      codec,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate verifies credentials and returns a signed session token
// plus the user. Unknown emails and wrong passwords are indistinguishable
// to the caller.
func (s *Service) Authenticate(dto LoginDTO) (string, *User, error) {
	if err := dto.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("credential lookup failed", "error", err)
		return "", nil, internal.NewInternalError("Terjadi kesalahan saat login", err)
	}
	if user == nil {
		return "", nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return "", nil, internal.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(session.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	})
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err, "user_id", user.ID)
		return "", nil, internal.NewInternalError("Terjadi kesalahan saat login", err)
	}

	s.logger.Info("user authenticated", "user_id", user.ID, "role", user.Role)
	return token, user, nil
}

// Register creates a user. Duplicate emails are reported as a validation
// failure, matching the client contract.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		s.logger.Error("email existence check failed", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat registrasi", err)
	}
	if taken {
		return nil, internal.ErrEmailTaken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, internal.NewInternalError("Terjadi kesalahan saat registrasi", err)
	}

	role := dto.Role
	if role == "" {
		role = RoleStaff
	}

	user := &User{
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         role,
		Position:     dto.Position,
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("Terjadi kesalahan saat registrasi", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// CurrentUser resolves a session subject back to a live user record. A
// record deleted after token issuance yields an unauthenticated signal,
// not an internal error.
func (s *Service) CurrentUser(userID string) (*User, error) {
	if userID == "" {
		return nil, internal.ErrUserNotFound
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		s.logger.Error("user lookup failed", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("Terjadi kesalahan pada server", err)
	}
	if user == nil {
		s.logger.Warn("session subject no longer exists", "user_id", userID)
		return nil, internal.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
