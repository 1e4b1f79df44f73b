package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"quicklist/internal/auth"
	"quicklist/internal/domain"
	"quicklist/internal/repository"
)

const (
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = auth.MaxPasswordBytes
)

var validate = validator.New()

// UserService describes user lifecycle operations and bearer token resolution.
type UserService interface {
	// Register creates an account and returns it together with a fresh token.
	Register(ctx context.Context, email, password string) (*domain.User, auth.Token, error)
	// Authenticate checks credentials and returns a fresh token.
	Authenticate(ctx context.Context, email, password string) (*domain.User, auth.Token, error)
	// Resolve maps a bearer token to its active user. Every token problem,
	// and a subject that is not an active user, is ErrUnauthorized.
	Resolve(ctx context.Context, token string) (*domain.User, error)
	// Profile returns the user with their todos attached.
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	todos  repository.TodoRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenIssuer
	logger logrus.FieldLogger
}

func NewUserService(
	users repository.UserRepository,
	todos repository.TodoRepository,
	hasher *auth.PasswordHasher,
	tokens *auth.TokenIssuer,
	logger logrus.FieldLogger,
) UserService {
	return &userService{
		users:  users,
		todos:  todos,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// NormalizeEmail trims and lower-cases an address so lookups and uniqueness
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, auth.Token, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, auth.Token{}, err
	}
	if err := validatePassword(password); err != nil {
		return nil, auth.Token{}, err
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, auth.Token{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrNotFound):
		return nil, auth.Token{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, auth.Token{}, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.Token{}, ErrEmailTaken
		}
		return nil, auth.Token{}, err
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, auth.Token{}, fmt.Errorf("issue token: %w", err)
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")
	return sanitizeUser(user), token, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, auth.Token, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, auth.Token{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.VerifyNothing(password)
			s.logger.Debug("login rejected: unknown email")
			return nil, auth.Token{}, ErrInvalidCredentials
		}
		return nil, auth.Token{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Debug("login rejected: password mismatch")
		return nil, auth.Token{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.WithField("user_id", user.ID).Debug("login rejected: inactive user")
		return nil, auth.Token{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, auth.Token{}, fmt.Errorf("issue token: %w", err)
	}
	return sanitizeUser(user), token, nil
}

func (s *userService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.WithError(err).Debug("bearer token rejected")
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("bearer token rejected: subject not found")
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		s.logger.WithField("user_id", user.ID).Debug("bearer token rejected: inactive user")
		return nil, ErrUnauthorized
	}
	return sanitizeUser(user), nil
}

func (s *userService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	todos, err := s.todos.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := sanitizeUser(user)
	profile.Todos = todos
	return profile, nil
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "is required")
	}
	if len(email) > maxEmailLength {
		return invalid("email", "must be at most 255 characters")
	}
	if err := validate.Var(email, "email"); err != nil {
		return invalid("email", "is not a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return invalid("password", "is required")
	}
	if len(password) < minPasswordLength {
		return invalid("password", "must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return invalid("password", "must be at most 72 bytes")
	}
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
