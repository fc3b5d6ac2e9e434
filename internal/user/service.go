package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrkit/employee-api/internal/db"
	"github.com/hrkit/employee-api/internal/models"
)

const bcryptCost = 10

var (
	ErrUserExists         = errors.New("user already exists with this username or email")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("please enter a valid email")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidCredentials = errors.New("invalid email/username or password")
)

// Store is the persistence surface the service needs from the users
// collection.
type Store interface {
	Insert(ctx context.Context, user *models.User) (string, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

type SignUpInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Identifier string
	Password   string
}

type Service struct {
	store  Store
	logger *zap.SugaredLogger
}

func NewService(store Store, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, logger: logger}
}

// SignUp validates the input, hashes the password and persists a new user.
// Hashing happens here, as an explicit step, before the record is built.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (string, error) {
	username := models.NormalizeUsername(input.Username)
	if username == "" {
		return "", ErrUsernameRequired
	}

	email := models.NormalizeEmail(input.Email)
	if email == "" {
		return "", ErrEmailRequired
	}
	if !models.ValidateEmail(email) {
		return "", ErrEmailInvalid
	}

	if len(input.Password) < 6 {
		return "", ErrPasswordTooShort
	}

	existing, err := s.store.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return "", fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.store.Insert(ctx, user)
	if err != nil {
		// The unique index is the real duplicate guard; a concurrent
		// signup that slipped past the pre-check lands here.
		if errors.Is(err, db.ErrDuplicateKey) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}

	s.logger.Infow("user registered", "user_id", id, "username", username)
	return id, nil
}

// Login resolves the identifier against email or username and compares the
// bcrypt hash. Unknown identifier and wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	identifier := models.NormalizeEmail(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
