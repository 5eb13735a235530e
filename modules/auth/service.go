package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/user"
	"github.com/google/uuid"
)

// AuthService handles registration, login and identity resolution.
type AuthService struct {
	repo   *UserRepository
	hasher *PasswordHasher
	tokens *TokenManager
	now    func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *UserRepository, hasher *PasswordHasher, tokens *TokenManager) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
	}
}

// Register validates the input, stores a new user and issues a token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < domain.MinNameLength {
		return nil, "", apperr.Validation("Name must be at least 2 characters")
	}

	email = domain.NormalizeEmail(email)
	if !domain.ValidEmail(email) {
		return nil, "", apperr.Validation("Invalid email address")
	}

	if utf8.RuneCountInString(password) < domain.MinPasswordLength {
		return nil, "", apperr.Validation("Password must be at least 6 characters")
	}
	if len(password) > domain.MaxPasswordBytes {
		return nil, "", apperr.Validation("Password must be at most 72 bytes")
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, "", apperr.Conflict("Email already registered")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, "", apperr.Conflict("Email already registered")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", apperr.Validation("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", apperr.InvalidCredentials()
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", apperr.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// ResolveToken verifies token and loads the user it names.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.Unauthorized("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
