package services

import (
	"context"
	"errors"
	"fmt"

	"shopapi/internal/auth"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/storage"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Image    *storage.Upload
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokens     *auth.TokenManager
	images     *storage.Images
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *auth.TokenManager, images *storage.Images, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		images:     images,
		bcryptCost: bcryptCost,
	}
}

// RegisterUser creates a user after checking that neither the username nor
// the email is taken. The check runs before the password is hashed; the
// unique indexes still catch a concurrent registration.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", models.ErrValidation)
	}
	if err := ensureAvailable(ctx, s.userRepo, "", in.Username, in.Email); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	image, err := s.images.Save(ctx, storage.KindUser, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile image: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Password:     hashed,
		ProfileImage: image,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.images.Discard(storage.KindUser, image)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// LoginUser checks the credentials and returns a signed session token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", models.ErrInvalidCredentials
	}

	return s.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
}

// ValidateToken verifies a session token and returns the caller identity.
func (s *AuthService) ValidateToken(token string) (auth.Identity, error) {
	return s.tokens.Verify(token)
}

// ensureAvailable fails with ErrConflict when username or email belongs to a
// user other than selfID. Empty values are not checked.
func ensureAvailable(ctx context.Context, repo repositories.UserRepository, selfID, username, email string) error {
	if username != "" {
		existing, err := repo.GetByUsername(ctx, username)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if err == nil && existing.ID != selfID {
			return fmt.Errorf("username '%s' already taken: %w", username, models.ErrConflict)
		}
	}
	if email != "" {
		existing, err := repo.GetByEmail(ctx, email)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if err == nil && existing.ID != selfID {
			return fmt.Errorf("email '%s' already registered: %w", email, models.ErrConflict)
		}
	}
	return nil
}
