package services

import (
	"context"
	"fmt"

	"shopapi/internal/auth"
	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/internal/storage"
)

// UserUpdate carries a partial user update. Empty fields and a nil Image
// leave the stored value unchanged.
type UserUpdate struct {
	Username string
	Email    string
	Password string
	Image    *storage.Upload
}

// UserService handles user profile management.
type UserService struct {
	repo       repositories.UserRepository
	images     *storage.Images
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, images *storage.Images, bcryptCost int) *UserService {
	return &UserService{
		repo:       repo,
		images:     images,
		bcryptCost: bcryptCost,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser merges the supplied fields into the stored user. A new
// password is hashed before it is stored, and a replaced profile image is
// removed in the background.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UserUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := ensureAvailable(ctx, s.repo, user.ID, in.Username, in.Email); err != nil {
		return nil, err
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Password != "" {
		hashed, err := auth.HashPassword(in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	image, err := s.images.Save(ctx, storage.KindUser, in.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile image: %w", err)
	}
	previous := user.ProfileImage
	if image != "" {
		user.ProfileImage = image
	}

	if err := s.repo.Update(ctx, user); err != nil {
		s.images.Discard(storage.KindUser, image)
		return nil, err
	}
	if image != "" {
		s.images.Discard(storage.KindUser, previous)
	}
	return user, nil
}

// DeleteUser deletes a user and, in the background, their profile image.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.images.Discard(storage.KindUser, user.ProfileImage)
	return nil
}
