package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shopapi/internal/auth"
	"shopapi/internal/models"
	"shopapi/internal/services"
	"shopapi/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_UpdateUser_PartialMerge(t *testing.T) {
	ctx := context.Background()
	images, store := newTestImages(t)
	require.NoError(t, store.Save(ctx, storage.KindUser, "old.png", strings.NewReader("old")))

	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	stored := &models.User{ID: "u-1", Username: "alice", Email: "a@x.com", Password: "old-hash", ProfileImage: "old.png"}
	mockRepo.On("GetByID", "u-1").Return(stored, nil).Once()
	mockRepo.On("GetByEmail", "new@x.com").Return(nil, notFound("user")).Once()
	mockRepo.On("Update", mock.Anything).Return(nil).Once()

	updated, err := service.UpdateUser(ctx, "u-1", services.UserUpdate{
		Email:    "new@x.com",
		Password: "pw2",
		Image:    &storage.Upload{Filename: "new.png", Content: strings.NewReader("new")},
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, "new@x.com", updated.Email)
	assert.True(t, auth.CheckPassword(updated.Password, "pw2"))
	assert.NotEqual(t, "old.png", updated.ProfileImage)

	images.Wait()
	assert.NoFileExists(t, store.Path(storage.KindUser, "old.png"))
	assert.FileExists(t, store.Path(storage.KindUser, updated.ProfileImage))
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateUser_KeepsImageWhenNoneUploaded(t *testing.T) {
	ctx := context.Background()
	images, store := newTestImages(t)
	require.NoError(t, store.Save(ctx, storage.KindUser, "keep.png", strings.NewReader("x")))

	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	mockRepo.On("GetByID", "u-1").Return(&models.User{ID: "u-1", Username: "alice", ProfileImage: "keep.png"}, nil).Once()
	mockRepo.On("GetByUsername", "alice2").Return(nil, notFound("user")).Once()
	mockRepo.On("Update", mock.Anything).Return(nil).Once()

	updated, err := service.UpdateUser(ctx, "u-1", services.UserUpdate{Username: "alice2"})
	require.NoError(t, err)
	assert.Equal(t, "keep.png", updated.ProfileImage)

	images.Wait()
	assert.FileExists(t, store.Path(storage.KindUser, "keep.png"))
}

func TestUserService_UpdateUser_Conflict(t *testing.T) {
	images, _ := newTestImages(t)
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	mockRepo.On("GetByID", "u-1").Return(&models.User{ID: "u-1", Username: "alice", Email: "a@x.com"}, nil).Once()
	mockRepo.On("GetByEmail", "b@x.com").Return(&models.User{ID: "u-2"}, nil).Once()

	_, err := service.UpdateUser(context.Background(), "u-1", services.UserUpdate{Email: "b@x.com"})
	assert.True(t, errors.Is(err, models.ErrConflict))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUserService_UpdateUser_OwnEmailIsNotAConflict(t *testing.T) {
	images, _ := newTestImages(t)
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	self := &models.User{ID: "u-1", Username: "alice", Email: "a@x.com"}
	mockRepo.On("GetByID", "u-1").Return(self, nil).Once()
	mockRepo.On("GetByEmail", "a@x.com").Return(self, nil).Once()
	mockRepo.On("Update", mock.Anything).Return(nil).Once()

	_, err := service.UpdateUser(context.Background(), "u-1", services.UserUpdate{Email: "a@x.com"})
	assert.NoError(t, err)
}

func TestUserService_NotFound(t *testing.T) {
	ctx := context.Background()
	images, _ := newTestImages(t)
	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	mockRepo.On("GetByID", "missing").Return(nil, notFound("user with ID missing"))

	_, err := service.UpdateUser(ctx, "missing", services.UserUpdate{Username: "x"})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = service.DeleteUser(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestUserService_DeleteUser_RemovesImage(t *testing.T) {
	ctx := context.Background()
	images, store := newTestImages(t)
	require.NoError(t, store.Save(ctx, storage.KindUser, "avatar.png", strings.NewReader("x")))

	mockRepo := new(MockUserRepository)
	service := services.NewUserService(mockRepo, images, bcrypt.MinCost)

	mockRepo.On("GetByID", "u-1").Return(&models.User{ID: "u-1", ProfileImage: "avatar.png"}, nil).Once()
	mockRepo.On("Delete", "u-1").Return(nil).Once()

	require.NoError(t, service.DeleteUser(ctx, "u-1"))
	images.Wait()
	assert.NoFileExists(t, store.Path(storage.KindUser, "avatar.png"))
	mockRepo.AssertExpectations(t)
}
