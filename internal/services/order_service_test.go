package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"shopapi/internal/auth"
	"shopapi/internal/models"
	"shopapi/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = auth.Identity{UserID: "user-a", Username: "alice"}
	bob   = auth.Identity{UserID: "user-b", Username: "bob"}
)

func status(s models.OrderStatus) *models.OrderStatus { return &s }

func quantity(q int) *int { return &q }

func TestOrderService_CreateOrder(t *testing.T) {
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(mockRepo, publisher, zerolog.New(io.Discard))

	mockRepo.On("Create", mock.MatchedBy(func(o *models.Order) bool {
		return o.UserID == alice.UserID && o.ProductID == "prod-1" && o.Quantity == 2 && o.Status == models.OrderStatusPending
	})).Return(nil).Once()
	publisher.On("Publish", services.EventOrderCreated, mock.MatchedBy(func(body []byte) bool {
		var evt services.OrderEvent
		return json.Unmarshal(body, &evt) == nil &&
			evt.Event == services.EventOrderCreated &&
			evt.OrderID == "order-1" &&
			evt.UserID == alice.UserID
	})).Return(nil).Once()

	order, err := service.CreateOrder(context.Background(), alice, services.OrderInput{ProductID: "prod-1", Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, alice.UserID, order.UserID)

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_CreateOrder_RequiresProduct(t *testing.T) {
	service := services.NewOrderService(new(MockOrderRepository), nil, zerolog.New(io.Discard))

	_, err := service.CreateOrder(context.Background(), alice, services.OrderInput{Quantity: 1})
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestOrderService_QuantityMustBePositive(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, zerolog.New(io.Discard))

	for _, q := range []int{0, -3} {
		_, err := service.CreateOrder(ctx, alice, services.OrderInput{ProductID: "prod-1", Quantity: q})
		assert.True(t, errors.Is(err, models.ErrValidation), "create with quantity %d", q)

		_, err = service.UpdateOrder(ctx, alice, "o-1", services.OrderUpdate{Quantity: quantity(q)})
		assert.True(t, errors.Is(err, models.ErrValidation), "update with quantity %d", q)
	}

	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestOrderService_PublishFailureIsLoggedOnly(t *testing.T) {
	var logs bytes.Buffer
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(mockRepo, publisher, zerolog.New(&logs))

	mockRepo.On("Create", mock.Anything).Return(nil).Once()
	publisher.On("Publish", services.EventOrderCreated, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateOrder(context.Background(), alice, services.OrderInput{ProductID: "prod-1", Quantity: 1})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "broker down")
}

func TestOrderService_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	service := services.NewOrderService(mockRepo, nil, zerolog.New(io.Discard))

	owned := &models.Order{ID: "o-1", UserID: alice.UserID, ProductID: "prod-1", Quantity: 1, Status: models.OrderStatusPending}
	mockRepo.On("GetByID", "o-1").Return(owned, nil)
	mockRepo.On("GetByUser", bob.UserID).Return([]models.Order{}, nil).Once()

	got, err := service.GetOrderByID(ctx, alice, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "o-1", got.ID)

	_, err = service.GetOrderByID(ctx, bob, "o-1")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = service.UpdateOrder(ctx, bob, "o-1", services.OrderUpdate{Quantity: quantity(9)})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = service.DeleteOrder(ctx, bob, "o-1")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	orders, err := service.GetOrders(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, orders)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestOrderService_UpdateOrder(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(mockRepo, publisher, zerolog.New(io.Discard))

	mockRepo.On("GetByID", "o-1").Return(&models.Order{ID: "o-1", UserID: alice.UserID, Quantity: 1, Status: models.OrderStatusPending}, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(o *models.Order) bool {
		return o.Quantity == 1 && o.Status == models.OrderStatusCompleted && o.UserID == alice.UserID
	})).Return(nil).Once()
	publisher.On("Publish", services.EventOrderUpdated, mock.Anything).Return(nil).Once()

	updated, err := service.UpdateOrder(ctx, alice, "o-1", services.OrderUpdate{Status: status(models.OrderStatusCompleted)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)
	assert.Equal(t, 1, updated.Quantity)

	// Unknown status is rejected before touching the store
	_, err = service.UpdateOrder(ctx, alice, "o-1", services.OrderUpdate{Status: status("shipped")})
	assert.True(t, errors.Is(err, models.ErrValidation))

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockOrderRepository)
	publisher := new(MockPublisher)
	service := services.NewOrderService(mockRepo, publisher, zerolog.New(io.Discard))

	mockRepo.On("GetByID", "o-1").Return(&models.Order{ID: "o-1", UserID: alice.UserID}, nil).Once()
	mockRepo.On("Delete", "o-1").Return(nil).Once()
	publisher.On("Publish", services.EventOrderDeleted, mock.Anything).Return(nil).Once()
	require.NoError(t, service.DeleteOrder(ctx, alice, "o-1"))

	mockRepo.On("GetByID", "missing").Return(nil, notFound("order with ID missing")).Once()
	assert.True(t, errors.Is(service.DeleteOrder(ctx, alice, "missing"), models.ErrNotFound))

	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}
