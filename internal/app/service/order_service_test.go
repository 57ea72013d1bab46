package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/internal/db"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *gorm.DB, *model.User, *model.User, *model.Restaurant) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	orderService := NewOrderService(orderRepo, restaurantRepo)

	user := &model.User{
		Email:        "diner@example.com",
		Phone:        "9810000001",
		PasswordHash: "hash",
		Name:         "Test Diner",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	owner := &model.User{
		Email:        "owner@example.com",
		Phone:        "9810000002",
		PasswordHash: "hash",
		Name:         "Test Owner",
		Role:         model.RoleRestaurantOwner,
	}
	testDB.Create(owner)

	restaurant := &model.Restaurant{
		Name:        "Spice Garden",
		Description: "North Indian classics",
		Category:    model.CategoryOrderOnline,
		CoverImage:  "https://cdn.example.com/spice.jpg",
		Street:      "12 MG Road",
		Area:        "Indiranagar",
		City:        "Bengaluru",
		State:       "Karnataka",
		Pincode:     "560038",
		Phone:       "9876543210",
		CostForTwo:  600,
		OwnerID:     owner.ID,
		IsActive:    true,
	}
	testDB.Create(restaurant)

	return orderService, testDB, user, owner, restaurant
}

func deliveryOrderInput(restaurantID uint, items []OrderItemInput) CreateOrderInput {
	return CreateOrderInput{
		RestaurantID:  restaurantID,
		Items:         items,
		AddressLine1:  "42 Residency Road",
		City:          "Bengaluru",
		State:         "Karnataka",
		Pincode:       "560025",
		PaymentMethod: model.PaymentMethodCash,
	}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	orderService, _, user, _, restaurant := setupOrderServiceTest(t)

	before := time.Now()
	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Butter Chicken", Price: 80, Quantity: 2},
		{Name: "Garlic Naan", Price: 20, Quantity: 2},
	}))
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, user.ID, order.UserID)

	// subtotal 200, tax 5% = 10, delivery 40 at the 200 boundary
	assert.Equal(t, float64(200), order.Subtotal)
	assert.Equal(t, float64(10), order.Tax)
	assert.Equal(t, float64(40), order.DeliveryCharge)
	assert.Equal(t, float64(250), order.Total)

	assert.Equal(t, model.OrderStatusPlaced, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	assert.Len(t, order.Items, 2)

	require.NotNil(t, order.EstimatedDeliveryTime)
	eta := order.EstimatedDeliveryTime.Sub(before)
	assert.GreaterOrEqual(t, eta, 30*time.Minute)
	assert.LessOrEqual(t, eta, 46*time.Minute)

	require.Len(t, order.StatusHistory, 1)
	assert.Equal(t, model.OrderStatusPlaced, order.StatusHistory[0].Status)
	assert.Equal(t, "Order placed", order.StatusHistory[0].Note)
}

func TestOrderService_CreateOrder_FreeDeliveryAboveThreshold(t *testing.T) {
	orderService, _, user, _, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Family Feast", Price: 200.01, Quantity: 1},
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(0), order.DeliveryCharge)
	assert.Equal(t, 210.01, order.Total) // 200.01 + 10.00 tax
}

func TestOrderService_CreateOrder_EmptyItems(t *testing.T) {
	orderService, _, user, _, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, nil))
	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Nil(t, order)
}

func TestOrderService_CreateOrder_InvalidPaymentMethod(t *testing.T) {
	orderService, _, user, _, restaurant := setupOrderServiceTest(t)

	input := deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	})
	input.PaymentMethod = "bitcoin"

	order, err := orderService.CreateOrder(user.ID, input)
	assert.ErrorIs(t, err, ErrInvalidPayment)
	assert.Nil(t, order)
}

func TestOrderService_CreateOrder_RestaurantNotFound(t *testing.T) {
	orderService, _, user, _, _ := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(99999, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	assert.Nil(t, order)
}

func TestOrderService_GetOrderByID_Authorization(t *testing.T) {
	orderService, testDB, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)

	// The buyer can read their own order.
	got, err := orderService.GetOrderByID(user.ID, model.RoleUser, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// The restaurant owner can read orders against their restaurant.
	got, err = orderService.GetOrderByID(owner.ID, model.RoleRestaurantOwner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// An unrelated user cannot.
	stranger := &model.User{Email: "x@example.com", Phone: "9810000003", PasswordHash: "hash", Name: "X", Role: model.RoleUser}
	testDB.Create(stranger)
	_, err = orderService.GetOrderByID(stranger.ID, model.RoleUser, order.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_CanTrackOrder(t *testing.T) {
	orderService, testDB, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Masala Dosa", Price: 90, Quantity: 1},
	}))
	require.NoError(t, err)

	assert.NoError(t, orderService.CanTrackOrder(user.ID, model.RoleUser, order.ID))
	assert.NoError(t, orderService.CanTrackOrder(owner.ID, model.RoleRestaurantOwner, order.ID))

	stranger := &model.User{Email: "y@example.com", Phone: "9810000004", PasswordHash: "hash", Name: "Y", Role: model.RoleUser}
	testDB.Create(stranger)
	assert.ErrorIs(t, orderService.CanTrackOrder(stranger.ID, model.RoleUser, order.ID), ErrForbidden)
	assert.ErrorIs(t, orderService.CanTrackOrder(user.ID, model.RoleUser, order.ID+100), ErrOrderNotFound)
}

func TestOrderService_GetAllOrders_AdminOnly(t *testing.T) {
	orderService, _, user, owner, restaurant := setupOrderServiceTest(t)

	first, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)
	_, err = orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Jeera Rice", Price: 90, Quantity: 1},
	}))
	require.NoError(t, err)

	orders, err := orderService.GetAllOrders(model.RoleAdmin, "")
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = orderService.SetStatus(owner.ID, model.RoleRestaurantOwner, first.ID, model.OrderStatusConfirmed, "")
	require.NoError(t, err)

	confirmed, err := orderService.GetAllOrders(model.RoleAdmin, "confirmed")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, first.ID, confirmed[0].ID)

	_, err = orderService.GetAllOrders(model.RoleRestaurantOwner, "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = orderService.GetAllOrders(model.RoleUser, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_SetStatus_OwnerProgressesOrder(t *testing.T) {
	orderService, _, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)

	updated, err := orderService.SetStatus(owner.ID, model.RoleRestaurantOwner, order.ID, model.OrderStatusConfirmed, "Kitchen accepted")
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusConfirmed, updated.Status)

	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, model.OrderStatusConfirmed, updated.StatusHistory[1].Status)
	assert.Equal(t, "Kitchen accepted", updated.StatusHistory[1].Note)
}

func TestOrderService_SetStatus_DeliveredStampsActualTime(t *testing.T) {
	orderService, _, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)
	assert.Nil(t, order.ActualDeliveryTime)

	updated, err := orderService.SetStatus(owner.ID, model.RoleRestaurantOwner, order.ID, model.OrderStatusDelivered, "")
	require.NoError(t, err)
	require.NotNil(t, updated.ActualDeliveryTime)
	assert.WithinDuration(t, time.Now(), *updated.ActualDeliveryTime, 5*time.Second)
}

func TestOrderService_SetStatus_InvalidStatus(t *testing.T) {
	orderService, _, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)

	_, err = orderService.SetStatus(owner.ID, model.RoleRestaurantOwner, order.ID, "teleported", "")
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderService_SetStatus_ForbiddenLeavesOrderUntouched(t *testing.T) {
	orderService, testDB, user, _, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)

	// A plain user, even the buyer, cannot move the status forward.
	_, err = orderService.SetStatus(user.ID, model.RoleUser, order.ID, model.OrderStatusConfirmed, "")
	assert.ErrorIs(t, err, ErrForbidden)

	var reloaded model.Order
	require.NoError(t, testDB.Preload("StatusHistory").First(&reloaded, order.ID).Error)
	assert.Equal(t, model.OrderStatusPlaced, reloaded.Status)
	assert.Len(t, reloaded.StatusHistory, 1)
}

func TestOrderService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  model.OrderStatus
		wantErr error
	}{
		{"placed is cancellable", model.OrderStatusPlaced, nil},
		{"confirmed is cancellable", model.OrderStatusConfirmed, nil},
		{"picked_up is cancellable", model.OrderStatusPickedUp, nil},
		{"preparing is too late", model.OrderStatusPreparing, ErrOrderNotCancellable},
		{"ready is too late", model.OrderStatusReady, ErrOrderNotCancellable},
		{"out_for_delivery is too late", model.OrderStatusOutForDelivery, ErrOrderNotCancellable},
		{"delivered is too late", model.OrderStatusDelivered, ErrOrderNotCancellable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orderService, testDB, user, _, restaurant := setupOrderServiceTest(t)

			order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
				{Name: "Dal Fry", Price: 50, Quantity: 1},
			}))
			require.NoError(t, err)
			require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", order.ID).
				Update("status", tt.status).Error)

			cancelled, err := orderService.Cancel(user.ID, order.ID, "changed my mind")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
			assert.Equal(t, "changed my mind", cancelled.CancellationReason)
		})
	}
}

func TestOrderService_Cancel_RefundsCompletedPayment(t *testing.T) {
	orderService, testDB, user, _, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)
	require.NoError(t, testDB.Model(&model.Order{}).Where("id = ?", order.ID).
		Update("payment_status", model.PaymentStatusCompleted).Error)

	cancelled, err := orderService.Cancel(user.ID, order.ID, "wrong address")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, cancelled.PaymentStatus)
}

func TestOrderService_Cancel_OnlyOwnOrder(t *testing.T) {
	orderService, testDB, user, _, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Dal Fry", Price: 50, Quantity: 1},
	}))
	require.NoError(t, err)

	stranger := &model.User{Email: "x@example.com", Phone: "9810000003", PasswordHash: "hash", Name: "X", Role: model.RoleUser}
	testDB.Create(stranger)

	_, err = orderService.Cancel(stranger.ID, order.ID, "not mine")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_DeliveryLifecycle(t *testing.T) {
	orderService, _, user, owner, restaurant := setupOrderServiceTest(t)

	order, err := orderService.CreateOrder(user.ID, deliveryOrderInput(restaurant.ID, []OrderItemInput{
		{Name: "Paneer Tikka", Price: 120, Quantity: 1},
		{Name: "Roti", Price: 15, Quantity: 4},
	}))
	require.NoError(t, err)

	progression := []model.OrderStatus{
		model.OrderStatusConfirmed,
		model.OrderStatusPreparing,
		model.OrderStatusReady,
		model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered,
	}
	for _, status := range progression {
		order, err = orderService.SetStatus(owner.ID, model.RoleRestaurantOwner, order.ID, status, "")
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	// History holds the full trail in order, starting from placement.
	require.Len(t, order.StatusHistory, len(progression)+1)
	assert.Equal(t, model.OrderStatusPlaced, order.StatusHistory[0].Status)
	for i, status := range progression {
		assert.Equal(t, status, order.StatusHistory[i+1].Status)
	}

	// Delivered orders can no longer be cancelled.
	_, err = orderService.Cancel(user.ID, order.ID, "too late")
	assert.ErrorIs(t, err, ErrOrderNotCancellable)
}
