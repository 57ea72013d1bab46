package service

import (
	"errors"
	"math"
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/repository"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"github.com/forkspot/forkspot-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
)

const (
	taxRate               = 0.05
	flatDeliveryCharge    = 40.0
	freeDeliveryThreshold = 200.0
)

// Orders in these states are past the point of cancellation.
var nonCancellableStatuses = map[model.OrderStatus]bool{
	model.OrderStatusPreparing:      true,
	model.OrderStatusReady:          true,
	model.OrderStatusOutForDelivery: true,
	model.OrderStatusDelivered:      true,
}

type OrderItemInput struct {
	Name     string
	Price    float64
	Quantity int
	Image    string
}

type CreateOrderInput struct {
	RestaurantID        uint
	Items               []OrderItemInput
	AddressLine1        string
	AddressLine2        string
	City                string
	State               string
	Pincode             string
	Landmark            string
	PaymentMethod       model.PaymentMethod
	SpecialInstructions string
}

type OrderService interface {
	CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error)
	GetUserOrders(userID uint) ([]model.Order, error)
	GetOrderByID(actorID uint, role model.UserRole, orderID uint) (*model.Order, error)
	GetRestaurantOrders(actorID uint, role model.UserRole, restaurantID uint, status string) ([]model.Order, error)
	GetAllOrders(role model.UserRole, status string) ([]model.Order, error)
	SetStatus(actorID uint, role model.UserRole, orderID uint, status model.OrderStatus, note string) (*model.Order, error)
	Cancel(userID, orderID uint, reason string) (*model.Order, error)
	CanTrackOrder(userID uint, role model.UserRole, orderID uint) error
}

type orderService struct {
	orderRepo      repository.OrderRepository
	restaurantRepo repository.RestaurantRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	restaurantRepo repository.RestaurantRepository,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *orderService) CreateOrder(userID uint, input CreateOrderInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":       userID,
		"restaurant_id": input.RestaurantID,
		"item_count":    len(input.Items),
	})

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if !model.ValidPaymentMethod(input.PaymentMethod) {
		return nil, ErrInvalidPayment
	}

	if _, err := s.restaurantRepo.FindByID(input.RestaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	var subtotal float64
	items := make([]model.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 || item.Price < 0 {
			return nil, ErrEmptyOrder
		}
		subtotal += item.Price * float64(item.Quantity)
		items = append(items, model.OrderItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}

	tax := roundMoney(subtotal * taxRate)
	deliveryCharge := flatDeliveryCharge
	if subtotal > freeDeliveryThreshold {
		deliveryCharge = 0
	}
	total := roundMoney(subtotal + tax + deliveryCharge)

	eta := time.Now().Add(time.Duration(util.GenerateRandomNumber(30, 45)) * time.Minute)

	order := &model.Order{
		UserID:                userID,
		RestaurantID:          input.RestaurantID,
		Subtotal:              subtotal,
		Tax:                   tax,
		DeliveryCharge:        deliveryCharge,
		Total:                 total,
		AddressLine1:          input.AddressLine1,
		AddressLine2:          input.AddressLine2,
		City:                  input.City,
		State:                 input.State,
		Pincode:               input.Pincode,
		Landmark:              input.Landmark,
		PaymentMethod:         input.PaymentMethod,
		PaymentStatus:         model.PaymentStatusPending,
		Status:                model.OrderStatusPlaced,
		SpecialInstructions:   input.SpecialInstructions,
		EstimatedDeliveryTime: &eta,
		Items:                 items,
		StatusHistory: []model.OrderStatusEvent{
			{Status: model.OrderStatusPlaced, Note: "Order placed"},
		},
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
		"subtotal": subtotal,
		"total":    total,
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint) ([]model.Order, error) {
	return s.orderRepo.FindByUserID(userID)
}

func (s *orderService) GetOrderByID(actorID uint, role model.UserRole, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isSelf(actorID, order.UserID) && !canManageRestaurant(actorID, role, order.Restaurant.OwnerID) {
		return nil, ErrForbidden
	}
	return order, nil
}

// CanTrackOrder allows live status updates only to the order's customer
// or whoever manages the restaurant that received it.
func (s *orderService) CanTrackOrder(userID uint, role model.UserRole, orderID uint) error {
	_, err := s.GetOrderByID(userID, role, orderID)
	return err
}

func (s *orderService) GetRestaurantOrders(actorID uint, role model.UserRole, restaurantID uint, status string) ([]model.Order, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, restaurant.OwnerID) {
		return nil, ErrForbidden
	}
	return s.orderRepo.FindByRestaurantID(restaurantID, status)
}

func (s *orderService) GetAllOrders(role model.UserRole, status string) ([]model.Order, error) {
	if role != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.orderRepo.FindAll(status)
}

// SetStatus applies a status change on behalf of the restaurant. Any known
// status value may be set regardless of the current one; only the enum is
// validated. Whether arbitrary jumps should be rejected is still an open
// product decision.
func (s *orderService) SetStatus(actorID uint, role model.UserRole, orderID uint, status model.OrderStatus, note string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !canManageRestaurant(actorID, role, order.Restaurant.OwnerID) {
		logger.Warn("Order status change forbidden", map[string]interface{}{
			"order_id": orderID,
			"actor_id": actorID,
			"status":   status,
		})
		return nil, ErrForbidden
	}

	order.Status = status
	if status == model.OrderStatusDelivered {
		now := time.Now()
		order.ActualDeliveryTime = &now
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	event := &model.OrderStatusEvent{
		OrderID: order.ID,
		Status:  status,
		Note:    note,
	}
	if err := s.orderRepo.AppendStatusEvent(event); err != nil {
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, *event)

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
		"actor_id": actorID,
	})
	return order, nil
}

func (s *orderService) Cancel(userID, orderID uint, reason string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !isSelf(userID, order.UserID) {
		return nil, ErrForbidden
	}

	if nonCancellableStatuses[order.Status] {
		logger.Warn("Order cancellation rejected", map[string]interface{}{
			"order_id": orderID,
			"status":   order.Status,
		})
		return nil, ErrOrderNotCancellable
	}

	order.Status = model.OrderStatusCancelled
	order.CancellationReason = reason
	// Refund is a status label only; no gateway interaction happens here.
	if order.PaymentStatus == model.PaymentStatusCompleted {
		order.PaymentStatus = model.PaymentStatusRefunded
	}

	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	event := &model.OrderStatusEvent{
		OrderID: order.ID,
		Status:  model.OrderStatusCancelled,
		Note:    reason,
	}
	if err := s.orderRepo.AppendStatusEvent(event); err != nil {
		return nil, err
	}
	order.StatusHistory = append(order.StatusHistory, *event)

	logger.Info("Order cancelled", map[string]interface{}{
		"order_id": orderID,
		"user_id":  userID,
	})
	return order, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
