package repository

import (
	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByUserID(userID uint) ([]model.Order, error)
	FindByRestaurantID(restaurantID uint, status string) ([]model.Order, error)
	FindAll(status string) ([]model.Order, error)
	Update(order *model.Order) error
	AppendStatusEvent(event *model.OrderStatusEvent) error
	MarkReviewed(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_status_events.created_at ASC")
		}).
		Preload("User").
		Preload("Restaurant")
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":       order.UserID,
		"restaurant_id": order.RestaurantID,
		"total":         order.Total,
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":       order.UserID,
			"restaurant_id": order.RestaurantID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
	})
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Orders found by user ID in database", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindByRestaurantID(restaurantID uint, status string) ([]model.Order, error) {
	query := r.preloadOrder().Where("restaurant_id = ?", restaurantID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by restaurant ID in database", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"status":        status,
		})
		return nil, err
	}

	logger.Debug("Orders found by restaurant ID in database", map[string]interface{}{
		"restaurant_id": restaurantID,
		"count":         len(orders),
	})
	return orders, nil
}

func (r *orderRepository) FindAll(status string) ([]model.Order, error) {
	query := r.preloadOrder()
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []model.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		logger.Error("Failed to find all orders in database", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}

	logger.Debug("All orders found in database", map[string]interface{}{
		"count": len(orders),
	})
	return orders, nil
}

func (r *orderRepository) Update(order *model.Order) error {
	logger.Debug("Updating order in database", map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})

	if err := r.db.Save(order).Error; err != nil {
		logger.Error("Failed to update order in database", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return err
	}
	return nil
}

// AppendStatusEvent writes one history entry. Events are never updated or
// deleted afterwards.
func (r *orderRepository) AppendStatusEvent(event *model.OrderStatusEvent) error {
	if err := r.db.Create(event).Error; err != nil {
		logger.Error("Failed to append order status event in database", err, map[string]interface{}{
			"order_id": event.OrderID,
			"status":   event.Status,
		})
		return err
	}
	return nil
}

func (r *orderRepository) MarkReviewed(id uint) error {
	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("is_reviewed", true).Error; err != nil {
		logger.Error("Failed to mark order reviewed in database", err, map[string]interface{}{
			"order_id": id,
		})
		return err
	}
	return nil
}
