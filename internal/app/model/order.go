package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"

	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"

	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodUPI    PaymentMethod = "upi"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// ValidOrderStatus reports whether s is a known status value. Transitions
// between valid statuses are deliberately not restricted; see the order
// service.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPlaced, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusPickedUp, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodWallet:
		return true
	}
	return false
}

type Order struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID" json:"restaurant,omitempty"`

	// Money fields are computed once at creation and never recomputed,
	// even if menu prices change later.
	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	Tax            float64 `gorm:"not null" json:"tax"`
	DeliveryCharge float64 `gorm:"default:0" json:"delivery_charge"`
	Discount       float64 `gorm:"default:0" json:"discount"`
	Total          float64 `gorm:"not null" json:"total"`

	// Delivery address snapshot
	AddressLine1 string `gorm:"not null" json:"address_line1"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `gorm:"not null" json:"city"`
	State        string `gorm:"not null" json:"state"`
	Pincode      string `gorm:"not null" json:"pincode"`
	Landmark     string `json:"landmark,omitempty"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`

	Status OrderStatus `gorm:"type:varchar(20);default:'placed';index" json:"status"`

	SpecialInstructions   string     `gorm:"type:text" json:"special_instructions,omitempty"`
	CancellationReason    string     `gorm:"type:text" json:"cancellation_reason,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actual_delivery_time,omitempty"`
	IsReviewed            bool       `gorm:"default:false" json:"is_reviewed"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	StatusHistory []OrderStatusEvent `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"status_history,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is an immutable snapshot of a menu item at order time.
type OrderItem struct {
	ID       uint    `gorm:"primarykey" json:"id"`
	OrderID  uint    `gorm:"not null;index" json:"order_id"`
	Name     string  `gorm:"not null" json:"name"`
	Price    float64 `gorm:"not null" json:"price"` // unit price at order time
	Quantity int     `gorm:"not null" json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusEvent is one entry of the append-only status audit log.
type OrderStatusEvent struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	Note      string      `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time   `json:"timestamp"`
}

func (OrderStatusEvent) TableName() string {
	return "order_status_events"
}
