package controller

import (
	"net/http"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/internal/app/service"
	"github.com/forkspot/forkspot-backend/internal/errors"
	"github.com/forkspot/forkspot-backend/internal/middleware"
	"github.com/forkspot/forkspot-backend/internal/ws"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type OrderController struct {
	orderService service.OrderService
	hub          *ws.Hub
	upgrader     websocket.Upgrader
}

func NewOrderController(orderService service.OrderService, hub *ws.Hub) *OrderController {
	return &OrderController{
		orderService: orderService,
		hub:          hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is handled by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type OrderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required,gte=0"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
	Image    string  `json:"image"`
}

type CreateOrderRequest struct {
	RestaurantID        uint               `json:"restaurant_id" binding:"required"`
	Items               []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	AddressLine1        string             `json:"address_line1" binding:"required"`
	AddressLine2        string             `json:"address_line2"`
	City                string             `json:"city" binding:"required"`
	State               string             `json:"state" binding:"required"`
	Pincode             string             `json:"pincode" binding:"required,len=6,numeric"`
	Landmark            string             `json:"landmark"`
	PaymentMethod       string             `json:"payment_method" binding:"required,oneof=cash card upi wallet"`
	SpecialInstructions string             `json:"special_instructions"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
	Note   string            `json:"note"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Create places an order
// POST /api/v1/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid order data")
		return
	}

	items := make([]service.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.OrderItemInput{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Image:    item.Image,
		})
	}

	order, err := ctrl.orderService.CreateOrder(userID, service.CreateOrderInput{
		RestaurantID:        req.RestaurantID,
		Items:               items,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		State:               req.State,
		Pincode:             req.Pincode,
		Landmark:            req.Landmark,
		PaymentMethod:       model.PaymentMethod(req.PaymentMethod),
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrEmptyOrder:
			errors.BadRequest(c, errors.OrderEmptyItems, "Order must contain at least one item")
		case service.ErrInvalidPayment:
			errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid payment method")
		default:
			log.Error("Failed to create order", err, map[string]interface{}{
				"user_id": userID,
			})
			errors.InternalError(c, "Failed to create order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}

// MyOrders lists the caller's orders
// GET /api/v1/orders
func (ctrl *OrderController) MyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := ctrl.orderService.GetUserOrders(userID)
	if err != nil {
		errors.InternalError(c, "Failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetByID returns one order
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetByID(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(userID, role, orderID)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view this order")
		default:
			errors.InternalError(c, "Failed to fetch order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// RestaurantOrders lists a restaurant's orders for its owner
// GET /api/v1/restaurants/:id/orders
func (ctrl *OrderController) RestaurantOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	orders, err := ctrl.orderService.GetRestaurantOrders(userID, role, restaurantID, c.Query("status"))
	if err != nil {
		switch err {
		case service.ErrRestaurantNotFound:
			errors.NotFound(c, errors.RestaurantNotFound, "Restaurant not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view these orders")
		default:
			errors.InternalError(c, "Failed to fetch orders")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// AllOrders lists every order across restaurants (admin only)
// GET /api/v1/orders/all
func (ctrl *OrderController) AllOrders(c *gin.Context) {
	role, _ := middleware.GetUserRole(c)

	orders, err := ctrl.orderService.GetAllOrders(role, c.Query("status"))
	if err != nil {
		switch err {
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot view all orders")
		default:
			errors.InternalError(c, "Failed to fetch orders")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateStatus advances the order's status (owner or admin)
// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Status required")
		return
	}

	order, err := ctrl.orderService.SetStatus(userID, role, orderID, req.Status, req.Note)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		case service.ErrInvalidOrderStatus:
			errors.BadRequest(c, errors.OrderInvalidStatus, "Unknown order status")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot update this order")
		default:
			log.Error("Failed to update order status", err, map[string]interface{}{
				"order_id": orderID,
			})
			errors.InternalError(c, "Failed to update order status")
		}
		return
	}

	ctrl.hub.NotifyOrderUpdate(order.ID, order.Status, req.Note)

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// Cancel cancels the caller's own order
// PUT /api/v1/orders/:id/cancel
func (ctrl *OrderController) Cancel(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequest(c, errors.ValidationInvalidInput, "Cancellation reason required")
		return
	}

	order, err := ctrl.orderService.Cancel(userID, orderID, req.Reason)
	if err != nil {
		switch err {
		case service.ErrOrderNotFound:
			errors.NotFound(c, errors.OrderNotFound, "Order not found")
		case service.ErrForbidden:
			errors.Forbidden(c, "You cannot cancel this order")
		case service.ErrOrderNotCancellable:
			errors.Conflict(c, errors.OrderNotCancellable, "Order can no longer be cancelled")
		default:
			errors.InternalError(c, "Failed to cancel order")
		}
		return
	}

	ctrl.hub.NotifyOrderUpdate(order.ID, order.Status, req.Reason)

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}

// Track upgrades the connection for live order-status updates
// GET /api/v1/orders/track (websocket; token via query parameter)
func (ctrl *OrderController) Track(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		errors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Role:   role,
		Send:   make(chan []byte, 64),
		Orders: make(map[uint]bool),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
