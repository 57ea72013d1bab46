package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/forkspot/forkspot-backend/internal/app/model"
	"github.com/forkspot/forkspot-backend/pkg/logger"
)

// OrderAccess decides whether a user may receive updates for an order.
// A nil error grants the subscription.
type OrderAccess interface {
	CanTrackOrder(userID uint, role model.UserRole, orderID uint) error
}

// Client is one subscribed connection. A user may hold several at once
// (multiple tabs or devices).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Role   model.UserRole
	Send   chan []byte

	// Orders this connection subscribed to.
	Orders map[uint]bool
	mu     sync.RWMutex
}

// OrderUpdate is pushed to every subscriber of the order.
type OrderUpdate struct {
	Type      string            `json:"type"` // always "order_update"
	OrderID   uint              `json:"order_id"`
	Status    model.OrderStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Hub tracks live order-status subscribers.
type Hub struct {
	clients map[uint][]*Client // UserID -> connections
	orders  map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *OrderUpdate

	access OrderAccess

	mu sync.RWMutex
}

func NewHub(access OrderAccess) *Hub {
	return &Hub{
		access:     access,
		clients:    make(map[uint][]*Client),
		orders:     make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *OrderUpdate, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Order tracking client connected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)

					client.mu.RLock()
					for orderID := range client.Orders {
						if users, ok := h.orders[orderID]; ok {
							delete(users, client.UserID)
							if len(users) == 0 {
								delete(h.orders, orderID)
							}
						}
					}
					client.mu.RUnlock()
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Order tracking client disconnected", map[string]interface{}{
				"user_id": client.UserID,
			})

		case update := <-h.broadcast:
			h.deliver(update)
		}
	}
}

// Subscribe registers the client for updates on one order.
func (h *Hub) Subscribe(client *Client, orderID uint) {
	client.mu.Lock()
	client.Orders[orderID] = true
	client.mu.Unlock()

	h.mu.Lock()
	if h.orders[orderID] == nil {
		h.orders[orderID] = make(map[uint]bool)
	}
	h.orders[orderID][client.UserID] = true
	h.mu.Unlock()

	logger.Debug("Client subscribed to order", map[string]interface{}{
		"user_id":  client.UserID,
		"order_id": orderID,
	})
}

// NotifyOrderUpdate pushes a status change to every subscriber of the
// order. Non-blocking: if the hub's queue is full the update is dropped,
// clients recover the state on their next fetch.
func (h *Hub) NotifyOrderUpdate(orderID uint, status model.OrderStatus, note string) {
	update := &OrderUpdate{
		Type:      "order_update",
		OrderID:   orderID,
		Status:    status,
		Note:      note,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- update:
	default:
		logger.Warn("Order update dropped: broadcast queue full", map[string]interface{}{
			"order_id": orderID,
		})
	}
}

func (h *Hub) deliver(update *OrderUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		logger.Error("Failed to marshal order update", err, map[string]interface{}{
			"order_id": update.OrderID,
		})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	subscribers, ok := h.orders[update.OrderID]
	if !ok {
		return
	}

	for userID := range subscribers {
		for _, client := range h.clients[userID] {
			select {
			case client.Send <- payload:
			default:
				// Slow consumer; skip rather than block the hub.
			}
		}
	}
}

// Register queues a new client for registration.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// HandleClientMessage processes a subscription request from the client.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	var request struct {
		Type    string `json:"type"` // "subscribe"
		OrderID uint   `json:"order_id"`
	}
	if err := json.Unmarshal(message, &request); err != nil {
		logger.Debug("Ignoring malformed websocket message", map[string]interface{}{
			"user_id": client.UserID,
		})
		return
	}

	if request.Type != "subscribe" || request.OrderID == 0 {
		return
	}

	if err := h.access.CanTrackOrder(client.UserID, client.Role, request.OrderID); err != nil {
		logger.Warn("Rejected order subscription", map[string]interface{}{
			"user_id":  client.UserID,
			"order_id": request.OrderID,
		})
		if payload, err := json.Marshal(map[string]interface{}{
			"type":     "error",
			"order_id": request.OrderID,
			"message":  "You cannot track this order",
		}); err == nil {
			select {
			case client.Send <- payload:
			default:
			}
		}
		return
	}

	h.Subscribe(client, request.OrderID)
}
