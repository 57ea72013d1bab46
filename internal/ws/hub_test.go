package ws

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkspot/forkspot-backend/internal/app/model"
)

type allowListAccess struct {
	allowed map[uint]bool
}

func (a allowListAccess) CanTrackOrder(userID uint, role model.UserRole, orderID uint) error {
	if a.allowed[orderID] {
		return nil
	}
	return errors.New("forbidden")
}

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Role:   model.RoleUser,
		Send:   make(chan []byte, 4),
		Orders: make(map[uint]bool),
	}
}

func TestHub_HandleClientMessage_SubscribeAllowed(t *testing.T) {
	hub := NewHub(allowListAccess{allowed: map[uint]bool{42: true}})
	client := newTestClient(hub, 1)

	hub.HandleClientMessage(client, []byte(`{"type":"subscribe","order_id":42}`))

	client.mu.RLock()
	defer client.mu.RUnlock()
	assert.True(t, client.Orders[42])
}

func TestHub_HandleClientMessage_SubscribeDenied(t *testing.T) {
	hub := NewHub(allowListAccess{allowed: map[uint]bool{}})
	client := newTestClient(hub, 1)

	hub.HandleClientMessage(client, []byte(`{"type":"subscribe","order_id":42}`))

	client.mu.RLock()
	assert.Empty(t, client.Orders)
	client.mu.RUnlock()

	hub.mu.RLock()
	assert.Empty(t, hub.orders)
	hub.mu.RUnlock()

	// Denied subscriptions get an error frame back.
	require.Len(t, client.Send, 1)
	assert.Contains(t, string(<-client.Send), `"type":"error"`)
}

func TestHub_HandleClientMessage_IgnoresMalformed(t *testing.T) {
	hub := NewHub(allowListAccess{allowed: map[uint]bool{42: true}})
	client := newTestClient(hub, 1)

	hub.HandleClientMessage(client, []byte(`not json`))
	hub.HandleClientMessage(client, []byte(`{"type":"subscribe"}`))

	client.mu.RLock()
	defer client.mu.RUnlock()
	assert.Empty(t, client.Orders)
}
