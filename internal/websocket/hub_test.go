package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalbites/vitalbites-backend/internal/app/model"
)

func newTestClient(h *Hub, userID uint, isAdmin bool) *Client {
	return &Client{
		Hub:     h,
		UserID:  userID,
		IsAdmin: isAdmin,
		Send:    make(chan []byte, 8),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub()
	go h.Run()

	client := newTestClient(h, 7, false)
	h.Register(client)

	assert.Eventually(t, func() bool {
		return h.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)

	h.Unregister(client)

	assert.Eventually(t, func() bool {
		return !h.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)

	// Send was closed exactly once on unregister
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_UnregisterTwice(t *testing.T) {
	h := NewHub()
	go h.Run()

	first := newTestClient(h, 7, false)
	second := newTestClient(h, 7, false)
	h.Register(first)
	h.Register(second)

	assert.Eventually(t, func() bool {
		return h.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)

	// A session can be dropped from two paths at once, the read pump
	// teardown and a full-buffer disconnect. The second unregister must
	// be a no-op, not a close of an already closed channel.
	h.Unregister(first)
	h.Unregister(first)

	assert.Eventually(t, func() bool {
		return h.IsUserOnline(7)
	}, time.Second, 10*time.Millisecond)

	order := &model.Order{UserID: 7, OrderNumber: "ORD-20260831-120000-1234", Status: model.OrderStatusPreparing}
	h.PublishOrderUpdate(order)

	select {
	case raw := <-second.Send:
		var msg OrderUpdateMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, "order_update", msg.Type)
		assert.Equal(t, model.OrderStatusPreparing, msg.Status)
	case <-time.After(time.Second):
		t.Fatal("surviving session did not receive the order update")
	}
}

func TestHub_PublishOrderUpdate_Routing(t *testing.T) {
	h := NewHub()
	go h.Run()

	owner := newTestClient(h, 3, false)
	stranger := newTestClient(h, 4, false)
	admin := newTestClient(h, 5, true)
	h.Register(owner)
	h.Register(stranger)
	h.Register(admin)

	assert.Eventually(t, func() bool {
		return h.IsUserOnline(3) && h.IsUserOnline(4) && h.IsUserOnline(5)
	}, time.Second, 10*time.Millisecond)

	h.PublishOrderUpdate(&model.Order{UserID: 3, OrderNumber: "ORD-20260831-120000-5678", Status: model.OrderStatusConfirmed})

	for _, c := range []*Client{owner, admin} {
		select {
		case raw := <-c.Send:
			var msg OrderUpdateMessage
			require.NoError(t, json.Unmarshal(raw, &msg))
			assert.Equal(t, "ORD-20260831-120000-5678", msg.OrderNumber)
		case <-time.After(time.Second):
			t.Fatal("expected recipient did not receive the order update")
		}
	}

	select {
	case <-stranger.Send:
		t.Fatal("another customer received someone else's order update")
	case <-time.After(100 * time.Millisecond):
	}
}
