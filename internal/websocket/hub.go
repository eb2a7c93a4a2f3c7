package websocket

import (
	"encoding/json"
	"sync"

	"github.com/vitalbites/vitalbites-backend/internal/app/model"
	"github.com/vitalbites/vitalbites-backend/pkg/logger"
)

// Client is one connected session of a user.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  uint
	IsAdmin bool
	Send    chan []byte
}

// Hub tracks connected clients and fans order updates out to them. An
// update reaches every session of the ordering user plus every
// connected admin.
type Hub struct {
	// Registered clients (UserID -> []*Client for multi device support)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *orderUpdate

	mu sync.RWMutex
}

type orderUpdate struct {
	OwnerID uint
	Message []byte
}

// OrderUpdateMessage is the wire format of an order status push.
type OrderUpdateMessage struct {
	Type        string            `json:"type"`
	OrderID     uint              `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      model.OrderStatus `json:"status"`
	Order       *model.Order      `json:"order"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *orderUpdate, 1024),
	}
}

// Run processes registrations and broadcasts. Call it once from main.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			// Unregister can arrive twice for the same session (read
			// pump teardown plus a full-buffer drop). Only close Send
			// for a client that was actually still registered.
			found := false
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						found = true
					} else {
						newList = append(newList, c)
					}
				}
				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			h.mu.Unlock()
			if found {
				close(client.Send)
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case update := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					if userID != update.OwnerID && !client.IsAdmin {
						continue
					}
					select {
					case client.Send <- update.Message:
					default:
						// Send buffer full - drop the session
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// PublishOrderUpdate pushes an order's new state to its owner and to
// every connected admin. Delivery is best effort.
func (h *Hub) PublishOrderUpdate(order *model.Order) {
	data, err := json.Marshal(OrderUpdateMessage{
		Type:        "order_update",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		Order:       order,
	})
	if err != nil {
		logger.Error("Failed to marshal order update", err, map[string]interface{}{
			"order_id": order.ID,
		})
		return
	}

	select {
	case h.broadcast <- &orderUpdate{OwnerID: order.UserID, Message: data}:
	default:
		logger.Warn("Broadcast channel full, order update dropped", map[string]interface{}{
			"order_id": order.ID,
		})
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether a user has at least one open session
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
