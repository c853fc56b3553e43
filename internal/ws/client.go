package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/schoolsupply/orderdesk/internal/auth"
	"github.com/schoolsupply/orderdesk/internal/enum"
	"go.uber.org/zap"
)

// Feed connection timings. Pings go out well inside the pong window so an
// idle admin tab is never mistaken for a dead one.
const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingEvery    = pongTimeout * 9 / 10

	// Admins never send payloads; anything larger than a control frame is
	// a misbehaving client.
	maxInbound = 512

	sendQueue = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers connect from the admin app's origin; the JWT in the query
	// string is what authorizes the connection.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one admin browser tab subscribed to the order feed.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	username string
	send     chan []byte
}

// ReadPump drains the connection so pongs and close frames are processed.
// When the admin goes away the client leaves the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInbound)
	extend := func() { c.conn.SetReadDeadline(time.Now().Add(pongTimeout)) }
	extend()
	c.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		_, _, err := c.conn.ReadMessage()
		if err == nil {
			continue
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			c.hub.log.Warn("order feed read failed", zap.String("admin", c.username), zap.Error(err))
		}
		return
	}
}

// WritePump forwards queued events to the admin and keeps the connection
// alive with pings. Events that piled up while a frame was being written are
// batched into the same frame, one JSON document per line.
func (c *Client) WritePump() {
	ping := time.NewTicker(pingEvery)
	defer func() {
		ping.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !open {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.writeBatch(msg); err != nil {
				return
			}

		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeBatch(first []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(first)
	for pending := len(c.send); pending > 0; pending-- {
		w.Write([]byte{'\n'})
		w.Write(<-c.send)
	}
	return w.Close()
}

// ServeWS subscribes an admin to order events.
//
//	GET /ws/admin/orders?token=<access token>
//
// Browsers cannot set headers on a websocket handshake, so the access token
// travels in the query string.
func ServeWS(hub *Hub, jwtSecret string, w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token query parameter required", http.StatusUnauthorized)
		return
	}
	claims, err := auth.ValidateToken(jwtSecret, token)
	if err != nil {
		http.Error(w, "token rejected", http.StatusUnauthorized)
		return
	}
	if claims.Role != enum.UserRoleAdmin {
		http.Error(w, "order feed is for admins only", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Warn("order feed upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		username: claims.Username,
		send:     make(chan []byte, sendQueue),
	}
	if !hub.join(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
