package notify

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the browser frontends connect cross-origin
	},
}

// client maintains one websocket connection subscribed to a channel.
type client struct {
	conn    *websocket.Conn
	send    chan []byte
	channel string
	hub     *Hub
}

// ServeWS upgrades the request and subscribes the connection to the
// named channel until it closes.
func (h *Hub) ServeWS(c *gin.Context, channel string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("notify: failed to upgrade connection: %v", err)
		return
	}

	cl := &client{
		conn:    conn,
		send:    make(chan []byte, 256),
		channel: channel,
		hub:     h,
	}
	h.register(channel, cl)

	go cl.writePump()
	go cl.readPump()
}

// readPump discards inbound frames and tears the client down when the
// connection drops.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c.channel, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("notify: websocket error: %v", err)
			}
			break
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
