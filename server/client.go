package server

import (
	stlog "log/slog"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/irishsmurf/go-broadside/game"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 512                 // Commands are single short tokens.
)

var validCommands = func() map[string]bool {
	m := make(map[string]bool, len(game.Commands))
	for _, c := range game.Commands {
		m[c] = true
	}
	return m
}()

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	id     string
	logger *stlog.Logger
}

// readPump pumps commands from the websocket connection to the hub's
// command queue and acknowledges each one.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		c.logger.Info("Client readPump finished")
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error", "error", err)
			}
			break
		}
		receivedBytesCounter.Add(float64(len(message)))

		command := strings.TrimSpace(string(message))
		if validCommands[command] {
			processedClientMessagesCounter.WithLabelValues("true").Inc()
			c.hub.commands.Push(command)
		} else {
			processedClientMessagesCounter.WithLabelValues("false").Inc()
			c.logger.Debug("Ignoring unknown command", "command", command)
		}
		c.queue([]byte("Command sent: "+command), msgTypeAck)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.logger.Info("Client writePump finished")
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("WebSocket write error", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error("WebSocket ping error", "error", err)
				return
			}

		case <-c.hub.done:
			return
		}
	}
}

// queue hands data to the writePump without blocking. The caller must
// make sure send has not been closed.
func (c *Client) queue(data []byte, label string) {
	select {
	case c.send <- data:
		sentServerMessagesCounter.WithLabelValues(label).Inc()
		sentBytesCounter.Add(float64(len(data)))
	default:
		droppedMessagesCounter.Inc()
		c.logger.Warn("Client send buffer full, dropping message", "type", label)
	}
}
