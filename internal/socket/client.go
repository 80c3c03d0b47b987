// Package socket is the websocket side of the backend connection. It dials
// the configured origin with the user id as a query parameter, registers on
// connect, and fans incoming events out to subscribers. A dropped connection
// schedules one reconnect after a fixed delay; the reconnect itself retries
// a bounded number of times with exponential backoff.
package socket

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	reconnectDelay       = 3 * time.Second
	maxReconnectAttempts = 5
)

type Handler func(data json.RawMessage)

type Client struct {
	originURL string
	userID    string
	log       zerolog.Logger

	mu             sync.Mutex
	conn           *websocket.Conn
	handlers       map[string]map[int]Handler
	nextHandler    int
	closed         bool
	reconnectTimer *time.Timer
}

func NewClient(originURL, userID string, log zerolog.Logger) *Client {
	return &Client{
		originURL: strings.TrimSuffix(originURL, "/"),
		userID:    userID,
		log:       log,
		handlers:  make(map[string]map[int]Handler),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	endpoint, err := socketURL(c.originURL, c.userID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial socket: %w", err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return fmt.Errorf("socket client closed")
	}
	c.conn = conn
	c.mu.Unlock()

	if err := c.Emit(eventRegister, map[string]string{"userId": c.userID}); err != nil {
		c.log.Warn().Err(err).Msg("socket register failed")
	}

	go c.readLoop(conn)
	return nil
}

// On subscribes a handler for an event and returns its unsubscribe func.
func (c *Client) On(event string, handler Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	id := c.nextHandler
	c.nextHandler++
	c.handlers[event][id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[event], id)
	}
}

func (c *Client) Emit(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	encoded, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", event, err)
	}

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("socket not connected")
	}
	return conn.WriteMessage(websocket.TextMessage, encoded)
}

func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			if c.conn == conn {
				c.conn = nil
			}
			c.mu.Unlock()

			if !closed {
				c.log.Warn().Err(err).Msg("socket disconnected")
				c.scheduleReconnect()
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(payload, &envelope); err != nil {
			c.log.Warn().Err(err).Msg("malformed socket payload")
			continue
		}
		c.dispatch(envelope)
	}
}

func (c *Client) dispatch(envelope Envelope) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.handlers[envelope.Event]))
	for _, handler := range c.handlers[envelope.Event] {
		handlers = append(handlers, handler)
	}
	c.mu.Unlock()

	for _, handler := range handlers {
		handler(envelope.Data)
	}
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.reconnectTimer != nil {
		return
	}
	c.reconnectTimer = time.AfterFunc(reconnectDelay, func() {
		c.mu.Lock()
		c.reconnectTimer = nil
		closed := c.closed
		c.mu.Unlock()
		if closed {
			return
		}

		op := func() error {
			return c.Connect(context.Background())
		}
		policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxReconnectAttempts)
		if err := backoff.Retry(op, policy); err != nil {
			c.log.Error().Err(err).Msg("socket reconnect gave up")
		}
	})
}

func socketURL(origin, userID string) (string, error) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse socket origin: %w", err)
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported socket scheme %q", parsed.Scheme)
	}
	parsed.Path = "/socket"
	parsed.RawQuery = url.Values{"userId": {userID}}.Encode()
	return parsed.String(), nil
}
