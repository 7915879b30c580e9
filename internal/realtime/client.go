// Package realtime owns the upstream chat connection of one browser session.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/vehicle-gateway/internal/config"
)

const writeWait = 10 * time.Second

var (
	ErrNotConnected = errors.New("realtime connection is not established")
	ErrClosed       = errors.New("realtime client is closed")
)

type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusReconnecting Status = "reconnecting"
	StatusFailed       Status = "failed"
)

// Frame is the wire unit in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type Handler func(data json.RawMessage)

type StatusListener func(Status)

type Options struct {
	URL               string
	Token             string
	ReconnectAttempts int
	ReconnectDelay    time.Duration
	HandshakeTimeout  time.Duration
}

func OptionsFromConfig(cfg config.RealtimeConfig, token string) Options {
	return Options{
		URL:               cfg.UpstreamURL,
		Token:             token,
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectDelay:    cfg.Backoff(),
		HandshakeTimeout:  time.Duration(cfg.HandshakeTimeout) * time.Second,
	}
}

// Client is a thin emit/on wrapper around one upstream WebSocket. It adds
// bounded reconnection with a fixed delay and nothing else: frames are not
// buffered, reordered, deduplicated or replayed.
type Client struct {
	opts   Options
	dialer *websocket.Dialer

	mu        sync.RWMutex
	conn      *websocket.Conn
	status    Status
	handlers  map[string][]Handler
	catchAll  []func(Frame)
	listeners []StatusListener

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(opts Options) *Client {
	return &Client{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: opts.HandshakeTimeout,
		},
		status:   StatusDisconnected,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}
}

func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// OnStatus registers a listener for status transitions. Listeners run on the
// goroutine that changed the status and must not block.
func (c *Client) OnStatus(listener StatusListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, listener)
	c.mu.Unlock()
}

func (c *Client) On(event string, handler Handler) {
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], handler)
	c.mu.Unlock()
}

// OnAny receives every inbound frame after the event handlers ran.
func (c *Client) OnAny(fn func(Frame)) {
	c.mu.Lock()
	c.catchAll = append(c.catchAll, fn)
	c.mu.Unlock()
}

// Connect dials the upstream server and starts the read loop. Later drops
// are handled by the reconnect loop; Connect itself does not retry.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.setStatus(StatusConnecting)
	conn, err := c.dial(ctx)
	if err != nil {
		c.setStatus(StatusFailed)
		return err
	}
	c.attach(conn)
	go c.run(conn)
	return nil
}

// Emit sends one frame. It fails fast while the connection is down.
func (c *Client) Emit(event string, data interface{}) error {
	frame := Frame{Event: event}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode %s payload: %w", event, err)
		}
		frame.Data = raw
	}
	return c.EmitFrame(frame)
}

func (c *Client) EmitFrame(frame Frame) error {
	c.mu.RLock()
	conn := c.conn
	status := c.status
	c.mu.RUnlock()
	if conn == nil || status != StatusConnected {
		return ErrNotConnected
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}

// Close tears the connection down and stops any reconnect in progress.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()

		if conn != nil {
			c.writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			c.writeMu.Unlock()
			err = conn.Close()
		}
		c.setStatus(StatusDisconnected)
	})
	return err
}

func (c *Client) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	target, err := url.Parse(c.opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid realtime url: %w", err)
	}
	header := http.Header{}
	if c.opts.Token != "" {
		query := target.Query()
		query.Set("token", c.opts.Token)
		target.RawQuery = query.Encode()
		header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, target.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("realtime handshake failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}
	return conn, nil
}

func (c *Client) attach(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setStatus(StatusConnected)
}

func (c *Client) run(conn *websocket.Conn) {
	for {
		err := c.readLoop(conn)
		if c.closed() {
			return
		}
		logrus.WithError(err).Warn("Realtime connection lost")

		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
		}
		c.mu.Unlock()

		next, ok := c.reconnect()
		if !ok {
			return
		}
		conn = next
	}
}

func (c *Client) reconnect() (*websocket.Conn, bool) {
	for attempt := 1; attempt <= c.opts.ReconnectAttempts; attempt++ {
		c.setStatus(StatusReconnecting)

		timer := time.NewTimer(c.opts.ReconnectDelay)
		select {
		case <-c.done:
			timer.Stop()
			return nil, false
		case <-timer.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.handshakeTimeout())
		conn, err := c.dial(ctx)
		cancel()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"max":     c.opts.ReconnectAttempts,
			}).WithError(err).Warn("Realtime reconnect failed")
			continue
		}

		if c.closed() {
			conn.Close()
			return nil, false
		}
		c.attach(conn)
		return conn, true
	}

	c.setStatus(StatusFailed)
	return nil, false
}

func (c *Client) handshakeTimeout() time.Duration {
	if c.opts.HandshakeTimeout > 0 {
		return c.opts.HandshakeTimeout
	}
	return 10 * time.Second
}

func (c *Client) readLoop(conn *websocket.Conn) error {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			logrus.WithError(err).Debug("Dropping malformed realtime frame")
			continue
		}
		c.dispatch(frame)
	}
}

func (c *Client) dispatch(frame Frame) {
	c.mu.RLock()
	handlers := append([]Handler(nil), c.handlers[frame.Event]...)
	catchAll := append(([]func(Frame))(nil), c.catchAll...)
	c.mu.RUnlock()

	for _, handler := range handlers {
		handler(frame.Data)
	}
	for _, fn := range catchAll {
		fn(frame)
	}
}

func (c *Client) setStatus(status Status) {
	c.mu.Lock()
	if c.status == status {
		c.mu.Unlock()
		return
	}
	previous := c.status
	c.status = status
	listeners := append([]StatusListener(nil), c.listeners...)
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"from": previous,
		"to":   status,
	}).Debug("Realtime status changed")

	for _, listener := range listeners {
		listener(status)
	}
}
