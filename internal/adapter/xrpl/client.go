// Package xrpl implements the ledger gateway over the XRPL websocket
// request/response protocol.
package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrClosed reports that the connection was closed while a call was in flight.
var ErrClosed = errors.New("xrpl: connection closed")

// response is the generic envelope every command reply arrives in.
type response struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	Result       json.RawMessage `json:"result"`
	Error        string          `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

// CommandError is a non-success reply from the ledger node.
type CommandError struct {
	Command string
	Code    string
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("xrpl: command %s failed: %s", e.Command, e.Code)
	}
	return fmt.Sprintf("xrpl: command %s failed: %s (%s)", e.Command, e.Code, e.Message)
}

// Client is a long-lived websocket connection to a ledger node. Each request
// carries a unique id; a single reader goroutine correlates replies to
// in-flight calls, so overlapping lookups share the connection without
// corrupting each other's request/response pairing.
type Client struct {
	conn    *websocket.Conn
	log     zerolog.Logger
	limiter *rate.Limiter

	writeMu sync.Mutex

	mu      sync.Mutex
	pending map[string]chan response
	closed  bool

	done chan struct{}
}

// Dial connects to the given websocket URL and starts the reader loop.
func Dial(ctx context.Context, url string, log zerolog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("xrpl: dial %s: %w", url, err)
	}
	c := &Client{
		conn: conn,
		log:  log.With().Str("component", "xrpl").Logger(),
		// Generous ceiling; public cluster nodes start dropping
		// connections around 10 requests per second.
		limiter: rate.NewLimiter(rate.Limit(8), 16),
		pending: make(map[string]chan response),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	c.log.Info().Str("url", url).Msg("connected to ledger node")
	return c, nil
}

// Call submits one command and waits for its correlated reply. A transport
// failure or a non-success status is a hard failure; there are no retries.
func (c *Client) Call(ctx context.Context, command string, params any) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	frame := map[string]any{}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("xrpl: encode %s params: %w", command, err)
		}
		if err := json.Unmarshal(raw, &frame); err != nil {
			return nil, fmt.Errorf("xrpl: encode %s params: %w", command, err)
		}
	}
	id := uuid.NewString()
	frame["id"] = id
	frame["command"] = command

	ch := make(chan response, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.writeMu.Lock()
	err := c.conn.WriteJSON(frame)
	c.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("xrpl: send %s: %w", command, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrClosed
	case resp := <-ch:
		if resp.Status != "success" {
			return nil, &CommandError{Command: command, Code: resp.Error, Message: resp.ErrorMessage}
		}
		return resp.Result, nil
	}
}

// Close tears down the connection and fails all in-flight calls.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.conn.Close()
}

func (c *Client) readLoop() {
	defer close(c.done)
	for {
		var resp response
		if err := c.conn.ReadJSON(&resp); err != nil {
			c.mu.Lock()
			alreadyClosed := c.closed
			c.closed = true
			c.mu.Unlock()
			if !alreadyClosed {
				c.log.Error().Err(err).Msg("ledger connection lost")
			}
			return
		}
		if resp.Type != "response" || resp.ID == "" {
			// Stream messages from server-side subscriptions are not
			// correlated to a call.
			continue
		}
		c.mu.Lock()
		ch, ok := c.pending[resp.ID]
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}
