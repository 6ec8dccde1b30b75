package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"jyotish-lab/internal/domain"
)

// ErrClientClosed is returned for calls on a closed WSClient.
var ErrClientClosed = errors.New("client closed")

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// HandshakeTimeout bounds the initial dial.
	HandshakeTimeout time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
	// CallTimeout bounds a single request/response round trip.
	CallTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		WriteTimeout:     10 * time.Second,
		CallTimeout:      30 * time.Second,
	}
}

// WSClient implements Provider over a persistent WebSocket, multiplexing
// JSON-RPC calls by request id.
type WSClient struct {
	config WSClientConfig

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closed    atomic.Bool
	broken    atomic.Bool
	requestID atomic.Uint64

	pending   map[uint64]chan rpcResponse
	pendingMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

var _ Provider = (*WSClient)(nil)

// NewWSClient dials endpoint and starts the read and ping loops.
func NewWSClient(ctx context.Context, endpoint string, config *WSClientConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}

	c := &WSClient{
		config:  cfg,
		conn:    conn,
		pending: make(map[uint64]chan rpcResponse),
		done:    make(chan struct{}),
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.pingLoop()
	return c, nil
}

// Close shuts the connection down and fails all in-flight calls.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	close(c.done)

	c.writeMu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := c.conn.Close()
	c.writeMu.Unlock()

	c.failPending()
	c.wg.Wait()
	return err
}

func (c *WSClient) failPending() {
	c.pendingMu.Lock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
}

func (c *WSClient) call(ctx context.Context, method string, params []any, result any) error {
	if c.closed.Load() || c.broken.Load() {
		return ErrClientClosed
	}

	id := c.requestID.Add(1)
	ch := make(chan rpcResponse, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	forget := func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}

	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	c.writeMu.Unlock()
	if err != nil {
		forget()
		return fmt.Errorf("write %s: %w", method, err)
	}

	timer := time.NewTimer(c.config.CallTimeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrClientClosed
		}
		if resp.Error != nil {
			return resp.Error
		}
		if result != nil && resp.Result != nil {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("unmarshal result: %w", err)
			}
		}
		return nil
	case <-timer.C:
		forget()
		return fmt.Errorf("%s: timeout after %s", method, c.config.CallTimeout)
	case <-ctx.Done():
		forget()
		return ctx.Err()
	case <-c.done:
		return ErrClientClosed
	}
}

func (c *WSClient) readLoop() {
	defer c.wg.Done()
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			// Connection lost: nothing in flight can complete.
			c.broken.Store(true)
			c.failPending()
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(message, &resp); err != nil {
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- resp
		}
	}
}

func (c *WSClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			_ = c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
		}
	}
}

// Position implements Provider.
func (c *WSClient) Position(ctx context.Context, jd float64, bodyID int, mode domain.Ayanamsa) (Position, error) {
	var p Position
	if err := c.call(ctx, MethodPosition, []any{jd, bodyID, string(mode)}, &p); err != nil {
		return Position{}, fmt.Errorf("position of body %d: %w", bodyID, err)
	}
	return p, nil
}

// Houses implements Provider.
func (c *WSClient) Houses(ctx context.Context, jd, lat, lon float64, system domain.HouseSystem, mode domain.Ayanamsa) (Houses, error) {
	var h Houses
	params := []any{jd, lat, lon, HouseSystemCode(system), string(mode)}
	if err := c.call(ctx, MethodHouses, params, &h); err != nil {
		return Houses{}, fmt.Errorf("houses: %w", err)
	}
	return h, nil
}

// RiseSet implements Provider.
func (c *WSClient) RiseSet(ctx context.Context, jd, lat, lon float64) (RiseSet, error) {
	var rs RiseSet
	if err := c.call(ctx, MethodRiseSet, []any{jd, lat, lon}, &rs); err != nil {
		return RiseSet{}, fmt.Errorf("rise/set: %w", err)
	}
	return rs, nil
}
