package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/pkg/types"
)

var ErrNotOpen = errors.New("transport not open")
var ErrQueueFull = errors.New("outbound queue full")

const (
	writeTimeout = 3 * time.Second
	readLimit    = 1 << 20
)

// Client is the session's single duplex channel to the game server.
// Reconnecting is up to the caller.
type Client struct {
	conn *websocket.Conn
	out  chan []byte
	open atomic.Bool
	log  *zap.Logger
}

// Dial connects and queues the hello the server expects first.
func Dial(ctx context.Context, url string, log *zap.Logger) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(readLimit)

	c := &Client{
		conn: conn,
		out:  make(chan []byte, 8),
		log:  log.With(zap.String("server", url)),
	}
	c.open.Store(true)

	hello, err := json.Marshal(types.NewHello())
	if err != nil {
		return nil, err
	}
	c.out <- hello
	return c, nil
}

// Run reads frames and hands each to deliver until the connection closes or
// ctx ends. A clean close returns nil.
func (c *Client) Run(ctx context.Context, deliver func(context.Context, []byte) error) error {
	defer c.open.Store(false)

	// Writer goroutine
	writeCtx, writeCancel := context.WithCancel(ctx)
	defer writeCancel()
	go c.writePump(writeCtx)

	// Reader loop
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("server closed connection")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		if err := deliver(ctx, data); err != nil {
			return err
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.out:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				c.log.Warn("write failed", zap.Error(err))
				c.open.Store(false)
				return
			}
		}
	}
}

// Send queues msg for the writer goroutine and never blocks.
func (c *Client) Send(msg types.ActionMessage) error {
	if !c.IsOpen() {
		return ErrNotOpen
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.out <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *Client) IsOpen() bool { return c.open.Load() }

func (c *Client) Close() error {
	c.open.Store(false)
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
