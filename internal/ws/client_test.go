package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/DoyleJ11/hanabi-table/pkg/types"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recvBytes(t *testing.T, ch <-chan []byte, within time.Duration) []byte {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(within):
		t.Fatalf("timed out waiting for frame")
		return nil // unreachable
	}
}

func TestClient_HelloDeliverSend(t *testing.T) {
	fromClient := make(chan []byte, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := r.Context()

		_, hello, err := conn.Read(ctx)
		if err != nil {
			return
		}
		fromClient <- hello

		if err := conn.Write(ctx, websocket.MessageText, []byte(`{"info":{"deck_size":40}}`)); err != nil {
			return
		}

		_, action, err := conn.Read(ctx)
		if err != nil {
			return
		}
		fromClient <- action
		conn.Close(websocket.StatusNormalClosure, "game over")
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, wsURL(srv), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, c.IsOpen())

	frames := make(chan []byte, 4)
	runErr := make(chan error, 1)
	go func() {
		runErr <- c.Run(ctx, func(_ context.Context, b []byte) error {
			frames <- b
			return nil
		})
	}()

	assert.JSONEq(t, `{"status":"connected"}`, string(recvBytes(t, fromClient, time.Second)))
	assert.JSONEq(t, `{"info":{"deck_size":40}}`, string(recvBytes(t, frames, time.Second)))

	require.NoError(t, c.Send(types.ActionMessage{Action: "3"}))
	assert.JSONEq(t, `{"action":"3"}`, string(recvBytes(t, fromClient, time.Second)))

	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after server close")
	}
	assert.False(t, c.IsOpen())
	assert.ErrorIs(t, c.Send(types.ActionMessage{Action: "4"}), ErrNotOpen)
}

func TestDial_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := Dial(ctx, "ws://127.0.0.1:1/ws", zaptest.NewLogger(t))
	assert.Error(t, err)
}
