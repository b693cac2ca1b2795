package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/hanabi-table/internal/table"
	"github.com/DoyleJ11/hanabi-table/internal/types"
	wire "github.com/DoyleJ11/hanabi-table/pkg/types"
)

const streamWriteTimeout = 3 * time.Second

// ViewStream pushes a View frame on every change. Browsers may also send
// {"action": key} frames to select.
func ViewStream(t *table.Table, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // local renderers only
		})
		if err != nil {
			log.Warn("accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		clientID := uuid.NewString()
		views := make(chan table.View, 16)
		if err := t.Subscribe(ctx, clientID, views); err != nil {
			conn.Close(websocket.StatusInternalError, "table closed")
			return
		}
		defer t.Unsubscribe(context.Background(), clientID)

		// Reader goroutine
		go func() {
			defer cancel()
			for {
				_, data, err := conn.Read(ctx)
				if err != nil {
					return
				}
				var msg wire.ActionMessage
				if err := json.Unmarshal(data, &msg); err != nil || msg.Action == "" {
					log.Debug("ignoring renderer frame", zap.String("client", clientID))
					continue
				}
				if err := t.Select(ctx, msg.Action); err != nil {
					return
				}
			}
		}()

		// Writer loop
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-views:
				if !ok {
					conn.Close(websocket.StatusNormalClosure, "table closed")
					return
				}
				payload, err := json.Marshal(types.FromView(v))
				if err != nil {
					log.Error("encode view", zap.Error(err))
					return
				}
				wctx, wcancel := context.WithTimeout(ctx, streamWriteTimeout)
				err = conn.Write(wctx, websocket.MessageText, payload)
				wcancel()
				if err != nil {
					return
				}
			}
		}
	}
}
