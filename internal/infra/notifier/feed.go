package notifier

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const feedWriteWait = 5 * time.Second

// Feed は管理画面のWebSocket接続へ注文を流すハブ
type Feed struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewFeed(allowedOrigin string, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowedOrigin == "" || origin == allowedOrigin
			},
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Serve は接続をアップグレードし、切断されるまで読み捨てる
func (f *Feed) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	f.add(conn)
	defer f.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

func (f *Feed) add(conn *websocket.Conn) {
	f.mu.Lock()
	f.clients[conn] = struct{}{}
	f.mu.Unlock()
}

func (f *Feed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	if _, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		_ = conn.Close()
	}
	f.mu.Unlock()
}

// 接続数
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Publish は全接続へ送る。書けなかった接続は切る
func (f *Feed) Publish(ctx context.Context, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			f.logger.WarnContext(ctx, "order feed write failed", slog.Any("error", err))
			delete(f.clients, conn)
			_ = conn.Close()
		}
	}
	return nil
}

// 停止時に全接続を閉じる
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		_ = conn.Close()
		delete(f.clients, conn)
	}
}
