package transport

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/serial"
)

// WebSocketConn ships result frames to a client over a websocket. Each
// object travels as one binary message.
type WebSocketConn struct {
	url    string
	dialer *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	opened bool
}

// NewWebSocketConn prepares a client connection to url; the dial happens
// on Open.
func NewWebSocketConn(url string) *WebSocketConn {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second
	return &WebSocketConn{url: url, dialer: &dialer}
}

// WrapWebSocket adopts an already-established connection, e.g. one
// accepted by an upgrader on the server side.
func WrapWebSocket(conn *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{conn: conn, opened: true}
}

func (w *WebSocketConn) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.opened {
		return nil
	}
	conn, _, err := w.dialer.Dial(w.url, nil)
	if err != nil {
		return errors.Wrap(errors.ConnectionRanOut, err, "websocket dial")
	}
	w.conn = conn
	w.opened = true
	return nil
}

func (w *WebSocketConn) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.opened || w.conn == nil {
		return nil
	}
	w.opened = false
	return w.conn.Close()
}

func (w *WebSocketConn) IsOpened() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opened
}

func (w *WebSocketConn) WriteObject(obj serial.Externalizable) error {
	frame, err := encodeFrame(obj)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.opened || w.conn == nil {
		return errors.New(errors.ConnectionRanOut)
	}
	if err := w.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return errors.Wrap(errors.ConnectionRanOut, err, "websocket write")
	}
	return nil
}

// Flush is a no-op: websocket messages are not buffered above the socket.
func (w *WebSocketConn) Flush() error { return nil }
