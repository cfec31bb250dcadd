package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Path the websocket handler is served on.
const Path = "/ws"

const (
	writeWait     = time.Second
	broadcastSize = 16
)

// WebSocket broadcasts frames as JSON to every connected client. Frames are
// dropped when the broadcast queue is full.
type WebSocket struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]struct{}

	broadcast chan Frame
	seq       uint64

	server   *http.Server
	listener net.Listener
	done     chan struct{}

	closeOnce sync.Once
}

// NewWebSocket listens on addr and starts serving clients.
func NewWebSocket(addr string, log *zap.Logger) (*WebSocket, error) {
	if log == nil {
		log = zap.NewNop()
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}

	ws := &WebSocket{
		log: log.Named("websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan Frame, broadcastSize),
		listener:  ln,
		done:      make(chan struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(Path, ws.handleWebSocket)

	ws.server = &http.Server{Handler: mux}

	go func() {
		ws.log.Info("serving", zap.String("addr", ln.Addr().String()))
		if err := ws.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			ws.log.Error("server failed", zap.Error(err))
		}
	}()

	go ws.handleBroadcasts()

	return ws, nil
}

// Addr returns the address the server listens on.
func (ws *WebSocket) Addr() net.Addr {
	return ws.listener.Addr()
}

// Clients returns the number of connected clients.
func (ws *WebSocket) Clients() int {
	ws.clientsMu.Lock()
	defer ws.clientsMu.Unlock()
	return len(ws.clients)
}

func (ws *WebSocket) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	ws.clientsMu.Lock()
	ws.clients[conn] = struct{}{}
	total := len(ws.clients)
	ws.clientsMu.Unlock()

	ws.log.Debug("client connected",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("clients", total))

	// clients only ever close; reading notices it
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				ws.drop(conn)
				return
			}
		}
	}()
}

func (ws *WebSocket) drop(conn *websocket.Conn) {
	ws.clientsMu.Lock()
	_, ok := ws.clients[conn]
	delete(ws.clients, conn)
	total := len(ws.clients)
	ws.clientsMu.Unlock()

	if ok {
		conn.Close()
		ws.log.Debug("client disconnected", zap.Int("clients", total))
	}
}

func (ws *WebSocket) handleBroadcasts() {
	defer close(ws.done)

	for frame := range ws.broadcast {
		ws.clientsMu.Lock()
		for client := range ws.clients {
			client.SetWriteDeadline(time.Now().Add(writeWait))

			if err := client.WriteJSON(frame); err != nil {
				ws.log.Debug("send failed", zap.Error(err))
				client.Close()
				delete(ws.clients, client)
			}
		}
		ws.clientsMu.Unlock()
	}
}

// Write queues a copy of values for every client.
func (ws *WebSocket) Write(values []float64) error {
	ws.seq++

	frame := Frame{
		Seq:    ws.seq,
		Values: append([]float64(nil), values...),
	}

	select {
	case ws.broadcast <- frame:
	default:
		ws.log.Debug("broadcast queue full, dropping frame", zap.Uint64("seq", frame.Seq))
	}

	return nil
}

// Close disconnects every client and stops the server. Write must not be
// called after Close.
func (ws *WebSocket) Close() error {
	var err error

	ws.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		err = ws.server.Shutdown(ctx)

		close(ws.broadcast)
		<-ws.done

		ws.clientsMu.Lock()
		for client := range ws.clients {
			client.Close()
		}
		ws.clients = make(map[*websocket.Conn]struct{})
		ws.clientsMu.Unlock()
	})

	return err
}
