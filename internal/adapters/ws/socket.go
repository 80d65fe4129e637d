// Package ws maintains the live event connection to the backend
// notification hub and dispatches typed events to registered handlers.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler receives a dispatched event. Handlers run on the socket's read
// goroutine, so they must not block.
type Handler func(Event)

// Options tunes reconnect behavior. Reconnects use a fixed delay and give
// up after MaxReconnects consecutive failed dials.
type Options struct {
	ReconnectDelay time.Duration
	MaxReconnects  int
}

// Socket is a client for the backend's /api/ws endpoint. Register handlers
// with On before calling Run.
type Socket struct {
	url    string
	opts   Options
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler

	closeOnce sync.Once
	done      chan struct{}
}

// New builds a socket for the given API base URL. The access token rides in
// the query string because browser WebSocket clients cannot set headers and
// the backend authenticates both the same way.
func New(baseURL, token string, opts Options, logger *zap.Logger) (*Socket, error) {
	endpoint, err := socketURL(baseURL, token)
	if err != nil {
		return nil, fmt.Errorf("failed to build socket url: %w", err)
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = 5 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Socket{
		url:      endpoint,
		opts:     opts,
		logger:   logger,
		handlers: make(map[string][]Handler),
		done:     make(chan struct{}),
	}, nil
}

func socketURL(baseURL, token string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/api/ws"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

// On registers a handler for an event type. Multiple handlers per type are
// called in registration order.
func (s *Socket) On(eventType string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[eventType] = append(s.handlers[eventType], h)
}

// Run connects and reads events until the context is cancelled, Close is
// called, or the reconnect budget is exhausted. It returns nil on clean
// shutdown and an error only when it gives up reconnecting.
func (s *Socket) Run(ctx context.Context) error {
	attempts := 0
	for {
		if s.stopped(ctx) {
			return nil
		}

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			if s.stopped(ctx) {
				return nil
			}
			if resp != nil {
				resp.Body.Close()
			}
			attempts++
			s.logger.Warn("socket dial failed",
				zap.Int("attempt", attempts),
				zap.Int("max", s.opts.MaxReconnects),
				zap.Error(err))
			if attempts >= s.opts.MaxReconnects {
				return fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
			}
			if !s.waitRetry(ctx) {
				return nil
			}
			continue
		}

		attempts = 0
		s.logger.Info("socket connected")

		err = s.readLoop(ctx, conn)
		conn.Close()
		if s.stopped(ctx) {
			return nil
		}
		if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.logger.Warn("socket connection dropped", zap.Error(err))
		} else {
			s.logger.Info("socket connection closed")
		}
		if !s.waitRetry(ctx) {
			return nil
		}
	}
}

// Close stops Run. Safe to call more than once.
func (s *Socket) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *Socket) readLoop(ctx context.Context, conn *websocket.Conn) error {
	// ReadMessage only unblocks when the connection dies, so a watcher
	// closes it on cancellation. The stop channel keeps the watcher from
	// outliving this call.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-s.done:
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var event Event
		if err := json.Unmarshal(message, &event); err != nil {
			s.logger.Warn("socket: dropping malformed event", zap.Error(err))
			continue
		}
		s.dispatch(event)
	}
}

func (s *Socket) dispatch(event Event) {
	s.mu.RLock()
	handlers := s.handlers[event.Type]
	s.mu.RUnlock()

	if len(handlers) == 0 {
		s.logger.Debug("socket: no handler for event", zap.String("type", event.Type))
		return
	}
	for _, h := range handlers {
		h(event)
	}
}

func (s *Socket) stopped(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	case <-s.done:
		return true
	default:
		return false
	}
}

// waitRetry sleeps the reconnect delay. It reports false when shutdown was
// requested during the wait.
func (s *Socket) waitRetry(ctx context.Context) bool {
	timer := time.NewTimer(s.opts.ReconnectDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-s.done:
		return false
	case <-timer.C:
		return true
	}
}
