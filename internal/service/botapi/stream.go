package botapi

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"AstroView/internal/domain/models"
	"AstroView/pkg/logger"
)

// envelope is the raw websocket frame. The backend broadcasts one frame
// covering every user; it is fanned out into per-user LiveUpdates.
type envelope struct {
	Type string                    `json:"type"`
	Data map[string]userUpdateBody `json:"data"`
}

type userUpdateBody struct {
	Positions    []models.Position   `json:"positions"`
	Equity       *models.EquityState `json:"equity"`
	LatestSignal *models.Signal      `json:"latest_signal"`
}

// Stream consumes the backend's websocket push channel. Frames arrive on a
// fixed cadence between polls; a broken connection degrades the dashboard
// to poll-only, so read errors are reported, not fatal.
type Stream struct {
	url            string
	pingInterval   time.Duration
	reconnectDelay time.Duration
	logger         *logger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	updates   chan *models.LiveUpdate
	errs      chan error
	done      chan struct{}
	once      sync.Once
	closeOnce sync.Once
}

// StreamOption configures Stream.
type StreamOption func(*Stream)

// WithStreamLogger attaches a logger.
func WithStreamLogger(l *logger.Logger) StreamOption {
	return func(s *Stream) {
		s.logger = l
	}
}

// WithPingInterval overrides the keepalive ping cadence.
func WithPingInterval(d time.Duration) StreamOption {
	return func(s *Stream) {
		if d > 0 {
			s.pingInterval = d
		}
	}
}

// WithReconnectDelay overrides the wait before a reconnect attempt.
func WithReconnectDelay(d time.Duration) StreamOption {
	return func(s *Stream) {
		if d > 0 {
			s.reconnectDelay = d
		}
	}
}

// NewStream creates a stream client for the given websocket URL.
func NewStream(url string, opts ...StreamOption) *Stream {
	s := &Stream{
		url:            url,
		pingInterval:   30 * time.Second,
		reconnectDelay: 5 * time.Second,
		logger:         logger.NewNop(),
		updates:        make(chan *models.LiveUpdate, 64),
		errs:           make(chan error, 8),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect dials the backend websocket.
func (s *Stream) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}

	s.conn = conn
	s.connected = true
	s.logger.Info("update stream connected", logger.String("url", s.url))
	return nil
}

// Read starts the read and ping loops and returns the update and error
// channels. Both channels stay open for the life of the stream; callers
// range over updates and treat errors as reconnect hints.
func (s *Stream) Read() (<-chan *models.LiveUpdate, <-chan error) {
	s.once.Do(func() {
		go s.readLoop()
		go s.pingLoop()
	})
	return s.updates, s.errs
}

func (s *Stream) readLoop() {
	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.mu.Lock()
		conn := s.conn
		connected := s.connected
		s.mu.Unlock()

		if !connected || conn == nil {
			time.Sleep(s.reconnectDelay)
			continue
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.markDisconnected()
			select {
			case s.errs <- fmt.Errorf("read update frame: %w", err):
			case <-s.done:
				return
			}
			continue
		}

		fanned, err := parseEnvelope(raw)
		if err != nil {
			s.logger.Warn("drop malformed update frame", logger.Error(err))
			continue
		}

		for _, update := range fanned {
			select {
			case s.updates <- update:
			case <-s.done:
				return
			default:
				// Consumer is behind; a newer frame supersedes this one anyway.
			}
		}
	}
}

// parseEnvelope decodes one broadcast frame into per-user updates. Frames
// of other types decode to nothing.
func parseEnvelope(raw []byte) ([]*models.LiveUpdate, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode update frame: %w", err)
	}
	if env.Type != "update" {
		return nil, nil
	}

	updates := make([]*models.LiveUpdate, 0, len(env.Data))
	for userID, body := range env.Data {
		updates = append(updates, &models.LiveUpdate{
			UserID:       userID,
			Positions:    body.Positions,
			Equity:       body.Equity,
			LatestSignal: body.LatestSignal,
		})
	}
	return updates, nil
}

func (s *Stream) pingLoop() {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			conn := s.conn
			connected := s.connected
			s.mu.Unlock()
			if !connected || conn == nil {
				continue
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				s.markDisconnected()
			}
		}
	}
}

func (s *Stream) markDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connected = false
}

// Reconnect tears down the current connection, waits the configured delay
// and dials again.
func (s *Stream) Reconnect() error {
	s.markDisconnected()
	time.Sleep(s.reconnectDelay)
	return s.Connect()
}

// IsConnected reports whether the socket is currently up.
func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close shuts the stream down permanently. Safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.markDisconnected()
	return nil
}
