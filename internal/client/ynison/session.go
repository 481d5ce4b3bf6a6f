package ynison

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oshokin/yamusic/internal/logger"
)

// Credentials provide the identity a session presents to the server.
type Credentials interface {
	DeviceID() string
	Token() string
}

// State is the lifecycle state of a session.
type State int32

const (
	// StateDisconnected means there is no socket.
	StateDisconnected State = iota
	// StateConnecting means the handshake is running.
	StateConnecting
	// StateOpen means the socket is open and nobody is reading it.
	StateOpen
	// StateReceiving means the receive loop is running.
	StateReceiving
	// StateClosing means the closure handshake is running.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReceiving:
		return "receiving"
	case StateClosing:
		return "closing"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

const (
	// DefaultOrigin is the Origin header expected by the service.
	DefaultOrigin = "https://music.yandex.ru"
	// DefaultAppName is the application name announced in the device info.
	DefaultAppName = "Chrome"
	// DefaultDeviceType is the device type announced in the device info.
	DefaultDeviceType = 1

	// DefaultHandshakeTimeout bounds the opening handshake of the default dialer.
	DefaultHandshakeTimeout = 30 * time.Second

	closeTimeout = 2 * time.Second

	headerAuthorization = "Authorization"
	headerOrigin        = "Origin"
	headerSubprotocol   = "Sec-WebSocket-Protocol"
)

// DefaultDeviceInfo returns the device info of a desktop browser.
func DefaultDeviceInfo() DeviceInfo {
	return DeviceInfo{
		AppName: DefaultAppName,
		Type:    DefaultDeviceType,
	}
}

// Config describes where and how a session connects.
type Config struct {
	// URL is the WebSocket endpoint, either the redirector or a state service.
	URL string
	// Origin is sent in the Origin header, DefaultOrigin if empty.
	Origin string
	// DeviceInfo is announced in the protocol header, DefaultDeviceInfo if zero.
	DeviceInfo DeviceInfo
	// Dialer overrides the default dialer, e.g. to trust a test certificate.
	Dialer *websocket.Dialer
}

// Session is a Ynison WebSocket session.
// Send may be called concurrently with the receive loop.
type Session struct {
	cfg    Config
	creds  Credentials
	dialer *websocket.Dialer

	mu    sync.Mutex
	state State
	conn  *websocket.Conn

	// writeMu serializes data frames.
	writeMu sync.Mutex
	// stop is the cooperative stop flag of the receive loop.
	stop atomic.Bool

	subsMu    sync.RWMutex
	subs      map[uint64]*Subscription
	nextSubID uint64

	done      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a disconnected session.
func NewSession(creds Credentials, cfg Config) *Session {
	if cfg.Origin == "" {
		cfg.Origin = DefaultOrigin
	}

	if cfg.DeviceInfo == (DeviceInfo{}) {
		cfg.DeviceInfo = DefaultDeviceInfo()
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: DefaultHandshakeTimeout,
		}
	}

	return &Session{
		cfg:    cfg,
		creds:  creds,
		dialer: dialer,
		state:  StateDisconnected,
		subs:   make(map[uint64]*Subscription),
		done:   make(chan struct{}),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Connect performs the handshake. The redirect ticket is optional.
// A failed handshake returns an error matching ErrConnectionRejected
// and leaves the session disconnected, so the caller may retry.
func (s *Session) Connect(ctx context.Context, redirectTicket string) error {
	s.mu.Lock()

	if s.isClosed() {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	if s.state != StateDisconnected {
		state := s.state
		s.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrAlreadyConnected, state)
	}

	s.state = StateConnecting
	s.mu.Unlock()

	header, err := s.requestHeader(redirectTicket)
	if err != nil {
		s.setState(StateDisconnected)

		return fmt.Errorf("%w: %w", ErrConnectionRejected, err)
	}

	conn, response, err := s.dialer.DialContext(ctx, s.cfg.URL, header)
	if response != nil && response.Body != nil {
		response.Body.Close()
	}

	if err != nil {
		s.setState(StateDisconnected)

		if response != nil {
			return fmt.Errorf("%w: status %d: %w", ErrConnectionRejected, response.StatusCode, err)
		}

		return fmt.Errorf("%w: %w", ErrConnectionRejected, err)
	}

	s.mu.Lock()

	if s.isClosed() {
		s.state = StateDisconnected
		s.mu.Unlock()
		conn.Close()

		return ErrSessionClosed
	}

	s.conn = conn
	s.state = StateOpen
	s.stop.Store(false)
	s.mu.Unlock()

	logger.Debugf(ctx, "Connected to ynison '%s' (subprotocol '%s')", s.cfg.URL, conn.Subprotocol())

	return nil
}

func (s *Session) requestHeader(redirectTicket string) (http.Header, error) {
	protocol, err := ProtocolHeader{
		DeviceID:       s.creds.DeviceID(),
		DeviceInfo:     s.cfg.DeviceInfo,
		RedirectTicket: redirectTicket,
	}.Subprotocol()
	if err != nil {
		return nil, err
	}

	// The dialer's Subprotocols field can't carry the JSON blob, it would be split on commas.
	header := http.Header{}
	header.Set(headerSubprotocol, protocol)
	header.Set(headerOrigin, s.cfg.Origin)

	if token := s.creds.Token(); token != "" {
		header.Set(headerAuthorization, "OAuth "+token)
	}

	return header, nil
}

// BeginReceive runs the receive loop until StopReceive, Close, ctx cancellation
// or a socket failure. Every complete message is broadcast to the subscribers.
// Stop requests are honored between messages only. When the loop ends, the
// closure handshake is performed and the session becomes disconnected.
func (s *Session) BeginReceive(ctx context.Context) error {
	s.mu.Lock()

	if s.isClosed() {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	if s.state != StateOpen {
		state := s.state
		s.mu.Unlock()

		return fmt.Errorf("%w: %s", ErrNotConnected, state)
	}

	conn := s.conn
	s.state = StateReceiving
	s.mu.Unlock()

	logger.Debug(ctx, "Ynison receive loop started")

	err := s.receiveLoop(ctx, &socketFrames{conn: conn})

	return s.finishReceive(ctx, conn, err)
}

func (s *Session) receiveLoop(ctx context.Context, source frameSource) error {
	assembler := newReassembler(source)

	for !s.stopRequested(ctx) {
		msg, err := assembler.next()
		if err != nil {
			return err
		}

		logger.Debugf(ctx, "Ynison message received (%d bytes)", len(msg.Data))

		s.broadcast(msg)
	}

	return nil
}

func (s *Session) stopRequested(ctx context.Context) bool {
	return s.stop.Load() || ctx.Err() != nil || s.isClosed()
}

// finishReceive performs the closure handshake and classifies the loop error.
func (s *Session) finishReceive(ctx context.Context, conn *websocket.Conn, loopErr error) error {
	s.setState(StateClosing)

	var closeErr *websocket.CloseError

	// The peer's close frame was already answered by the connection.
	if !errors.As(loopErr, &closeErr) && !s.isClosed() {
		deadline := time.Now().Add(closeTimeout)

		err := conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		if err == nil && loopErr == nil {
			// Wait for the peer to confirm, discarding late messages.
			_ = conn.SetReadDeadline(deadline) //nolint:errcheck // Best effort.

			for {
				if _, _, err = conn.NextReader(); err != nil {
					break
				}
			}
		}
	}

	conn.Close()

	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}

	s.state = StateDisconnected
	s.mu.Unlock()

	logger.Debugf(ctx, "Ynison receive loop finished: %v", loopErr)

	switch {
	case loopErr == nil, s.isClosed():
		return nil
	case websocket.IsCloseError(loopErr, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrTransport, loopErr)
	}
}

// Send writes the payload as one complete text message.
func (s *Session) Send(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := s.activeConn()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err = conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if err = conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	logger.Debugf(ctx, "Ynison message sent (%d bytes)", len(payload))

	return nil
}

// SendJSON encodes v and sends it as one text message.
func (s *Session) SendJSON(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode ynison message: %w", err)
	}

	return s.Send(ctx, payload)
}

// StopReceive asks the receive loop to stop after the current message.
// It does nothing unless the session is open or receiving.
func (s *Session) StopReceive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateOpen || s.state == StateReceiving {
		s.stop.Store(true)
	}
}

// Close releases the socket and closes every subscription channel.
// It is safe to call more than once and on a session that never connected.
func (s *Session) Close() error {
	var err error

	s.closeOnce.Do(func() {
		close(s.done)
		s.stop.Store(true)

		s.mu.Lock()
		conn := s.conn
		s.conn = nil
		s.state = StateDisconnected
		s.mu.Unlock()

		if conn != nil {
			//nolint:errcheck // Best effort, the socket is closed right after.
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(closeTimeout))

			err = conn.Close()
		}

		s.closeSubscriptions()
	})

	return err
}

// readOne reads a single message outside of the receive loop.
func (s *Session) readOne(ctx context.Context) (Message, error) {
	conn, err := s.activeConn()
	if err != nil {
		return Message{}, err
	}

	deadline, _ := ctx.Deadline()
	if err = conn.SetReadDeadline(deadline); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	msg, err := newReassembler(&socketFrames{conn: conn}).next()
	if err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	return msg, nil
}

func (s *Session) activeConn() (*websocket.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isClosed() {
		return nil, ErrSessionClosed
	}

	if s.conn == nil || (s.state != StateOpen && s.state != StateReceiving) {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, s.state)
	}

	return s.conn, nil
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state
}

func (s *Session) isClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}
