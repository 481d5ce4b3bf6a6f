package ynison

import "errors"

var (
	// ErrConnectionRejected indicates that the WebSocket handshake failed.
	// The caller may retry, usually with a fresh redirect ticket.
	ErrConnectionRejected = errors.New("ynison connection rejected")
	// ErrNotConnected indicates an operation that needs an open socket.
	ErrNotConnected = errors.New("ynison session is not connected")
	// ErrAlreadyConnected indicates Connect on a session that is not disconnected.
	ErrAlreadyConnected = errors.New("ynison session is already connected")
	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("ynison session is closed")
	// ErrTransport indicates a socket failure while sending or receiving.
	ErrTransport = errors.New("ynison transport failure")
	// ErrMalformedHeader indicates a protocol header that can't be parsed.
	ErrMalformedHeader = errors.New("malformed ynison protocol header")
	// ErrDecode indicates a message that doesn't match the expected shape.
	ErrDecode = errors.New("failed to decode ynison message")
	// ErrNoRedirectHost indicates a redirector answer without a host.
	ErrNoRedirectHost = errors.New("ynison redirector returned no host")
)
