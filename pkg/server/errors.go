package server

import "errors"

// Sentinel errors for common session and server error conditions.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrMaxSessionsReached is returned when the maximum number of sessions is reached.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrInvalidHandshake is returned when the first message is not a hello.
	ErrInvalidHandshake = errors.New("server: invalid handshake")

	// ErrSendBufferFull is returned when a session cannot keep up with its ops.
	ErrSendBufferFull = errors.New("server: send buffer full")
)
