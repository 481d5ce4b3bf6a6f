package ynison

import (
	"bytes"
	"errors"
	"io"

	"github.com/gorilla/websocket"
)

// readChunkSize is the amount read from the socket per step.
const readChunkSize = 4096

// frameSource yields message fragments in arrival order.
// endOfMessage marks the last fragment of a message.
// Binary reports the type of the message the last fragment belonged to.
type frameSource interface {
	ReadFrame(buf []byte) (n int, endOfMessage bool, err error)
	Binary() bool
}

// Message is one complete inbound message.
type Message struct {
	Data   []byte
	Binary bool
}

// Text returns the payload as a string.
func (m Message) Text() string {
	return string(m.Data)
}

// socketFrames adapts a gorilla connection to frameSource.
type socketFrames struct {
	conn    *websocket.Conn
	current io.Reader
	binary  bool
}

func (f *socketFrames) Binary() bool {
	return f.binary
}

func (f *socketFrames) ReadFrame(buf []byte) (int, bool, error) {
	for {
		if f.current == nil {
			messageType, reader, err := f.conn.NextReader()
			if err != nil {
				return 0, false, err
			}

			f.current = reader
			f.binary = messageType == websocket.BinaryMessage
		}

		n, err := f.current.Read(buf)

		switch {
		case errors.Is(err, io.EOF):
			f.current = nil

			return n, true, nil
		case err != nil:
			f.current = nil

			return n, false, err
		case n > 0:
			return n, false, nil
		}
	}
}

// reassembler accumulates fragments into complete messages.
type reassembler struct {
	source frameSource
	chunk  []byte
	buffer bytes.Buffer
}

func newReassembler(source frameSource) *reassembler {
	return &reassembler{
		source: source,
		chunk:  make([]byte, readChunkSize),
	}
}

// next blocks until a complete message arrives.
// The buffer is cleared afterwards, also when reading fails midway.
func (r *reassembler) next() (Message, error) {
	defer r.buffer.Reset()

	for {
		n, endOfMessage, err := r.source.ReadFrame(r.chunk)
		if err != nil {
			return Message{}, err
		}

		r.buffer.Write(r.chunk[:n])

		if endOfMessage {
			return Message{
				Data:   bytes.Clone(r.buffer.Bytes()),
				Binary: r.source.Binary(),
			}, nil
		}
	}
}
