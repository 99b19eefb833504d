// Package transport ships externalizable objects to a client peer. The
// connection collection only relies on the WriteObject / Flush contract;
// the wire is an archive frame per object with a nil object marking the
// end of the stream.
package transport

import (
	"bytes"
	"io"
	"sync"

	"github.com/kasuga-db/kasuga/internal/errors"
	"github.com/kasuga-db/kasuga/internal/serial"
)

// Conn is the peer-facing contract used by the connection collection.
// Implementations are safe for concurrent use.
type Conn interface {
	Open() error
	Close() error
	IsOpened() bool
	// WriteObject sends one object. A nil object terminates the stream.
	WriteObject(obj serial.Externalizable) error
	Flush() error
}

// encodeFrame serializes obj into a standalone frame.
func encodeFrame(obj serial.Externalizable) ([]byte, error) {
	var buf bytes.Buffer
	a := serial.NewWriter(&buf)
	if err := a.WriteObject(obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeFrame restores one object from a frame.
func decodeFrame(frame []byte) (serial.Externalizable, error) {
	return serial.NewReader(bytes.NewReader(frame)).ReadObject()
}

// Pipe is an in-process connection delivering frames to a reader side.
// It backs tests and embedded result consumption.
type Pipe struct {
	mu     sync.Mutex
	opened bool
	closed bool
	frames chan []byte
}

// NewPipe creates a pipe buffering up to depth frames.
func NewPipe(depth int) *Pipe {
	if depth <= 0 {
		depth = 64
	}
	return &Pipe{frames: make(chan []byte, depth)}
}

func (p *Pipe) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New(errors.ConnectionRanOut)
	}
	p.opened = true
	return nil
}

func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.frames)
	}
	return nil
}

func (p *Pipe) IsOpened() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened && !p.closed
}

func (p *Pipe) WriteObject(obj serial.Externalizable) error {
	frame, err := encodeFrame(obj)
	if err != nil {
		return err
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return errors.New(errors.ConnectionRanOut)
	}
	p.mu.Unlock()
	p.frames <- frame
	return nil
}

func (p *Pipe) Flush() error { return nil }

// ReadObject receives the next object; it returns io.EOF after the
// stream terminator or close.
func (p *Pipe) ReadObject() (serial.Externalizable, error) {
	frame, ok := <-p.frames
	if !ok {
		return nil, io.EOF
	}
	obj, err := decodeFrame(frame)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, io.EOF
	}
	return obj, nil
}
