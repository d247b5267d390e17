// Package comm provides pooled, framed transport to the bench peripherals:
// TCP for the pattern remote, serial for the colorimeter.  Connections are
// opened lazily, reused across transactions, and dropped on error so the next
// transaction redials.
package comm

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/tarm/serial"
)

// ErrTerminatorNotFound is returned when a response does not end with the
// expected termination byte.
var ErrTerminatorNotFound = errors.New("termination byte not found in response")

// CreationFunc returns a new connection to a peripheral.
type CreationFunc func() (io.ReadWriteCloser, error)

// TCPMaker dials addr with an exponential backoff.  The bench peripherals do
// not tolerate connection thrash, so redials start gentle.
func TCPMaker(addr string, timeout time.Duration) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		var conn net.Conn
		op := func() error {
			var err error
			conn, err = net.DialTimeout("tcp", addr, timeout)
			return err
		}
		err := backoff.Retry(op, &backoff.ExponentialBackOff{
			InitialInterval:     25 * time.Millisecond,
			RandomizationFactor: 0,
			Multiplier:          2,
			MaxInterval:         time.Second,
			MaxElapsedTime:      3 * time.Second,
			Clock:               backoff.SystemClock,
		})
		if err != nil {
			return nil, err
		}
		deadline := time.Now().Add(timeout)
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
		return conn, nil
	}
}

// SerialMaker opens the serial port described by cfg.
func SerialMaker(cfg serial.Config) CreationFunc {
	return func() (io.ReadWriteCloser, error) {
		return serial.OpenPort(&cfg)
	}
}

// Pool holds one lazily opened connection and serializes transactions over
// it.  A transaction that errors discards the connection, so the following
// transaction gets a fresh one.
type Pool struct {
	mu    sync.Mutex
	maker CreationFunc
	conn  io.ReadWriteCloser
}

// NewPool returns a pool that opens connections with maker on demand.
func NewPool(maker CreationFunc) *Pool {
	return &Pool{maker: maker}
}

// Do runs one transaction against the connection, opening it first if
// needed.  On error the connection is closed and forgotten.
func (p *Pool) Do(txn func(io.ReadWriter) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		conn, err := p.maker()
		if err != nil {
			return err
		}
		p.conn = conn
	}
	err := txn(p.conn)
	if err != nil {
		p.conn.Close()
		p.conn = nil
	}
	return err
}

// Close drops the pooled connection if one is open.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

// A Framer sends and receives byte-terminated frames over a connection.
type Framer struct {
	rw     io.ReadWriter
	rx, tx byte
}

// NewFramer wraps rw with rx/tx frame terminators.
func NewFramer(rw io.ReadWriter, rx, tx byte) *Framer {
	return &Framer{rw: rw, rx: rx, tx: tx}
}

// Send writes b followed by the tx terminator.
func (f *Framer) Send(b []byte) error {
	buf := make([]byte, 0, len(b)+1)
	buf = append(buf, b...)
	buf = append(buf, f.tx)
	_, err := f.rw.Write(buf)
	return err
}

// Recv reads through the rx terminator and returns the frame with the
// terminator stripped.
func (f *Framer) Recv() ([]byte, error) {
	buf, err := bufio.NewReader(f.rw).ReadBytes(f.rx)
	if err != nil {
		return nil, err
	}
	if !bytes.HasSuffix(buf, []byte{f.rx}) {
		return buf, ErrTerminatorNotFound
	}
	return buf[:len(buf)-1], nil
}

// SendRecv sends one frame and returns the response frame.
func (f *Framer) SendRecv(b []byte) ([]byte, error) {
	if err := f.Send(b); err != nil {
		return nil, err
	}
	return f.Recv()
}
