package lspserver

import (
	"io"
	"sync"
)

// pipe is a thread-safe in-memory buffer that implements io.ReadWriteCloser.
// Reads block until data arrives or the pipe is closed.
type pipe struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []byte
	closed bool
}

func newPipeEnd() *pipe {
	p := &pipe{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *pipe) Read(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.buf) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.buf) == 0 {
		return 0, io.EOF
	}
	n := copy(data, p.buf)
	p.buf = p.buf[n:]
	return n, nil
}

func (p *pipe) Write(data []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, io.ErrClosedPipe
	}
	p.buf = append(p.buf, data...)
	p.cond.Broadcast()
	return len(data), nil
}

func (p *pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.cond.Broadcast()
	return nil
}

// duplex is one side of a connection: it reads what the peer writes.
// Closing it closes the direction it writes, so the peer sees EOF.
type duplex struct {
	in  *pipe
	out *pipe
}

func (d duplex) Read(p []byte) (int, error)  { return d.in.Read(p) }
func (d duplex) Write(p []byte) (int, error) { return d.out.Write(p) }
func (d duplex) Close() error                { return d.out.Close() }

// newDuplexPair returns connected client and server ends.
func newDuplexPair() (client, server duplex) {
	c2s := newPipeEnd()
	s2c := newPipeEnd()
	return duplex{in: s2c, out: c2s}, duplex{in: c2s, out: s2c}
}
