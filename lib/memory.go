package ipcbench

import (
	"fmt"
	"io"
	"sync"
)

// MemoryTransport is a process-local PUB/SUB pair used for tests. Like a PUB
// socket it drops messages sent before a subscriber has attached; once one
// has, delivery is in order and Send blocks while the buffer is full, until
// either side closes.
type MemoryTransport struct {
	mu      sync.Mutex
	sub     chan []byte
	subDone chan struct{}
	closed  chan struct{}

	closeOnce sync.Once
}

func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{closed: make(chan struct{})}
}

// Publisher returns the sending half.
func (m *MemoryTransport) Publisher() Sender {
	return memorySender{m: m}
}

// Subscribe attaches the single subscriber. Calling it twice is an error.
func (m *MemoryTransport) Subscribe(buffer int) (Receiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sub != nil {
		return nil, fmt.Errorf("%w: memory transport already has a subscriber", ErrConnect)
	}
	if buffer < 0 {
		buffer = 0
	}
	m.sub = make(chan []byte, buffer)
	m.subDone = make(chan struct{})
	return &memoryReceiver{ch: m.sub, done: m.subDone, closed: m.closed}, nil
}

type memorySender struct {
	m *MemoryTransport
}

func (s memorySender) Send(b []byte) error {
	s.m.mu.Lock()
	sub, subDone := s.m.sub, s.m.subDone
	s.m.mu.Unlock()

	select {
	case <-s.m.closed:
		return fmt.Errorf("%w: memory transport closed", ErrSend)
	default:
	}
	if sub == nil {
		return nil
	}

	select {
	case sub <- append([]byte(nil), b...):
		return nil
	case <-subDone:
		return fmt.Errorf("%w: subscriber closed", ErrSend)
	case <-s.m.closed:
		return fmt.Errorf("%w: memory transport closed", ErrSend)
	}
}

func (s memorySender) Close() error {
	s.m.closeOnce.Do(func() { close(s.m.closed) })
	return nil
}

type memoryReceiver struct {
	ch     <-chan []byte
	done   chan struct{}
	closed <-chan struct{}
	once   sync.Once
}

// Receive drains anything already buffered before reporting a closed
// publisher.
func (r *memoryReceiver) Receive() ([]byte, error) {
	select {
	case b := <-r.ch:
		return b, nil
	case <-r.done:
		return nil, fmt.Errorf("%w: subscriber closed", ErrReceive)
	case <-r.closed:
		select {
		case b := <-r.ch:
			return b, nil
		default:
			return nil, fmt.Errorf("%w: %v", ErrReceive, io.EOF)
		}
	}
}

func (r *memoryReceiver) Close() error {
	r.once.Do(func() { close(r.done) })
	return nil
}
