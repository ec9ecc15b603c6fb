package ipcbench

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-zeromq/zmq4"
)

// ZMQPublisher is a bound PUB socket.
type ZMQPublisher struct {
	sock     zmq4.Socket
	endpoint string
}

// BindPublisher binds a PUB socket on endpoint. A bare path is treated as an
// ipc socket path.
func BindPublisher(ctx context.Context, endpoint string, logger *slog.Logger) (*ZMQPublisher, error) {
	uri := NormalizeEndpoint(endpoint)
	sock := zmq4.NewPub(ctx)
	if err := sock.Listen(uri); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("%w %s: %v", ErrBind, uri, err)
	}
	logger.Info("publisher bound", "endpoint", uri)
	return &ZMQPublisher{sock: sock, endpoint: uri}, nil
}

func (p *ZMQPublisher) Send(b []byte) error {
	if err := p.sock.Send(zmq4.NewMsg(b)); err != nil {
		return fmt.Errorf("%w on %s: %v", ErrSend, p.endpoint, err)
	}
	return nil
}

func (p *ZMQPublisher) Close() error {
	return p.sock.Close()
}

// ZMQSubscriber is a SUB socket subscribed to every message.
type ZMQSubscriber struct {
	sock     zmq4.Socket
	endpoint string
}

// ConnectSubscriber dials endpoint and keeps retrying until a publisher binds
// it, so the subscriber may be started first.
func ConnectSubscriber(ctx context.Context, endpoint string, logger *slog.Logger) (*ZMQSubscriber, error) {
	uri := NormalizeEndpoint(endpoint)
	sock := zmq4.NewSub(ctx, zmq4.WithDialerMaxRetries(-1))
	if err := sock.Dial(uri); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("%w %s: %v", ErrConnect, uri, err)
	}
	// empty prefix: no topic filtering
	if err := sock.SetOption(zmq4.OptionSubscribe, ""); err != nil {
		_ = sock.Close()
		return nil, fmt.Errorf("%w %s: subscribe: %v", ErrConnect, uri, err)
	}
	logger.Info("subscriber connected", "endpoint", uri)
	return &ZMQSubscriber{sock: sock, endpoint: uri}, nil
}

func (s *ZMQSubscriber) Receive() ([]byte, error) {
	msg, err := s.sock.Recv()
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %v", ErrReceive, s.endpoint, err)
	}
	return msg.Bytes(), nil
}

func (s *ZMQSubscriber) Close() error {
	return s.sock.Close()
}
