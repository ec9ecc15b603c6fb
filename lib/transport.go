package ipcbench

import "strings"

// Sender is the publishing half of a PUB/SUB transport.
type Sender interface {
	Send(b []byte) error
	Close() error
}

// Receiver is the subscribing half. Receive blocks until a message arrives.
type Receiver interface {
	Receive() ([]byte, error)
	Close() error
}

// NormalizeEndpoint turns a bare socket path into an ipc:// URI and passes
// scheme-qualified endpoints through.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	for _, scheme := range []string{"ipc://", "tcp://", "inproc://"} {
		if strings.HasPrefix(endpoint, scheme) {
			return endpoint
		}
	}
	return "ipc://" + endpoint
}
