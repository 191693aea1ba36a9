// Package ports defines interfaces for external dependencies (Ports and Adapters pattern).
package ports

// ClientFactory creates one Client per connection attempt. Production code
// uses the real SSH adapter's factory; tests inject a scripted one.
type ClientFactory func() (Client, error)

// Client defines the interface for a single remote shell connection.
type Client interface {
	// Connect establishes the connection to user@host:port.
	Connect(host, user string, port int) error

	// Transport returns the per-connection multiplexer that opens
	// execution channels. Valid only after Connect.
	Transport() (Transport, error)

	// OpenTransfer opens the file-transfer endpoint on this connection.
	OpenTransfer() (FileTransfer, error)

	// Close closes the connection.
	Close() error
}

// Transport multiplexes execution channels over one connection.
type Transport interface {
	// Active reports whether the underlying connection is usable.
	Active() bool

	// OpenSession opens a new execution channel. One channel per
	// command execution.
	OpenSession() (Channel, error)
}

// Channel is a single command-execution stream.
type Channel interface {
	// Exec starts the given command on the channel.
	Exec(cmd string) error

	// Recv returns up to n unread bytes of remote stdout. An empty
	// slice means no more output is buffered.
	Recv(n int) ([]byte, error)

	// RecvStderr returns up to n unread bytes of remote stderr.
	RecvStderr(n int) ([]byte, error)

	// Send writes p to the command's stdin and returns the byte count.
	Send(p []byte) (int, error)

	// ExitStatusReady reports whether the command has finished and its
	// exit status can be read. Callers poll this.
	ExitStatusReady() bool

	// ExitStatus returns the command's exit code. Blocking implementations
	// may wait for completion; call after ExitStatusReady returns true.
	ExitStatus() int

	// Close releases the channel.
	Close() error
}
