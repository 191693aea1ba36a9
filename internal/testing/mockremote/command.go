// Package mockremote provides a scripted, stateful fake of the remote
// execution transport so connection code can be tested without a network.
//
// Tests declare one or more Sessions, each scripting one connection and an
// ordered list of Commands. The harness generates a fake client per
// Session and arms a ports.ClientFactory that yields them in declared
// order; after the code under test has run, verification asserts that the
// recorded calls match the script exactly.
package mockremote

// Command is a data record specifying the parameters of one command
// execution to fake and expect. Immutable once constructed; owned by its
// Session.
type Command struct {
	// Cmd is the command string to expect. Empty means no expectation
	// is set and any command is accepted.
	Cmd string

	// Out is the data yielded as remote stdout.
	Out []byte

	// Err is the data yielded as remote stderr.
	Err []byte

	// In, when non-nil, is the exact stdin the command must receive.
	In []byte

	// Exit is the remote exit code.
	Exit int

	// Waits is the number of ExitStatusReady calls that return false
	// before it returns true. Zero means ready immediately.
	Waits int
}
