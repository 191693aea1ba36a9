package mockremote

import (
	"fmt"
	"sync"

	"github.com/oarsail/skiff/internal/ports"
)

// Remote orchestrates one or more Sessions: it generates their fakes,
// arms a client factory that yields each session's fake client in
// declared order, and drives verification on Stop.
//
// Connections must be made in the declared session order, and within a
// session commands must be executed in declared command order; anything
// else is a verification failure, not a deadlock.
type Remote struct {
	Sessions []*Session

	mu      sync.Mutex
	started bool
	next    int
}

// NewRemote builds a harness from explicit Sessions. With no arguments it
// scripts a single default session with one default command, for basic
// "don't touch the network" stubbing.
func NewRemote(sessions ...*Session) *Remote {
	if len(sessions) == 0 {
		sessions = []*Session{SessionFor()}
	}
	return &Remote{Sessions: sessions}
}

// NewRemoteCommands builds a harness with one anonymous session running
// the given commands.
func NewRemoteCommands(commands ...*Command) *Remote {
	return NewRemote(SessionFor(commands...))
}

// NewRemoteSingle builds a harness from a single anonymous session's
// shorthand fields.
func NewRemoteSingle(cfg SessionConfig) (*Remote, error) {
	session, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return NewRemote(session), nil
}

// Start generates every session's fakes and arms the factory. It returns
// the flattened, in-order channel simulators across all sessions, so
// tests get a direct handle per scripted command.
func (r *Remote) Start() []*Channel {
	r.mu.Lock()
	defer r.mu.Unlock()

	var channels []*Channel
	for _, session := range r.Sessions {
		session.generateFakes()
		channels = append(channels, session.channels...)
	}
	r.next = 0
	r.started = true
	return channels
}

// Factory returns the armed client factory for injection into the code
// under test. Each call yields the next session's fake client; calls
// beyond the declared sessions are a usage error, returned as-is.
func (r *Remote) Factory() ports.ClientFactory {
	return func() (ports.Client, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if !r.started {
			return nil, fmt.Errorf("mockremote: factory used before Start")
		}
		if r.next >= len(r.Sessions) {
			return nil, fmt.Errorf("mockremote: %d connections already made, no sessions left",
				len(r.Sessions))
		}
		client := r.Sessions[r.next].client
		r.next++
		return client, nil
	}
}

// Stop disarms the factory and verifies every session in declared order,
// failing fast at the first mismatched session.
func (r *Remote) Stop(t TestingT) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	r.mu.Lock()
	r.started = false
	r.mu.Unlock()

	for _, session := range r.Sessions {
		session.Verify(t)
	}
}
