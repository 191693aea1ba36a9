package mockremote

// Run wraps a test body with a started harness built from the given
// sessions (nil or empty implies one default session). The body receives
// the flattened channel simulators, one per scripted command in global
// order across all sessions. Stop always runs afterward, so verification
// happens and the factory is disarmed even when the body fails or
// panics; no scripted state leaks into later tests.
func Run(t TestingT, sessions []*Session, body func(remote *Remote, channels []*Channel)) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}

	remote := NewRemote(sessions...)
	channels := remote.Start()
	defer remote.Stop(t)
	body(remote, channels)
}

// RunDefault is the bare form of Run: one default session with one
// default command.
func RunDefault(t TestingT, body func(remote *Remote, channels []*Channel)) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	Run(t, nil, body)
}
