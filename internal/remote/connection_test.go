package remote_test

import (
	"errors"
	"testing"
	"time"

	"github.com/oarsail/skiff/internal/ports"
	"github.com/oarsail/skiff/internal/remote"
	"github.com/oarsail/skiff/internal/testing/fakes/fakeclock"
	"github.com/oarsail/skiff/internal/testing/mockremote"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		target  string
		host    string
		user    string
		port    int
		wantErr bool
	}{
		{target: "web1", host: "web1"},
		{target: "deploy@web1", host: "web1", user: "deploy"},
		{target: "deploy@web1:2222", host: "web1", user: "deploy", port: 2222},
		{target: "web1:22", host: "web1", port: 22},
		{target: "deploy@", wantErr: true},
		{target: "web1:notaport", wantErr: true},
		{target: "web1:70000", wantErr: true},
		{target: "", wantErr: true},
	}

	for _, tt := range tests {
		host, user, port, err := remote.ParseTarget(tt.target)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTarget(%q): expected error", tt.target)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTarget(%q): %v", tt.target, err)
			continue
		}
		if host != tt.host || user != tt.user || port != tt.port {
			t.Errorf("ParseTarget(%q) = (%q, %q, %d), want (%q, %q, %d)",
				tt.target, host, user, port, tt.host, tt.user, tt.port)
		}
	}
}

func TestNew_RequiresFactory(t *testing.T) {
	_, err := remote.New("deploy@web1")
	if err == nil {
		t.Fatal("expected error without a factory")
	}
}

// newConnection builds a connection wired to the harness factory and a
// fake clock.
func newConnection(t *testing.T, target string, r *mockremote.Remote, clk ports.Clock) *remote.Connection {
	t.Helper()
	conn, err := remote.New(target, remote.WithFactory(r.Factory()), remote.WithClock(clk))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return conn
}

func TestRun_EndToEnd(t *testing.T) {
	sessions := []*mockremote.Session{
		mockremote.SessionFor(
			&mockremote.Command{Cmd: "whoami", Out: []byte("root\n")},
			&mockremote.Command{Cmd: "uname", Out: []byte("Linux\n"), Waits: 2},
		),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		clk := fakeclock.New(time.Unix(0, 0))
		conn := newConnection(t, "root@web1", r, clk)

		res, err := conn.Run("whoami", remote.RunOpts{})
		if err != nil {
			t.Fatalf("Run(whoami): %v", err)
		}
		if string(res.Stdout) != "root\n" {
			t.Errorf("whoami stdout = %q, want %q", res.Stdout, "root\n")
		}
		if !res.OK() {
			t.Errorf("whoami exited %d, want 0", res.Exited)
		}

		res, err = conn.Run("uname", remote.RunOpts{})
		if err != nil {
			t.Fatalf("Run(uname): %v", err)
		}
		if string(res.Stdout) != "Linux\n" {
			t.Errorf("uname stdout = %q, want %q", res.Stdout, "Linux\n")
		}

		// The first command was ready immediately; only the second
		// needed polling: false, false, then true, with one sleep per
		// not-ready poll.
		if got := channels[0].Polls(); got != 1 {
			t.Errorf("whoami polls = %d, want 1", got)
		}
		if got := channels[1].Polls(); got != 3 {
			t.Errorf("uname polls = %d, want 3", got)
		}
		if got := len(clk.Sleeps()); got != 2 {
			t.Errorf("poll sleeps = %d, want 2", got)
		}
	})
}

func TestRun_StderrAndExitCode(t *testing.T) {
	sessions := []*mockremote.Session{
		mockremote.MustSession(mockremote.SessionConfig{
			Cmd:  "false",
			Err:  []byte("boom\n"),
			Exit: 1,
		}),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		conn := newConnection(t, "root@web1", r, fakeclock.New(time.Unix(0, 0)))

		res, err := conn.Run("false", remote.RunOpts{})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.OK() {
			t.Error("expected non-zero exit")
		}
		if res.Exited != 1 {
			t.Errorf("exited = %d, want 1", res.Exited)
		}
		if string(res.Stderr) != "boom\n" {
			t.Errorf("stderr = %q, want %q", res.Stderr, "boom\n")
		}
	})
}

func TestRun_ForwardsStdin(t *testing.T) {
	sessions := []*mockremote.Session{
		mockremote.SessionFor(&mockremote.Command{Cmd: "cat", In: []byte("hello")}),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		conn := newConnection(t, "root@web1", r, fakeclock.New(time.Unix(0, 0)))

		if _, err := conn.Run("cat", remote.RunOpts{Stdin: []byte("hello")}); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got := string(channels[0].Stdin()); got != "hello" {
			t.Errorf("recorded stdin = %q, want %q", got, "hello")
		}
	})
}

func TestRun_SmallChunksReassemble(t *testing.T) {
	out := []byte("a somewhat longer stdout payload than one chunk")
	sessions := []*mockremote.Session{
		mockremote.SessionFor(&mockremote.Command{Cmd: "blob", Out: out, Waits: 1}),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		conn := newConnection(t, "root@web1", r, fakeclock.New(time.Unix(0, 0)))

		res, err := conn.Run("blob", remote.RunOpts{ChunkSize: 7})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if string(res.Stdout) != string(out) {
			t.Errorf("stdout = %q, want %q", res.Stdout, out)
		}
	})
}

func TestRun_TwoConnectionsInOrder(t *testing.T) {
	sessions := []*mockremote.Session{
		mockremote.MustSession(mockremote.SessionConfig{
			Host: "web1", User: "root", Cmd: "uptime",
		}),
		mockremote.MustSession(mockremote.SessionConfig{
			Host: "web2", User: "root", Cmd: "uptime",
		}),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		for _, host := range []string{"web1", "web2"} {
			conn := newConnection(t, "root@"+host, r, fakeclock.New(time.Unix(0, 0)))
			if _, err := conn.Run("uptime", remote.RunOpts{}); err != nil {
				t.Fatalf("Run on %s: %v", host, err)
			}
		}
	})
}

func TestRun_ConnectOnceForMultipleCommands(t *testing.T) {
	sessions := []*mockremote.Session{
		mockremote.SessionFor(
			&mockremote.Command{Cmd: "first"},
			&mockremote.Command{Cmd: "second"},
		),
	}

	mockremote.Run(t, sessions, func(r *mockremote.Remote, channels []*mockremote.Channel) {
		conn := newConnection(t, "root@web1", r, fakeclock.New(time.Unix(0, 0)))
		if _, err := conn.Run("first", remote.RunOpts{}); err != nil {
			t.Fatalf("Run(first): %v", err)
		}
		if _, err := conn.Run("second", remote.RunOpts{}); err != nil {
			t.Fatalf("Run(second): %v", err)
		}
		if !conn.IsOpen() {
			t.Error("connection should stay open across commands")
		}
	})
}

func TestOpen_FactoryErrorPropagates(t *testing.T) {
	factoryErr := errors.New("factory exhausted")
	factory := func() (ports.Client, error) { return nil, factoryErr }

	conn, err := remote.New("root@web1", remote.WithFactory(factory))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := conn.Open(); !errors.Is(err, factoryErr) {
		t.Errorf("Open error = %v, want wrapped %v", err, factoryErr)
	}
}

func TestConnection_Addr(t *testing.T) {
	conn, err := remote.New("root@web1", remote.WithFactory(func() (ports.Client, error) {
		return nil, errors.New("unused")
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := conn.Addr(); got != "web1:22" {
		t.Errorf("Addr = %q, want %q", got, "web1:22")
	}
}
