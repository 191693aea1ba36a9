package realssh

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/ssh"
)

func TestNewFactory_RequiresAuth(t *testing.T) {
	factory := NewFactory(Options{})
	if _, err := factory(); err == nil {
		t.Error("expected error without auth methods")
	}
}

func TestNewFactory_Defaults(t *testing.T) {
	var gotConfig *ssh.ClientConfig
	opts := Options{
		Auth: []ssh.AuthMethod{ssh.Password("x")},
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			gotConfig = config
			return nil, errors.New("stop here")
		},
	}

	client, err := NewFactory(opts)()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	_ = client.Connect("web1", "deploy", 0)

	if gotConfig == nil {
		t.Fatal("dial was never called")
	}
	if gotConfig.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", gotConfig.Timeout)
	}
	if gotConfig.HostKeyCallback == nil {
		t.Error("host key callback should default")
	}
}

func TestConnect_DialsAddress(t *testing.T) {
	var gotNetwork, gotAddr, gotUser string
	dialErr := errors.New("dial refused")
	opts := Options{
		Auth: []ssh.AuthMethod{ssh.Password("x")},
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			gotNetwork, gotAddr, gotUser = network, addr, config.User
			return nil, dialErr
		},
	}

	client, err := NewFactory(opts)()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}

	err = client.Connect("web1", "deploy", 0)
	if !errors.Is(err, dialErr) {
		t.Errorf("Connect error = %v, want wrapped %v", err, dialErr)
	}
	if gotNetwork != "tcp" {
		t.Errorf("network = %q, want tcp", gotNetwork)
	}
	if gotAddr != "web1:22" {
		t.Errorf("addr = %q, want web1:22 (port 22 implied)", gotAddr)
	}
	if gotUser != "deploy" {
		t.Errorf("user = %q, want deploy", gotUser)
	}
}

func TestConnect_ExplicitPort(t *testing.T) {
	var gotAddr string
	opts := Options{
		Auth: []ssh.AuthMethod{ssh.Password("x")},
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			gotAddr = addr
			return nil, errors.New("stop here")
		},
	}

	client, _ := NewFactory(opts)()
	_ = client.Connect("web1", "deploy", 2222)
	if gotAddr != "web1:2222" {
		t.Errorf("addr = %q, want web1:2222", gotAddr)
	}
}

func TestConnect_Validation(t *testing.T) {
	opts := Options{
		Auth: []ssh.AuthMethod{ssh.Password("x")},
		Dial: func(network, addr string, config *ssh.ClientConfig) (*ssh.Client, error) {
			t.Fatal("dial should not run for invalid input")
			return nil, nil
		},
	}
	client, _ := NewFactory(opts)()

	if err := client.Connect("", "deploy", 22); err == nil {
		t.Error("expected error for empty host")
	}
	if err := client.Connect("web1", "", 22); err == nil {
		t.Error("expected error for empty user")
	}
}

func TestTransport_RequiresConnection(t *testing.T) {
	client, _ := NewFactory(Options{Auth: []ssh.AuthMethod{ssh.Password("x")}})()

	if _, err := client.Transport(); err == nil {
		t.Error("Transport should fail before Connect")
	}
	if _, err := client.OpenTransfer(); err == nil {
		t.Error("OpenTransfer should fail before Connect")
	}
}

func TestClose_Idempotent(t *testing.T) {
	client, _ := NewFactory(Options{Auth: []ssh.AuthMethod{ssh.Password("x")}})()
	if err := client.Close(); err != nil {
		t.Errorf("Close on unconnected client: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
