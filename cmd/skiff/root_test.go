package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oarsail/skiff/internal/config"
)

// isolateHome points HOME at an empty directory so resolveTarget does not
// pick up the developer's real ~/.ssh/config.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", "")
}

func TestResolveTarget_TargetUserWins(t *testing.T) {
	isolateHome(t)
	flags := &rootFlags{}
	cfg := &config.Config{Defaults: config.Defaults{User: "root"}}

	entry, err := flags.resolveTarget(cfg, "deploy@web1:2222")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if entry.Host != "web1" || entry.User != "deploy" || entry.Port != 2222 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestResolveTarget_FlagsOverrideEverything(t *testing.T) {
	isolateHome(t)
	flags := &rootFlags{user: "admin", port: 9022}
	cfg := &config.Config{
		Hosts: []config.HostConfig{{Name: "web1", Host: "web1.internal", User: "deploy", Port: 22}},
	}

	entry, err := flags.resolveTarget(cfg, "other@web1:2222")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if entry.Host != "web1.internal" {
		t.Errorf("host = %q, want config host", entry.Host)
	}
	if entry.User != "admin" || entry.Port != 9022 {
		t.Errorf("entry = %+v, want flag overrides", entry)
	}
}

func TestResolveTarget_ConfigFillsUser(t *testing.T) {
	isolateHome(t)
	flags := &rootFlags{}
	cfg := &config.Config{
		Hosts:    []config.HostConfig{{Name: "web1", Host: "web1.internal"}},
		Defaults: config.Defaults{User: "root"},
	}

	entry, err := flags.resolveTarget(cfg, "web1")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if entry.User != "root" {
		t.Errorf("user = %q, want default root", entry.User)
	}
}

func TestResolveTarget_NoUserFails(t *testing.T) {
	isolateHome(t)
	flags := &rootFlags{}

	if _, err := flags.resolveTarget(&config.Config{}, "web1"); err == nil {
		t.Error("expected error when no user is resolvable")
	}
}

func TestResolveTarget_BadTarget(t *testing.T) {
	isolateHome(t)
	flags := &rootFlags{}

	if _, err := flags.resolveTarget(&config.Config{}, "web1:badport"); err == nil {
		t.Error("expected error for invalid target")
	}
}

func TestHostName(t *testing.T) {
	if got := hostName(config.HostConfig{Name: "web", Host: "web1.internal"}); got != "web" {
		t.Errorf("hostName = %q, want web", got)
	}
	if got := hostName(config.HostConfig{Host: "web1.internal"}); got != "web1.internal" {
		t.Errorf("hostName = %q, want web1.internal", got)
	}
}

func TestHostsCmd_NoHosts(t *testing.T) {
	isolateHome(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"hosts"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(out.String(), "no hosts configured") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"run", "put", "get", "hosts"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}
