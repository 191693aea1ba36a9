package main

import (
	"fmt"

	"github.com/oarsail/skiff/internal/config"
	"github.com/oarsail/skiff/internal/logging"
	"github.com/oarsail/skiff/internal/remote"
	"github.com/spf13/cobra"
)

// rootFlags are the persistent flags shared by all subcommands.
type rootFlags struct {
	configPath string
	user       string
	port       int
	debug      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "skiff",
		Short:         "Run commands and move files on remote hosts over SSH",
		Version:       fmt.Sprintf("%s (%s)", Version, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to configuration file")
	cmd.PersistentFlags().StringVarP(&flags.user, "user", "u", "", "remote user (overrides config)")
	cmd.PersistentFlags().IntVarP(&flags.port, "port", "p", 0, "remote port (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newRunCmd(flags),
		newPutCmd(flags),
		newGetCmd(flags),
		newHostsCmd(flags),
	)
	return cmd
}

// loadConfig loads the config file and sets up logging from it.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if f.debug {
		level = "debug"
	}
	logging.Setup(level, cfg.SanitizeLogs())
	return cfg, nil
}

// resolveTarget turns a CLI target argument into a connectable host entry:
// config lookup, ssh_config merge, then flag overrides.
func (f *rootFlags) resolveTarget(cfg *config.Config, target string) (config.HostConfig, error) {
	host, user, port, err := remote.ParseTarget(target)
	if err != nil {
		return config.HostConfig{}, err
	}

	entry := cfg.LookupHost(host)
	entry = config.MergeSSHConfig(entry)

	if user != "" {
		entry.User = user
	}
	if port != 0 {
		entry.Port = port
	}
	if f.user != "" {
		entry.User = f.user
	}
	if f.port != 0 {
		entry.Port = f.port
	}
	if entry.User == "" {
		return config.HostConfig{}, fmt.Errorf("no user for %q: give user@host or --user", target)
	}
	return entry, nil
}

// connect builds a live connection for the resolved host entry.
func (f *rootFlags) connect(entry config.HostConfig) (*remote.Connection, error) {
	factory, err := newClientFactory(entry)
	if err != nil {
		return nil, err
	}

	target := fmt.Sprintf("%s@%s", entry.User, entry.Host)
	if entry.Port != 0 {
		target = fmt.Sprintf("%s:%d", target, entry.Port)
	}
	return remote.New(target, remote.WithFactory(factory))
}
