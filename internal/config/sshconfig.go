package config

import (
	"os"
	"path/filepath"

	"github.com/kevinburke/ssh_config"
)

// MergeSSHConfig fills unset fields of h from ~/.ssh/config, letting
// skiff targets reuse existing OpenSSH host aliases.
func MergeSSHConfig(h HostConfig) HostConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		return h
	}
	return mergeSSHConfigFile(h, filepath.Join(home, ".ssh", "config"))
}

func mergeSSHConfigFile(h HostConfig, path string) HostConfig {
	f, err := os.Open(path)
	if err != nil {
		return h // no ssh config is fine
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return h
	}

	alias := h.Name
	if alias == "" {
		alias = h.Host
	}

	if hostname, _ := cfg.Get(alias, "HostName"); hostname != "" {
		if h.Host == "" || h.Host == alias {
			h.Host = hostname
		}
	}
	if h.User == "" {
		if user, _ := cfg.Get(alias, "User"); user != "" {
			h.User = user
		}
	}
	if h.Port == 0 {
		if port, _ := cfg.Get(alias, "Port"); port != "" {
			h.Port = parsePort(port)
		}
	}
	if h.KeyPath == "" {
		if identity, _ := cfg.Get(alias, "IdentityFile"); identity != "" && identity != "~/.ssh/identity" {
			h.KeyPath = identity
		}
	}
	return h
}
