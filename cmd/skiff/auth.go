package main

import (
	"fmt"
	"os"

	"github.com/oarsail/skiff/internal/adapters/realssh"
	"github.com/oarsail/skiff/internal/config"
	"github.com/oarsail/skiff/internal/dialog"
	"github.com/oarsail/skiff/internal/ports"
	"github.com/oarsail/skiff/internal/security"
	"golang.org/x/crypto/ssh"
)

// newClientFactory assembles auth methods for the host entry and returns
// a factory for real SSH clients. Order: private key, password from the
// configured env var, password from the OS keyring, interactive prompt.
func newClientFactory(entry config.HostConfig) (ports.ClientFactory, error) {
	var methods []ssh.AuthMethod

	if entry.KeyPath != "" {
		signer, err := loadPrivateKey(entry.KeyPath)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if entry.PasswordEnv != "" {
		if password := os.Getenv(entry.PasswordEnv); password != "" {
			methods = append(methods, ssh.Password(password))
		}
	}

	if len(methods) == 0 {
		keyringStore := security.NewKeyringStore()
		password, found, err := keyringStore.LookupPassword(entry.User, entry.Host)
		if err != nil {
			return nil, err
		}
		if !found {
			password, err = dialog.AskPassword(
				fmt.Sprintf("Password for %s@%s", entry.User, entry.Host),
				"Stored in the OS keyring for next time when available.",
			)
			if err != nil {
				return nil, err
			}
			if keyringStore.IsEnabled() {
				_ = keyringStore.StorePassword(entry.User, entry.Host, password)
			}
		}
		methods = append(methods, ssh.Password(password))
	}

	opts := realssh.DefaultOptions()
	opts.Auth = methods
	return realssh.NewFactory(opts), nil
}

// loadPrivateKey reads and parses a private key, prompting for the
// passphrase when the key is encrypted.
func loadPrivateKey(path string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		return signer, nil
	}
	if _, ok := err.(*ssh.PassphraseMissingError); !ok {
		return nil, fmt.Errorf("parse key %s: %w", path, err)
	}

	passphrase, err := dialog.AskPassword(
		fmt.Sprintf("Passphrase for %s", path),
		"The key is encrypted.",
	)
	if err != nil {
		return nil, err
	}
	signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	if err != nil {
		return nil, fmt.Errorf("decrypt key %s: %w", path, err)
	}
	return signer, nil
}
