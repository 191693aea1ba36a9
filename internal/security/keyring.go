// Package security provides secure credential handling for skiff.
package security

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/zalando/go-keyring"
)

// KeyringService is the service name used for keyring entries.
const KeyringService = "skiff"

// KeyringStore stores SSH passwords and key passphrases in the OS keyring
// (macOS Keychain, Linux Secret Service, Windows Credential Manager).
type KeyringStore struct {
	mu      sync.RWMutex
	enabled bool
}

// NewKeyringStore creates a keyring store, probing once for availability.
// On headless systems without a keyring the store stays disabled and all
// operations report that.
func NewKeyringStore() *KeyringStore {
	ks := &KeyringStore{enabled: true}

	probe := "__skiff_probe__"
	if err := keyring.Set(KeyringService, probe, "probe"); err != nil {
		slog.Debug("keyring not available", slog.String("error", err.Error()))
		ks.enabled = false
		return ks
	}
	_ = keyring.Delete(KeyringService, probe)
	return ks
}

// IsEnabled returns true if the keyring is available.
func (ks *KeyringStore) IsEnabled() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return ks.enabled
}

// SetEnabled allows switching keyring usage off (or back on) explicitly.
func (ks *KeyringStore) SetEnabled(enabled bool) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.enabled = enabled
}

// account builds the keyring account key for a connection target.
func account(user, host string) string {
	return user + "@" + host
}

// StorePassword saves the SSH password for user@host.
func (ks *KeyringStore) StorePassword(user, host, password string) error {
	if !ks.IsEnabled() {
		return fmt.Errorf("keyring not available")
	}
	if err := keyring.Set(KeyringService, account(user, host), password); err != nil {
		return fmt.Errorf("store password for %s: %w", account(user, host), err)
	}
	return nil
}

// LookupPassword retrieves the stored SSH password for user@host. A
// missing entry returns ("", false, nil).
func (ks *KeyringStore) LookupPassword(user, host string) (string, bool, error) {
	if !ks.IsEnabled() {
		return "", false, nil
	}
	secret, err := keyring.Get(KeyringService, account(user, host))
	if err == keyring.ErrNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup password for %s: %w", account(user, host), err)
	}
	return secret, true, nil
}

// DeletePassword removes the stored SSH password for user@host.
func (ks *KeyringStore) DeletePassword(user, host string) error {
	if !ks.IsEnabled() {
		return fmt.Errorf("keyring not available")
	}
	err := keyring.Delete(KeyringService, account(user, host))
	if err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("delete password for %s: %w", account(user, host), err)
	}
	return nil
}
