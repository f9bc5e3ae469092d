package keyring

import (
	"errors"
	"fmt"
	"os"

	zkr "github.com/zalando/go-keyring"
)

// DisabledEnv opts out of the OS keychain (headless/CI/Docker).
const DisabledEnv = "CRYPTOPORTAL_KEYRING_DISABLED"

// ErrNotFound is returned when no secret is stored for the account.
var ErrNotFound = errors.New("keychain: secret not found")

// Get retrieves a secret from the OS keychain.
func Get(service, account string) (string, error) {
	v, err := zkr.Get(service, account)
	if errors.Is(err, zkr.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keychain get: %w", err)
	}
	return v, nil
}

// Set stores a secret in the OS keychain.
func Set(service, account, secret string) error {
	if err := zkr.Set(service, account, secret); err != nil {
		return fmt.Errorf("keychain set: %w", err)
	}
	return nil
}

// Delete removes a secret from the OS keychain. Deleting a missing secret is not an error.
func Delete(service, account string) error {
	err := zkr.Delete(service, account)
	if err != nil && !errors.Is(err, zkr.ErrNotFound) {
		return fmt.Errorf("keychain delete: %w", err)
	}
	return nil
}

// Available returns true if the OS keychain is functional.
// Returns false if CRYPTOPORTAL_KEYRING_DISABLED=1 is set.
// Otherwise probes the keychain with a test write/read/delete cycle.
func Available() bool {
	if os.Getenv(DisabledEnv) == "1" {
		return false
	}
	testService := "cryptoportal-keyring-probe"
	testAccount := "probe"
	if err := zkr.Set(testService, testAccount, "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(testService, testAccount)
	return true
}
