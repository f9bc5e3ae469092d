package credential

import (
	"errors"

	"github.com/neboloop/cryptoportal/internal/keyring"
	"github.com/neboloop/cryptoportal/internal/logging"
)

// KeyringStore keeps the token in the OS keychain.
type KeyringStore struct {
	service string
	account string
}

func NewKeyringStore(service, account string) *KeyringStore {
	return &KeyringStore{service: service, account: account}
}

func (s *KeyringStore) Token() (string, bool) {
	v, err := keyring.Get(s.service, s.account)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			logging.Warnf("read token from keychain: %v", err)
		}
		return "", false
	}
	return normalize(v, true)
}

func (s *KeyringStore) SetToken(token string) error {
	return keyring.Set(s.service, s.account, token)
}

func (s *KeyringStore) ClearToken() error {
	return keyring.Delete(s.service, s.account)
}
