package credential

import (
	"fmt"
	"os"

	"github.com/neboloop/cryptoportal/internal/config"
	"github.com/neboloop/cryptoportal/internal/defaults"
	"github.com/neboloop/cryptoportal/internal/keyring"
)

// envStore exposes Env through the Store interface for the current process only.
type envStore struct {
	Env
}

func (s envStore) SetToken(token string) error {
	return os.Setenv(string(s.Env), token)
}

func (s envStore) ClearToken() error {
	return os.Unsetenv(string(s.Env))
}

// Open selects the configured token store.
func Open(c config.Config) (Store, error) {
	cc := c.Credentials
	switch cc.Source {
	case "file":
		path := cc.FilePath
		if path == "" {
			p, err := defaults.StoragePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewFileStore(path, cc.Key), nil
	case "keyring":
		if !keyring.Available() {
			return nil, fmt.Errorf("credentials source %q: OS keychain unavailable", cc.Source)
		}
		return NewKeyringStore(cc.KeyringService, cc.Key), nil
	case "env":
		return envStore{Env(cc.EnvVar)}, nil
	default:
		return nil, fmt.Errorf("unknown credentials source %q", cc.Source)
	}
}
