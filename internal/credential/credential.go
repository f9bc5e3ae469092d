// Package credential supplies the access token attached to outgoing API calls.
//
// Providers are asked for the token on every request, never at construction,
// so a token written after a client was built is picked up immediately.
package credential

import (
	"net/http"
	"os"
	"strings"
)

// Provider reports the currently persisted access token, if any.
type Provider interface {
	Token() (string, bool)
}

// Store is a Provider that can also persist and clear the token.
type Store interface {
	Provider
	SetToken(token string) error
	ClearToken() error
}

// Func adapts a function to Provider.
type Func func() (string, bool)

func (f Func) Token() (string, bool) {
	if f == nil {
		return "", false
	}
	return normalize(f())
}

// Static always reports the same token. An empty token means none.
type Static string

func (s Static) Token() (string, bool) {
	return normalize(string(s), true)
}

// None never reports a token.
var None Provider = Static("")

// Env reads the named environment variable on every call.
type Env string

func (e Env) Token() (string, bool) {
	return normalize(os.LookupEnv(string(e)))
}

// Cookie reports the token the browser sent with r under the given cookie name.
func Cookie(r *http.Request, name string) Provider {
	return Func(func() (string, bool) {
		c, err := r.Cookie(name)
		if err != nil {
			return "", false
		}
		return c.Value, true
	})
}

func normalize(token string, ok bool) (string, bool) {
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
