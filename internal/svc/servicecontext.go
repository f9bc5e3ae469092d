package svc

import (
	"fmt"
	"net/http"

	"github.com/neboloop/cryptoportal/internal/config"
	"github.com/neboloop/cryptoportal/internal/credential"
	"github.com/neboloop/cryptoportal/internal/cryptoapi"
	"github.com/neboloop/cryptoportal/internal/logging"
	"github.com/neboloop/cryptoportal/internal/resetflow"
)

type ServiceContext struct {
	Config config.Config

	// API is the shared client. It carries the operator's stored token and is
	// used by the terminal front end; web requests derive their own with For.
	API *cryptoapi.Client
	// Tokens is the configured token store.
	Tokens credential.Store
}

// Option customizes a ServiceContext during construction.
type Option func(*options)

type options struct {
	tokens    credential.Store
	transport http.RoundTripper
}

// WithTokens replaces the store chosen from configuration.
func WithTokens(s credential.Store) Option {
	return func(o *options) { o.tokens = s }
}

// WithTransport sets the HTTP transport used for backend calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// NewServiceContext wires the token store and API client from c.
func NewServiceContext(c config.Config, opts ...Option) (*ServiceContext, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tokens := o.tokens
	if tokens == nil {
		s, err := credential.Open(c)
		if err != nil {
			return nil, fmt.Errorf("open token store: %w", err)
		}
		tokens = s
	}

	api, err := cryptoapi.New(cryptoapi.Config{
		BaseURL:         c.API.BaseURL,
		WithCredentials: c.IsWithCredentials(),
		Timeout:         c.API.Timeout,
		Transport:       o.transport,
	}, tokens)
	if err != nil {
		return nil, err
	}

	logging.Debugf("api client ready: base=%s credentials=%s", api.BaseURL(), c.Credentials.Source)
	return &ServiceContext{
		Config: c,
		API:    api,
		Tokens: tokens,
	}, nil
}

// PageOptions are the resetflow options every front end shares.
func (s *ServiceContext) PageOptions() []resetflow.Option {
	return []resetflow.Option{
		resetflow.WithLoginPath(s.Config.App.LoginPath),
		resetflow.WithRedirectDelay(s.Config.App.RedirectDelay),
	}
}
