package platform

import (
	"github.com/aretw0/silt/pkg/adapters/rest"
	"github.com/aretw0/silt/pkg/core"
)

// New assembles the session-gated service: REST gateways (unless custom ones
// are injected), the Session, the Cache, and the Service composing them.
// One Service per process is the intended usage; the Session it owns is the
// process's single authentication state.
func New(cfg rest.Config, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	account := o.account
	notes := o.notes
	if account == nil || notes == nil {
		var clientOpts []rest.Option
		if o.logger != nil {
			clientOpts = append(clientOpts, rest.WithLogger(o.logger))
		}
		if o.httpClient != nil {
			clientOpts = append(clientOpts, rest.WithHTTPClient(o.httpClient))
		}
		if o.tokens != nil {
			clientOpts = append(clientOpts, rest.WithTokenStore(o.tokens))
		}
		client, err := rest.NewClient(cfg, clientOpts...)
		if err != nil {
			return nil, err
		}
		if account == nil {
			account = client
		}
		if notes == nil {
			notes = client
		}
	}

	session := core.NewSession(account, o.logger)
	cache := core.NewCache(notes, o.logger)
	return core.NewService(session, cache, o.logger), nil
}
