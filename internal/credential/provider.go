package credential

import "sync"

// Provider hands out the current token, reading the store lazily once.
// Invalidate clears the token for every holder of the Provider.
type Provider struct {
	mu     sync.Mutex
	store  Store
	token  string
	loaded bool
}

// NewProvider creates a Provider over store.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

// Token returns the current token, or "" if none is configured.
func (p *Provider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.loaded {
		return p.token, nil
	}
	token, err := p.store.Load()
	if err != nil {
		return "", err
	}
	p.token = token
	p.loaded = true
	return token, nil
}

// Set persists token and makes it current.
func (p *Provider) Set(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Save(token); err != nil {
		return err
	}
	p.token = token
	p.loaded = true
	return nil
}

// Invalidate forgets the token and deletes it from the store.
func (p *Provider) Invalidate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.token = ""
	p.loaded = true
	return p.store.Delete()
}
