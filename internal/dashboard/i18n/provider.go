package i18n

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnsupportedLanguage is returned by SetLanguage for a code with no table.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Provider owns the active language for the life of the process. It is safe
// for concurrent use.
type Provider struct {
	catalog *Catalog
	store   Store

	mu   sync.RWMutex
	lang string
}

// NewProvider loads the saved language from store, defaulting to Fallback
// when nothing is saved or the saved code has no table. A nil catalog uses
// Default and a nil store keeps the preference in memory.
func NewProvider(ctx context.Context, catalog *Catalog, store Store) (*Provider, error) {
	if catalog == nil {
		catalog = Default()
	}
	if store == nil {
		store = &MemoryStore{}
	}

	saved, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load language preference: %w", err)
	}
	lang := Fallback
	if saved != "" {
		if code := Normalize(saved); catalog.Has(code) {
			lang = code
		}
	}
	return &Provider{catalog: catalog, store: store, lang: lang}, nil
}

// Language returns the active language code.
func (p *Provider) Language() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lang
}

// SetLanguage saves code to the store and then makes it active. When the
// save fails the active language is left unchanged. Readers block until
// both steps are done.
func (p *Provider) SetLanguage(ctx context.Context, code string) error {
	normalized, ok := match(code)
	if !ok || !p.catalog.Has(normalized) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store.Save(ctx, normalized); err != nil {
		return fmt.Errorf("save language preference: %w", err)
	}
	p.lang = normalized
	return nil
}

// T resolves key in the active language.
func (p *Provider) T(key string, params ...Params) string {
	var merged Params
	if len(params) == 1 {
		merged = params[0]
	} else if len(params) > 1 {
		merged = Params{}
		for _, set := range params {
			for name, value := range set {
				merged[name] = value
			}
		}
	}
	return p.catalog.Resolve(p.Language(), key, merged)
}

// Catalog returns the tables the provider resolves against.
func (p *Provider) Catalog() *Catalog {
	return p.catalog
}
