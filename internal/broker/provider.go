// Package broker converts broker-supplied trade records into the journal's
// canonical schema. Each supported broker gets one Provider implementation
// that knows how to fetch its tradebook over HTTP and map its payload shape
// to models.NormalizedTrade. Providers are collected in an explicit Registry
// built at startup and passed by dependency injection; there is no package
// level mutable registry.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/guttosm/tradepulse/internal/domain/models"
)

// RawTrade is one undecoded broker record exactly as the broker's API
// returned it. Keeping the fetch result raw lets Normalize skip individually
// malformed records instead of failing the whole batch at decode time.
type RawTrade = json.RawMessage

// Provider is the capability interface implemented once per broker.
//
// FetchTrades is the only I/O boundary of the sync pipeline: it performs the
// network call and honors ctx for timeout and cancellation. It must not retry
// internally; a failed fetch aborts the sync and the error propagates to the
// caller unchanged.
//
// Normalize is pure and synchronous: broker-specific field mapping from the
// raw payload to the canonical schema. Records missing required fields are
// skipped individually, never aborting the rest of the batch.
type Provider interface {
	// Name returns the stable identifier clients use to select this broker
	// (e.g. "zerodha").
	Name() string

	// FetchTrades retrieves the broker's raw trade records using an already
	// decrypted access token. Token decryption and storage are the caller's
	// concern; this package only consumes the plain value.
	FetchTrades(ctx context.Context, accessToken string) ([]RawTrade, error)

	// Normalize maps raw records to the canonical schema, skipping malformed
	// records.
	Normalize(raw []RawTrade) []models.NormalizedTrade
}

// Registry holds the configured providers, keyed by Provider.Name().
// Construct it once at startup with NewRegistry and inject it where needed.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers. Later entries with
// a duplicate name override earlier ones.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[strings.ToLower(p.Name())] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under name (case-insensitive).
//
// Returns:
//   - Provider: the matching provider.
//   - error: when no provider is registered under that name.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown broker %q (supported: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names lists the registered broker names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
