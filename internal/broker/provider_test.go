package broker

import (
	"strings"
	"testing"
)

func TestRegistry_Get(t *testing.T) {
	registry := NewRegistry(
		&stubProvider{name: "zerodha"},
		&stubProvider{name: "dhan"},
	)

	tests := []struct {
		name    string
		lookup  string
		wantErr bool
	}{
		{name: "exact match", lookup: "zerodha"},
		{name: "case insensitive", lookup: "ZeRoDhA"},
		{name: "surrounding whitespace", lookup: "  dhan "},
		{name: "unknown broker", lookup: "upstox", wantErr: true},
		{name: "empty name", lookup: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := registry.Get(tt.lookup)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Get(%q) expected error, got provider %v", tt.lookup, p)
				}
				if !strings.Contains(err.Error(), "dhan, zerodha") {
					t.Errorf("error should list supported brokers, got %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.lookup, err)
			}
			if p == nil {
				t.Fatalf("Get(%q) returned nil provider", tt.lookup)
			}
		})
	}
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry(
		&stubProvider{name: "zerodha"},
		&stubProvider{name: "dhan"},
	)

	names := registry.Names()
	if len(names) != 2 || names[0] != "dhan" || names[1] != "zerodha" {
		t.Errorf("Names() = %v, want sorted [dhan zerodha]", names)
	}
}
