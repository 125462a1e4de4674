package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/verdantlabs/seedmarket-backend/pkg/config"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
)

func resolveThroughMiddleware(t *testing.T, cfg config.StorefrontConfig, mutate func(*http.Request)) enums.Domain {
	t.Helper()

	var got enums.Domain
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = DomainFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	mutate(req)
	DomainContext(cfg, nil)(next).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestDomainContextHeaderWinsOverHost(t *testing.T) {
	got := resolveThroughMiddleware(t, config.StorefrontConfig{DefaultDomain: "en"}, func(r *http.Request) {
		r.Host = "seedmarket.de"
		r.Header.Set("X-Storefront-Domain", "fr")
	})
	if got != enums.DomainFR {
		t.Fatalf("header should win, got %s", got)
	}
}

func TestDomainContextResolvesHostTLD(t *testing.T) {
	cases := map[string]enums.Domain{
		"seedmarket.nl":      enums.DomainNL,
		"seedmarket.de":      enums.DomainDE,
		"seedmarket.be":      enums.DomainBE,
		"seedmarket.fr":      enums.DomainFR,
		"seedmarket.nl:8080": enums.DomainNL,
	}
	for host, want := range cases {
		got := resolveThroughMiddleware(t, config.StorefrontConfig{DefaultDomain: "en"}, func(r *http.Request) {
			r.Host = host
		})
		if got != want {
			t.Fatalf("host %s: expected %s, got %s", host, want, got)
		}
	}
}

func TestDomainContextFallsBackOnUnknownHost(t *testing.T) {
	got := resolveThroughMiddleware(t, config.StorefrontConfig{DefaultDomain: "nl"}, func(r *http.Request) {
		r.Host = "localhost:3000"
	})
	if got != enums.DomainNL {
		t.Fatalf("expected configured fallback, got %s", got)
	}

	got = resolveThroughMiddleware(t, config.StorefrontConfig{DefaultDomain: "not-a-domain"}, func(r *http.Request) {
		r.Host = "localhost:3000"
	})
	if got != enums.DomainEN {
		t.Fatalf("bad default must fall back to en, got %s", got)
	}
}

func TestDomainContextIgnoresBogusHeader(t *testing.T) {
	got := resolveThroughMiddleware(t, config.StorefrontConfig{DefaultDomain: "en"}, func(r *http.Request) {
		r.Host = "seedmarket.be"
		r.Header.Set("X-Storefront-Domain", "xx")
	})
	if got != enums.DomainBE {
		t.Fatalf("bogus header must fall through to the host, got %s", got)
	}
}
