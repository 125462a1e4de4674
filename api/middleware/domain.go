package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/verdantlabs/seedmarket-backend/pkg/config"
	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
)

const domainHeader = "X-Storefront-Domain"

// DomainContext resolves the storefront domain for the request and seeds it
// into the context and log fields. The X-Storefront-Domain header wins over
// the Host TLD; unknown hosts fall back to the configured default.
func DomainContext(cfg config.StorefrontConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	fallback, err := enums.ParseDomain(cfg.DefaultDomain)
	if err != nil {
		fallback = enums.DomainEN
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			domain := resolveDomain(r, fallback)

			ctx := WithDomain(r.Context(), domain)
			if logg != nil {
				ctx = logg.WithDomain(ctx, string(domain))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveDomain(r *http.Request, fallback enums.Domain) enums.Domain {
	if header := strings.TrimSpace(r.Header.Get(domainHeader)); header != "" {
		if domain, err := enums.ParseDomain(header); err == nil {
			return domain
		}
	}

	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if idx := strings.LastIndex(host, "."); idx >= 0 {
		if domain, err := enums.ParseDomain(host[idx+1:]); err == nil {
			return domain
		}
	}
	return fallback
}
