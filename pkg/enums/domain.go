package enums

import "fmt"

// Domain identifies one storefront region/locale. Pricing and the payment
// method menu are keyed by it; resolution from the request host happens in
// middleware.
type Domain string

const (
	DomainNL Domain = "nl"
	DomainDE Domain = "de"
	DomainBE Domain = "be"
	DomainFR Domain = "fr"
	DomainEN Domain = "en"
)

var validDomains = []Domain{
	DomainNL,
	DomainDE,
	DomainBE,
	DomainFR,
	DomainEN,
}

// String implements fmt.Stringer.
func (d Domain) String() string {
	return string(d)
}

// IsValid reports whether the domain tag is recognized.
func (d Domain) IsValid() bool {
	for _, candidate := range validDomains {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDomain converts a raw string into a Domain.
func ParseDomain(value string) (Domain, error) {
	for _, candidate := range validDomains {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storefront domain %q", value)
}
