package vivawallet

import (
	"testing"

	"github.com/verdantlabs/seedmarket-backend/pkg/enums"
)

func TestMethodsForDomainRegionalEntries(t *testing.T) {
	cases := map[enums.Domain][]enums.PaymentMethod{
		enums.DomainNL: {enums.PaymentMethodIdeal, enums.PaymentMethodCard},
		enums.DomainDE: {enums.PaymentMethodSofort, enums.PaymentMethodGiropay, enums.PaymentMethodCard},
		enums.DomainBE: {enums.PaymentMethodBancontact, enums.PaymentMethodCard},
		enums.DomainFR: {enums.PaymentMethodCartesBanc, enums.PaymentMethodCard},
		enums.DomainEN: {enums.PaymentMethodCard},
	}

	for domain, want := range cases {
		got := MethodsForDomain(domain)
		if len(got) != len(want) {
			t.Fatalf("%s: expected %d methods, got %d", domain, len(want), len(got))
		}
		for i, method := range want {
			if got[i].ID != method {
				t.Fatalf("%s: expected %s at position %d, got %s", domain, method, i, got[i].ID)
			}
			if got[i].DisplayName == "" {
				t.Fatalf("%s: missing display name for %s", domain, method)
			}
		}
	}
}

func TestMethodsForDomainCardIsAlwaysLast(t *testing.T) {
	for _, domain := range []enums.Domain{enums.DomainNL, enums.DomainDE, enums.DomainBE, enums.DomainFR, enums.DomainEN} {
		got := MethodsForDomain(domain)
		if len(got) == 0 {
			t.Fatalf("%s: empty menu", domain)
		}
		if got[len(got)-1].ID != enums.PaymentMethodCard {
			t.Fatalf("%s: card fallback must be last, got %s", domain, got[len(got)-1].ID)
		}
	}
}

func TestMethodsForDomainUnknownDomainFallsBackToCard(t *testing.T) {
	got := MethodsForDomain(enums.Domain("xx"))
	if len(got) != 1 || got[0].ID != enums.PaymentMethodCard {
		t.Fatalf("unknown domain should only offer card, got %v", got)
	}
}
