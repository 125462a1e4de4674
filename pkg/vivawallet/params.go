package vivawallet

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
)

// transactionStatusCompleted is the provider's settled-payment status.
const transactionStatusCompleted = "F"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// CreateOrderParams describes one hosted checkout session request.
type CreateOrderParams struct {
	Amount          decimal.Decimal
	CustomerEmail   string
	CustomerName    string
	MerchantRef     string
	RequestLang     string
	PreferredMethod string
}

func (p CreateOrderParams) validate() error {
	if !p.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if p.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if p.MerchantRef == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "merchant reference is required")
	}
	return nil
}

func (p CreateOrderParams) toRequest(sourceCode string, timeoutSeconds int) createOrderRequest {
	return createOrderRequest{
		Amount:         MinorUnits(p.Amount),
		CustomerTrns:   p.MerchantRef,
		MerchantTrns:   p.MerchantRef,
		SourceCode:     sourceCode,
		PaymentTimeout: timeoutSeconds,
		Customer: orderCustomer{
			Email:       p.CustomerEmail,
			FullName:    p.CustomerName,
			RequestLang: p.RequestLang,
		},
	}
}

// MinorUnits converts a major-unit decimal amount into the provider's
// minor-unit integer representation (multiply by 100, round).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type createOrderRequest struct {
	Amount         int64         `json:"amount"`
	CustomerTrns   string        `json:"customerTrns"`
	MerchantTrns   string        `json:"merchantTrns"`
	SourceCode     string        `json:"sourceCode,omitempty"`
	PaymentTimeout int           `json:"paymentTimeout"`
	Customer       orderCustomer `json:"customer"`
}

type orderCustomer struct {
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	RequestLang string `json:"requestLang,omitempty"`
}

type createOrderResponse struct {
	OrderCode int64 `json:"orderCode"`
}

type transactionResponse struct {
	StatusID        string          `json:"statusId"`
	OrderCode       int64           `json:"orderCode"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethodID string          `json:"paymentMethod"`
	Email           string          `json:"email"`
}

// CreateOrderResult carries the provider's order code and the hosted page
// the customer is redirected to.
type CreateOrderResult struct {
	ProviderOrderCode string
	CheckoutURL       string
}

// VerifyResult is the outcome of an independent transaction lookup.
// Verified is true only when the provider reports the settled status.
type VerifyResult struct {
	Verified      bool
	StatusID      string
	OrderCode     string
	PaymentMethod string
	Amount        decimal.Decimal
}
