package vivawallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/verdantlabs/seedmarket-backend/pkg/config"
	pkgerrors "github.com/verdantlabs/seedmarket-backend/pkg/errors"
	"github.com/verdantlabs/seedmarket-backend/pkg/logger"
)

const (
	demoEnv       = "demo"
	productionEnv = "production"

	// tokens are refreshed this long before the provider expires them
	tokenExpiryLeeway = 60 * time.Second
)

var (
	errClientIDRequired     = errors.New("viva client id is required")
	errClientSecretRequired = errors.New("viva client secret is required")
	errLoggerRequired       = errors.New("viva logger is required")
	errInvalidVivaEnv       = fmt.Errorf("viva environment must be %q or %q", demoEnv, productionEnv)
)

var apiBaseURLs = map[string]string{
	demoEnv:       "https://demo-api.vivapayments.com",
	productionEnv: "https://api.vivapayments.com",
}

var accountsBaseURLs = map[string]string{
	demoEnv:       "https://demo-accounts.vivapayments.com",
	productionEnv: "https://accounts.vivapayments.com",
}

var checkoutBaseURLs = map[string]string{
	demoEnv:       "https://demo.vivapayments.com",
	productionEnv: "https://www.vivapayments.com",
}

// Client wraps the provider's smart checkout API: OAuth2 client-credentials
// token exchange, hosted order creation, and transaction verification. All
// credentials come from injected configuration.
type Client struct {
	httpClient     *http.Client
	clientID       string
	clientSecret   string
	sourceCode     string
	environment    string
	apiBase        string
	accountsBase   string
	checkoutBase   string
	sessionTimeout time.Duration
	logger         *logger.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient initializes the provider wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.VivaConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errClientIDRequired
	}
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientSecret == "" {
		return nil, errClientSecretRequired
	}

	sessionTimeout := cfg.SessionTimeout
	if sessionTimeout <= 0 {
		sessionTimeout = 5 * time.Minute
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 15 * time.Second
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: requestTimeout},
		clientID:       clientID,
		clientSecret:   clientSecret,
		sourceCode:     strings.TrimSpace(cfg.SourceCode),
		environment:    env,
		apiBase:        apiBaseURLs[env],
		accountsBase:   accountsBaseURLs[env],
		checkoutBase:   checkoutBaseURLs[env],
		sessionTimeout: sessionTimeout,
		logger:         logg,
	}

	logg.Info(ctx, "viva client initialized")
	return c, nil
}

// Environment reports the normalized provider environment.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// Token returns a bearer token, exchanging client credentials when the
// cached one is missing or close to expiry.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpiryLeeway)) {
		return c.token, nil
	}

	var tokenResp tokenResponse
	backoff := retry.WithMaxRetries(2, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.fetchToken(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		tokenResp = *resp
		return nil
	})
	if err != nil {
		c.log(ctx, "error", "token", map[string]any{"error": err.Error()})
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquire provider token")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	c.log(ctx, "response", "token", map[string]any{"expires_in": tokenResp.ExpiresIn})
	return c.token, nil
}

func (c *Client) fetchToken(ctx context.Context) (*tokenResponse, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accountsBase+"/connect/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return nil, errors.New("token endpoint returned no access token")
	}
	return &decoded, nil
}

// CreatePaymentOrder requests a hosted checkout session. The amount is
// converted to the provider's minor-unit representation and the session is
// limited to the configured timeout (5 minutes by default).
func (c *Client) CreatePaymentOrder(ctx context.Context, params CreateOrderParams) (*CreateOrderResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	body := params.toRequest(c.sourceCode, int(c.sessionTimeout.Seconds()))
	c.log(ctx, "request", "create_order", map[string]any{
		"merchant_ref": params.MerchantRef,
		"amount_minor": body.Amount,
	})

	var decoded createOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, c.apiBase+"/checkout/v2/orders", token, body, &decoded); err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment order")
	}
	if decoded.OrderCode == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "provider returned no order code")
	}

	providerOrderCode := strconv.FormatInt(decoded.OrderCode, 10)
	c.log(ctx, "response", "create_order", map[string]any{"provider_order_code": providerOrderCode})

	return &CreateOrderResult{
		ProviderOrderCode: providerOrderCode,
		CheckoutURL:       c.checkoutURL(providerOrderCode, params.PreferredMethod),
	}, nil
}

// VerifyTransaction asks the provider for the transaction's true status.
// Every transport failure and every non-2xx response yields Verified=false;
// only an explicit success status from the provider verifies.
func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResult, error) {
	if strings.TrimSpace(transactionID) == "" {
		return &VerifyResult{}, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	token, err := c.Token(ctx)
	if err != nil {
		return &VerifyResult{}, err
	}

	c.log(ctx, "request", "verify_transaction", map[string]any{"transaction_id": transactionID})

	var decoded transactionResponse
	endpoint := c.apiBase + "/checkout/v2/transactions/" + url.PathEscape(transactionID)
	if err := c.doJSON(ctx, http.MethodGet, endpoint, token, nil, &decoded); err != nil {
		c.log(ctx, "error", "verify_transaction", map[string]any{"error": err.Error()})
		return &VerifyResult{}, nil
	}

	result := &VerifyResult{
		Verified:      decoded.StatusID == transactionStatusCompleted,
		StatusID:      decoded.StatusID,
		OrderCode:     strconv.FormatInt(decoded.OrderCode, 10),
		PaymentMethod: decoded.PaymentMethodID,
		Amount:        decoded.Amount,
	}
	c.log(ctx, "response", "verify_transaction", map[string]any{
		"status_id": decoded.StatusID,
		"verified":  result.Verified,
	})
	return result, nil
}

func (c *Client) checkoutURL(providerOrderCode string, preferred string) string {
	checkout := c.checkoutBase + "/web/checkout?ref=" + url.QueryEscape(providerOrderCode)
	if preferred != "" {
		checkout += "&paymentMethod=" + url.QueryEscape(preferred)
	}
	return checkout
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, body any, dest any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = strings.NewReader(string(encoded))
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	c.logger.Info(c.logger.WithFields(ctx, logFields), "viva."+op)
}

func normalizeEnv(env string) (string, error) {
	switch env {
	case demoEnv, productionEnv:
		return env, nil
	default:
		return "", errInvalidVivaEnv
	}
}
