package mypayga

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taxepay/internal/constants"
)

var (
	ErrConfigInvalid    = errors.New("mypayga config invalid")
	ErrRequestFailed    = errors.New("mypayga request failed")
	ErrResponseInvalid  = errors.New("mypayga response invalid")
	ErrSignatureInvalid = errors.New("mypayga signature invalid")
)

// Config MyPayga aggregator credentials and endpoints
type Config struct {
	BaseURL   string `json:"base_url"`   // gateway base, e.g. https://api.mypayga.com/api/v1
	APIKey    string `json:"api_key"`    // apikey header / query credential
	SecretKey string `json:"secret_key"` // HMAC secret for callback signatures
	Country   string `json:"country"`    // ISO country for network detection
	TimeoutMS int    `json:"timeout_ms"` // HTTP timeout, 0 means default
}

// CreateInput payment initiation input
type CreateInput struct {
	UniqueID      string
	Amount        string
	PaymentMethod string
	ClientPhone   string
	ClientEmail   string
	Description   string
	Currency      string
	CallbackURL   string
	SuccessURL    string
	ErrorURL      string
}

// CreateResult payment initiation result
type CreateResult struct {
	PaymentToken string
	PaymentURL   string
	OrderID      string
	Message      string
	Raw          map[string]interface{}
}

// StatusResult verify endpoint result
type StatusResult struct {
	OrderStatus   string
	UniqueID      string
	Amount        string
	PaymentToken  string
	PaymentMethod string
	Message       string
	Raw           map[string]interface{}
}

// NetworkResult network detection result
type NetworkResult struct {
	Network string
	Message string
	Raw     map[string]interface{}
}

// CallbackData fields posted by the gateway on payment completion
type CallbackData struct {
	OrderStatus   string `json:"order_status"`
	UniqueID      string `json:"unique_id"`
	Amount        string `json:"amount"`
	PaymentToken  string `json:"payment_token"`
	PaymentMethod string `json:"payment_method"`
	Message       string `json:"message"`
	ClientPhone   string `json:"client_phone"`
	TransactionID string `json:"transaction_id"`
	Hash          string `json:"hash"`
}

// ParseConfig parses a raw provider config map
func ParseConfig(raw map[string]interface{}) (*Config, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty config", ErrConfigInvalid)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal config failed", ErrConfigInvalid)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: unmarshal config failed", ErrConfigInvalid)
	}
	cfg.normalize()
	return &cfg, nil
}

// ValidateConfig checks required credentials
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	return nil
}

func (c *Config) normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Country = strings.ToUpper(strings.TrimSpace(c.Country))
	if c.Country == "" {
		c.Country = constants.MypaygaDefaultCountry
	}
}

// IsSupportedMethod reports whether the gateway accepts the given mobile money method
func IsSupportedMethod(method string) bool {
	normalized := strings.ToLower(strings.TrimSpace(method))
	for _, m := range constants.PaymentMethods {
		if normalized == m {
			return true
		}
	}
	return false
}

// CreatePayment starts a mobile money collection on the gateway
func CreatePayment(ctx context.Context, cfg *Config, input CreateInput) (*CreateResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if input.UniqueID == "" || input.Amount == "" || input.ClientPhone == "" {
		return nil, ErrConfigInvalid
	}
	if !IsSupportedMethod(input.PaymentMethod) {
		return nil, fmt.Errorf("%w: unsupported payment_method %q", ErrConfigInvalid, input.PaymentMethod)
	}
	if input.Currency == "" {
		input.Currency = constants.DefaultCurrency
	}

	payload := map[string]string{
		"unique_id":      input.UniqueID,
		"amount":         input.Amount,
		"payment_method": strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		"client_phone":   input.ClientPhone,
		"client_email":   input.ClientEmail,
		"description":    input.Description,
		"currency":       input.Currency,
		"callback_url":   input.CallbackURL,
		"success_url":    input.SuccessURL,
		"error_url":      input.ErrorURL,
	}
	respBytes, err := postJSON(ctx, cfg, cfg.BaseURL+"/pay", payload)
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Status        int    `json:"status"`
		StatusRequest int    `json:"status_request"`
		Message       string `json:"message"`
		PaymentToken  string `json:"payment_token"`
		PaymentURL    string `json:"payment_url"`
		OrderID       string `json:"order_id"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if resp.StatusRequest != 200 && resp.Status != 200 {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, resp.Message)
	}
	if strings.TrimSpace(resp.PaymentToken) == "" {
		return nil, fmt.Errorf("%w: missing payment_token", ErrResponseInvalid)
	}
	return &CreateResult{
		PaymentToken: strings.TrimSpace(resp.PaymentToken),
		PaymentURL:   strings.TrimSpace(resp.PaymentURL),
		OrderID:      strings.TrimSpace(resp.OrderID),
		Message:      strings.TrimSpace(resp.Message),
		Raw:          raw,
	}, nil
}

// CheckStatus queries the gateway for the current state of a payment token
func CheckStatus(ctx context.Context, cfg *Config, paymentToken string) (*StatusResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(paymentToken) == "" {
		return nil, ErrConfigInvalid
	}

	query := url.Values{}
	query.Set("apikey", cfg.APIKey)
	query.Set("payment_token", paymentToken)
	respBytes, err := getJSON(ctx, cfg, cfg.BaseURL+"/verify?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		OrderStatus   string `json:"order_status"`
		UniqueID      string `json:"unique_id"`
		Amount        string `json:"amount"`
		PaymentToken  string `json:"payment_token"`
		PaymentMethod string `json:"payment_method"`
		Message       string `json:"message"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if strings.TrimSpace(resp.OrderStatus) == "" {
		return nil, fmt.Errorf("%w: missing order_status", ErrResponseInvalid)
	}
	return &StatusResult{
		OrderStatus:   strings.TrimSpace(resp.OrderStatus),
		UniqueID:      strings.TrimSpace(resp.UniqueID),
		Amount:        strings.TrimSpace(resp.Amount),
		PaymentToken:  strings.TrimSpace(resp.PaymentToken),
		PaymentMethod: strings.TrimSpace(resp.PaymentMethod),
		Message:       strings.TrimSpace(resp.Message),
		Raw:           raw,
	}, nil
}

// GetNetwork resolves the mobile money network serving a phone number
func GetNetwork(ctx context.Context, cfg *Config, phone string) (*NetworkResult, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(phone) == "" {
		return nil, ErrConfigInvalid
	}

	query := url.Values{}
	query.Set("apikey", cfg.APIKey)
	query.Set("tel_number", phone)
	query.Set("country", cfg.Country)
	query.Set("type", constants.MypaygaNetworkType)
	respBytes, err := getJSON(ctx, cfg, cfg.BaseURL+"/network?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	_ = json.Unmarshal(respBytes, &raw)
	var resp struct {
		Network string `json:"network"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, ErrResponseInvalid
	}
	if strings.TrimSpace(resp.Network) == "" {
		return nil, fmt.Errorf("%w: %s", ErrResponseInvalid, resp.Message)
	}
	return &NetworkResult{
		Network: strings.ToLower(strings.TrimSpace(resp.Network)),
		Message: strings.TrimSpace(resp.Message),
		Raw:     raw,
	}, nil
}

// Sign computes the hex HMAC-SHA512 over the callback field concatenation
func Sign(cfg *Config, data CallbackData) string {
	if cfg == nil {
		return ""
	}
	content := data.OrderStatus +
		data.UniqueID +
		data.Amount +
		data.PaymentToken +
		data.PaymentMethod +
		data.Message +
		data.ClientPhone
	mac := hmac.New(sha512.New, []byte(cfg.SecretKey))
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyCallback validates the callback HMAC against our secret
func VerifyCallback(cfg *Config, data CallbackData) error {
	if cfg == nil || strings.TrimSpace(cfg.SecretKey) == "" {
		return ErrConfigInvalid
	}
	received := strings.TrimSpace(data.Hash)
	if received == "" {
		return ErrSignatureInvalid
	}
	expected := Sign(cfg, data)
	if !hmac.Equal([]byte(strings.ToLower(received)), []byte(expected)) {
		return ErrSignatureInvalid
	}
	return nil
}

// IsPaid reports whether an order_status value means a settled payment
func IsPaid(orderStatus string) bool {
	return strings.TrimSpace(orderStatus) == constants.MypaygaOrderStatusSuccess
}

func (c *Config) httpTimeout() time.Duration {
	if c.TimeoutMS > 0 {
		return time.Duration(c.TimeoutMS) * time.Millisecond
	}
	return 10 * time.Second
}

func postJSON(ctx context.Context, cfg *Config, endpoint string, payload map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrRequestFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(body)))
	if err != nil {
		return nil, ErrRequestFailed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", cfg.APIKey)
	return doRequest(cfg, req)
}

func getJSON(ctx context.Context, cfg *Config, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, ErrRequestFailed
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", cfg.APIKey)
	return doRequest(cfg, req)
}

func doRequest(cfg *Config, req *http.Request) ([]byte, error) {
	client := &http.Client{Timeout: cfg.httpTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrRequestFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ErrRequestFailed
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrRequestFailed
	}
	return body, nil
}
