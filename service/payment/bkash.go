package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

// Credentials is the active bundle picked from the bkash_settings row.
type Credentials struct {
	AppKey    string
	AppSecret string
	Username  string
	Password  string
	BaseURL   string
}

// CredentialsFor selects the sandbox or production bundle by the settings
// row's mode.
func CredentialsFor(settings models.BkashSettings) (Credentials, error) {
	var creds Credentials
	switch settings.Mode {
	case "sandbox":
		creds = Credentials{
			AppKey:    settings.SandboxAppKey,
			AppSecret: settings.SandboxAppSecret,
			Username:  settings.SandboxUsername,
			Password:  settings.SandboxPassword,
			BaseURL:   settings.SandboxBaseURL,
		}
	case "production":
		creds = Credentials{
			AppKey:    settings.ProductionAppKey,
			AppSecret: settings.ProductionAppSecret,
			Username:  settings.ProductionUsername,
			Password:  settings.ProductionPassword,
			BaseURL:   settings.ProductionBaseURL,
		}
	default:
		return Credentials{}, fmt.Errorf("unknown gateway mode: %s", settings.Mode)
	}

	if creds.AppKey == "" || creds.AppSecret == "" || creds.BaseURL == "" {
		return Credentials{}, fmt.Errorf("gateway credentials for %s mode are incomplete", settings.Mode)
	}
	return creds, nil
}

// BkashClient talks to the tokenized checkout API. The grant token is cached
// until shortly before expiry.
type BkashClient struct {
	creds      Credentials
	httpClient *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewBkashClient(creds Credentials) *BkashClient {
	return &BkashClient{
		creds:      creds,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *BkashClient) grantToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt) {
		return c.token, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"app_key":    c.creds.AppKey,
		"app_secret": c.creds.AppSecret,
	})

	req, err := http.NewRequest("POST", c.creds.BaseURL+"/tokenized/checkout/token/grant", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("username", c.creds.Username)
	req.Header.Set("password", c.creds.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token grant failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token grant error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		IDToken   string `json:"id_token"`
		ExpiresIn int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse token response: %w", err)
	}
	if result.IDToken == "" {
		return "", fmt.Errorf("token grant returned no token: %s", string(body))
	}

	c.token = result.IDToken
	c.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn-60) * time.Second)
	return c.token, nil
}

type CreatePaymentResult struct {
	PaymentID string `json:"paymentID"`
	BkashURL  string `json:"bkashURL"`
}

// CreatePayment opens a hosted checkout for the given amount and returns the
// URL the browser must be redirected to.
func (c *BkashClient) CreatePayment(amount float64, payerReference, invoice, callbackURL string) (*CreatePaymentResult, error) {
	token, err := c.grantToken()
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]string{
		"mode":                  "0011",
		"payerReference":        payerReference,
		"callbackURL":           callbackURL,
		"amount":                fmt.Sprintf("%.2f", amount),
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": invoice,
	})

	body, err := c.post("/tokenized/checkout/create", token, payload)
	if err != nil {
		return nil, err
	}

	var result CreatePaymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}
	if result.PaymentID == "" || result.BkashURL == "" {
		return nil, fmt.Errorf("gateway rejected payment creation: %s", string(body))
	}
	return &result, nil
}

type ExecutePaymentResult struct {
	PaymentID         string `json:"paymentID"`
	TrxID             string `json:"trxID"`
	TransactionStatus string `json:"transactionStatus"`
	Amount            string `json:"amount"`
}

// ExecutePayment settles a checkout the payer approved on the hosted page.
func (c *BkashClient) ExecutePayment(paymentID string) (*ExecutePaymentResult, error) {
	token, err := c.grantToken()
	if err != nil {
		return nil, err
	}

	payload, _ := json.Marshal(map[string]string{
		"paymentID": paymentID,
	})

	body, err := c.post("/tokenized/checkout/execute", token, payload)
	if err != nil {
		return nil, err
	}

	var result ExecutePaymentResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse execute response: %w", err)
	}
	if result.TransactionStatus != "Completed" {
		return nil, fmt.Errorf("payment %s not completed: %s", paymentID, result.TransactionStatus)
	}
	return &result, nil
}

func (c *BkashClient) post(path, token string, payload []byte) ([]byte, error) {
	req, err := http.NewRequest("POST", c.creds.BaseURL+path, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-APP-Key", c.creds.AppKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
