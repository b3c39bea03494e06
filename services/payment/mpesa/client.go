// Package mpesa wraps the Safaricom Daraja API for STK push payments.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"safarihub/config"
	"safarihub/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	tokenCacheKey = "mpesa:access_token"
	// Daraja tokens live for an hour; refresh a little early.
	tokenCacheTTL = 50 * time.Minute
)

// StkPushRequest is the Daraja STK push payload.
type StkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// StkPushResponse is Daraja's synchronous acknowledgement of an STK push.
type StkPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Client talks to the Daraja API. Access tokens are cached in Redis so
// concurrent pushes do not hammer the OAuth endpoint.
type Client struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string
	HTTPClient     *http.Client
	Cache          *redis.Client
}

// NewClient builds a Daraja client from the app configuration.
func NewClient() *Client {
	return &Client{
		BaseURL:        config.AppConfig.MpesaBaseURL,
		ConsumerKey:    config.AppConfig.MpesaConsumerKey,
		ConsumerSecret: config.AppConfig.MpesaSecret,
		ShortCode:      config.AppConfig.MpesaShortCode,
		Passkey:        config.AppConfig.MpesaPasskey,
		CallbackURL:    config.AppConfig.MpesaCallbackURL,
		HTTPClient:     &http.Client{Timeout: 10 * time.Second},
		Cache:          utils.GetCacheClient(),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken returns a valid OAuth token, from cache when possible.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.Cache != nil {
		if token, err := c.Cache.Get(ctx, tokenCacheKey).Result(); err == nil && token != "" {
			return token, nil
		}
	}

	url := c.BaseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(c.ConsumerKey, c.ConsumerSecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("mpesa token request returned %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode mpesa token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("mpesa token response carried no access_token")
	}

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, tokenCacheKey, tr.AccessToken, tokenCacheTTL).Err(); err != nil {
			utils.GetLogger().Warn("Failed to cache mpesa token", zap.Error(err))
		}
	}
	return tr.AccessToken, nil
}

// msisdn normalizes an international number to the bare 254... form Daraja
// expects in PartyA and PhoneNumber.
func msisdn(phone string) string {
	return strings.TrimPrefix(phone, "+")
}

// StkPush sends a payment prompt to the customer's phone. Amounts are
// rounded to whole shillings, which is what Daraja accepts.
func (c *Client) StkPush(ctx context.Context, phone string, amount float64, accountRef, description string) (*StkPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.ShortCode + c.Passkey + timestamp))
	party := msisdn(phone)

	payload := StkPushRequest{
		BusinessShortCode: c.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            fmt.Sprintf("%d", int64(math.Round(amount))),
		PartyA:            party,
		PartyB:            c.ShortCode,
		PhoneNumber:       party,
		CallBackURL:       c.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stk push payload: %w", err)
	}

	url := c.BaseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stk push returned %d: %s", resp.StatusCode, string(raw))
	}

	var sr StkPushResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, fmt.Errorf("failed to decode stk push response: %w", err)
	}
	if sr.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push rejected: %s", sr.ResponseDescription)
	}
	return &sr, nil
}
