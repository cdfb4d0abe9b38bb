package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// requestTimeStampLayout is the format the API expects in the requestTimeStamp header.
const requestTimeStampLayout = "02/01/2006 03:04:05 PM"

// maxErrorBody caps how much of a failed response ends up in an error.
const maxErrorBody = 512

// Client fetches payloads from the FuelCheck API.
// Every Fetch performs a fresh client-credentials token exchange.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewClient creates an upstream client with bounded timeouts.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout()

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout, Transport: transport},
		logger: logger,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

func (c *Client) Name() string { return "fuelcheck" }

// Fetch exchanges credentials for a token and downloads the price payload.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.FetchPrices(ctx, token)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// AccessToken performs the client-credentials exchange.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	u, err := url.Parse(c.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid token url: %v", ErrUnavailable, err)
	}
	q := u.Query()
	q.Set("grant_type", "client_credentials")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: build token request: %v", ErrUnavailable, err)
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrUnavailable, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", ErrUnavailable)
	}

	c.logger.Debug("Obtained access token")
	return tr.AccessToken, nil
}

// FetchPrices downloads the raw price payload using a bearer token.
func (c *Client) FetchPrices(ctx context.Context, token string) ([]byte, error) {
	u, err := url.Parse(c.cfg.PricesURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid prices url: %v", ErrUnavailable, err)
	}
	q := u.Query()
	q.Set("fueltype", c.cfg.FuelType)
	q.Set("latitude", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(c.cfg.Radius, 'f', -1, 64))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build prices request: %v", ErrUnavailable, err)
	}

	transactionID := c.newID()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("transactionID", transactionID)
	req.Header.Set("requestTimeStamp", c.now().Format(requestTimeStampLayout))
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("prices request %s: %w", transactionID, err)
	}

	c.logger.Info("Fetched fuel prices",
		zap.String("transaction_id", transactionID),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		excerpt := body
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, excerpt)
	}
	return body, nil
}
