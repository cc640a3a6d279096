// Package catalog reads listings and products from the API gateway.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Thanush-41/AgriXchange/bidding-client/internal/session"
	"github.com/Thanush-41/AgriXchange/shared/logger"
	"github.com/Thanush-41/AgriXchange/shared/models"
)

// ErrLoginFailed is returned when the gateway rejects a login
var ErrLoginFailed = errors.New("catalog: login failed")

// Client talks to the gateway's REST API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the gateway at baseURL.
// A nil httpClient uses a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// ActiveListings fetches the wholesale listings open for bidding.
// Failures degrade to an empty list and are only logged.
func (c *Client) ActiveListings(ctx context.Context, token string) []models.Listing {
	var resp models.Response[models.Page[models.Listing]]
	if err := c.get(ctx, "/api/bidding/active", token, &resp); err != nil {
		logger.Warn("failed to fetch active listings", map[string]any{"error": err.Error()})
		return []models.Listing{}
	}
	if resp.Data.Data == nil {
		return []models.Listing{}
	}
	return resp.Data.Data
}

// RetailProducts fetches the product catalog and keeps only retail products.
// Failures degrade to an empty list and are only logged.
func (c *Client) RetailProducts(ctx context.Context) []models.Product {
	var resp models.Response[models.Page[models.Product]]
	if err := c.get(ctx, "/api/products", "", &resp); err != nil {
		logger.Warn("failed to fetch products", map[string]any{"error": err.Error()})
		return []models.Product{}
	}

	products := make([]models.Product, 0, len(resp.Data.Data))
	for _, p := range resp.Data.Data {
		if p.Type == models.ProductTypeRetail {
			products = append(products, p)
		}
	}
	return products
}

// Login signs in through the gateway's mock login and returns the identity to persist
func (c *Client) Login(ctx context.Context, phone string, role models.Role) (session.Identity, error) {
	body, err := json.Marshal(models.LoginRequest{Phone: phone, Role: role})
	if err != nil {
		return session.Identity{}, fmt.Errorf("catalog: failed to encode login: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return session.Identity{}, fmt.Errorf("catalog: failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp models.Response[models.LoginResult]
	if err := c.do(req, &resp); err != nil {
		return session.Identity{}, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if !resp.Success || resp.Data.Token == "" {
		return session.Identity{}, fmt.Errorf("%w: %s", ErrLoginFailed, resp.Message)
	}

	user := resp.Data.User
	return session.Identity{Token: resp.Data.Token, User: &user}, nil
}

func (c *Client) get(ctx context.Context, path, token string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", req.URL.Path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return fmt.Errorf("%s returned status %d", req.URL.Path, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
