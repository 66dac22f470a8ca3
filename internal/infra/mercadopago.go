package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PreferenceItem is one line sent to the payment provider. UnitPrice is
// already discounted.
type PreferenceItem struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// PreferenceRequest asks the provider for a hosted checkout of OrderID.
// ReturnURL receives status, orderId and token query parameters.
type PreferenceRequest struct {
	OrderID   string
	Token     string
	Items     []PreferenceItem
	ReturnURL string
}

type Preference struct {
	ID        string
	InitPoint string
}

// ErrPreferenciaInvalida is returned when the provider answers without a
// redirect URL.
var ErrPreferenciaInvalida = errors.New("mercadopago: response without init_point")

type mpItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type mpBackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type mpPreferenceBody struct {
	Items             []mpItem   `json:"items"`
	BackURLs          mpBackURLs `json:"back_urls"`
	AutoReturn        string     `json:"auto_return"`
	ExternalReference string     `json:"external_reference"`
}

type mpPreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// MercadoPagoClient creates checkout preferences through the MercadoPago REST
// API. Calls go through a circuit breaker so a provider outage fails fast.
type MercadoPagoClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	cb          *CircuitBreaker
}

func NewMercadoPagoClient(baseURL, accessToken string, timeout time.Duration, cb *CircuitBreaker) *MercadoPagoClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &MercadoPagoClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		cb:          cb,
	}
}

// CrearPreferencia posts a preference and returns its init_point.
func (c *MercadoPagoClient) CrearPreferencia(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	var pref *Preference
	call := func() error {
		p, err := c.crear(ctx, req)
		if err != nil {
			return err
		}
		pref = p
		return nil
	}
	run := call
	if c.cb != nil {
		run = func() error { return c.cb.Execute(call) }
	}
	if err := run(); err != nil {
		return nil, err
	}
	return pref, nil
}

func (c *MercadoPagoClient) crear(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	body, err := json.Marshal(buildPreferenceBody(req))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("X-Idempotency-Key", req.OrderID+"-"+req.Token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mercadopago: returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var result mpPreferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("mercadopago: decode response: %w", err)
	}
	if result.InitPoint == "" {
		return nil, ErrPreferenciaInvalida
	}
	return &Preference{ID: result.ID, InitPoint: result.InitPoint}, nil
}

func buildPreferenceBody(req PreferenceRequest) mpPreferenceBody {
	items := make([]mpItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = mpItem{
			Title:      it.Title,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.Round(2).InexactFloat64(),
			CurrencyID: "ARS",
		}
	}
	return mpPreferenceBody{
		Items: items,
		BackURLs: mpBackURLs{
			Success: returnURL(req.ReturnURL, "success", req.OrderID, req.Token),
			Failure: returnURL(req.ReturnURL, "failure", req.OrderID, req.Token),
			Pending: returnURL(req.ReturnURL, "pending", req.OrderID, req.Token),
		},
		AutoReturn:        "approved",
		ExternalReference: req.OrderID,
	}
}

func returnURL(base, status, orderID, token string) string {
	q := url.Values{}
	q.Set("status", status)
	q.Set("orderId", orderID)
	q.Set("token", token)
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + q.Encode()
}
