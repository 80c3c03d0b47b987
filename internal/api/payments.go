package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// PaymentsClient talks to the hosted payment provider directly with the
// publishable key. Intent creation stays server-side; the client only
// confirms the intent it was handed a client secret for.
type PaymentsClient struct {
	baseURL        string
	publishableKey string
	httpClient     *http.Client
}

func NewPaymentsClient(baseURL, publishableKey string) *PaymentsClient {
	return &PaymentsClient{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		publishableKey: publishableKey,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

type PaymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *PaymentsClient) ConfirmIntent(ctx context.Context, clientSecret, paymentMethod string) (*PaymentIntent, error) {
	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("client_secret", clientSecret)
	form.Set("payment_method", paymentMethod)

	endpoint := fmt.Sprintf("%s/payment_intents/%s/confirm", c.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.publishableKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confirm payment intent: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read confirm response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	return &intent, nil
}

// intentIDFromSecret extracts "pi_xxx" from a client secret of the form
// "pi_xxx_secret_yyy".
func intentIDFromSecret(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, "_secret_")
	if !strings.HasPrefix(clientSecret, "pi_") || idx <= 0 {
		return "", fmt.Errorf("malformed payment client secret")
	}
	return clientSecret[:idx], nil
}
