package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lawbench-project/microservices/tasks-service/services"

	"github.com/sony/gobreaker"
)

// BillingClient fetches hourly billing rates from the billing service.
type BillingClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

func NewBillingClient(httpClient *http.Client, baseURL string, breaker *gobreaker.CircuitBreaker) *BillingClient {
	return &BillingClient{httpClient: httpClient, baseURL: baseURL, breaker: breaker}
}

var _ services.RateTable = (*BillingClient)(nil)

func (c *BillingClient) HourlyRate(ctx context.Context, userID string) (float64, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/api/billing/rates/%s", c.baseURL, userID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("billing service returned status %d for user %s", resp.StatusCode, userID)
		}

		var body struct {
			HourlyRate float64 `json:"hourlyRate"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode rate response: %v", err)
		}
		return body.HourlyRate, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(float64), nil
}
