package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lawbench-project/microservices/tasks-service/services"

	"github.com/sony/gobreaker"
)

// UsersClient resolves actor roles against the users service.
type UsersClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

func NewUsersClient(httpClient *http.Client, baseURL string, breaker *gobreaker.CircuitBreaker) *UsersClient {
	return &UsersClient{httpClient: httpClient, baseURL: baseURL, breaker: breaker}
}

var _ services.RoleResolver = (*UsersClient)(nil)

func (c *UsersClient) ResolveRole(ctx context.Context, userID string) (string, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		url := fmt.Sprintf("%s/api/users/%s/role", c.baseURL, userID)
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
			return nil, fmt.Errorf("users service returned status %d for user %s", resp.StatusCode, userID)
		}

		var body struct {
			Role string `json:"role"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("failed to decode role response: %v", err)
		}
		return body.Role, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
