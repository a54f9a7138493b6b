package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"lawbench-project/microservices/tasks-service/models"
	"lawbench-project/microservices/tasks-service/services"

	"github.com/sony/gobreaker"
)

// NotificationsClient pushes budget-exceeded alerts to the notifications
// service. One notification goes to each assignee on the task.
type NotificationsClient struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

func NewNotificationsClient(httpClient *http.Client, baseURL string, breaker *gobreaker.CircuitBreaker) *NotificationsClient {
	return &NotificationsClient{httpClient: httpClient, baseURL: baseURL, breaker: breaker}
}

var _ services.Notifier = (*NotificationsClient)(nil)

func (c *NotificationsClient) NotifyBudgetExceeded(ctx context.Context, task *models.Task) error {
	message := fmt.Sprintf("Budget alert: task %q has logged %.2f hours against a threshold of %.2f",
		task.Title, task.TimeTracking.LoggedHours, task.TimeTracking.BudgetAlert.Threshold)

	for _, assignee := range task.Assignees {
		payload, err := json.Marshal(map[string]string{
			"userId":   assignee.UserID,
			"username": assignee.Name,
			"message":  message,
		})
		if err != nil {
			return err
		}

		_, err = c.breaker.Execute(func() (interface{}, error) {
			url := fmt.Sprintf("%s/api/notifications", c.baseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
				return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
			}
			return nil, nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
