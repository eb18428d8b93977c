package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mkamran-dev/storefront-backend/internal/types/order"
)

// URLReader resolves the configured outbound webhook URL. An empty URL means
// notifications are off.
type URLReader interface {
	WebhookURL(ctx context.Context) (string, error)
}

type Notifier struct {
	Client   *http.Client
	Settings URLReader
	Timeout  time.Duration
}

func NewNotifier(client *http.Client, settings URLReader, timeout time.Duration) *Notifier {
	return &Notifier{Client: client, Settings: settings, Timeout: timeout}
}

type payload struct {
	OrderID      string  `json:"orderId"`
	Date         string  `json:"date"`
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	Total        float64 `json:"total"`
	Items        string  `json:"items"`
}

// Notify makes a single delivery attempt within the bounded timeout. There
// are no retries; the caller decides what to do with the error (it logs it).
func (n *Notifier) Notify(ctx context.Context, o *order.Order) error {
	url, err := n.Settings.WebhookURL(ctx)
	if err != nil {
		return fmt.Errorf("read webhook url: %w", err)
	}
	if url == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()

	body, err := json.Marshal(payload{
		OrderID:      o.ID,
		Date:         o.UpdatedAt.Format(time.RFC3339),
		CustomerName: o.Customer.Name,
		Phone:        o.Customer.Phone,
		Total:        o.TotalAmount,
		Items:        order.ItemSummary(o.Items),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
