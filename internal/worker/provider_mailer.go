package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"transition-hub-backend/internal/models"
)

// ProviderMailer delivers queued emails through the email provider's
// generic send endpoint.
type ProviderMailer struct {
	baseURL string
	apiKey  string
	from    string
	client  *http.Client
}

func NewProviderMailer(baseURL, apiKey, from string) *ProviderMailer {
	return &ProviderMailer{
		baseURL: baseURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (m *ProviderMailer) Send(job models.EmailJob) error {
	payload, err := json.Marshal(map[string]string{
		"message_id": job.MessageID,
		"from":       m.from,
		"to":         job.Recipient,
		"subject":    job.Subject,
		"body":       job.Body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, m.baseURL+"/v3/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send failed for %s: %w", job.Recipient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send for %s returned status %d", job.Recipient, resp.StatusCode)
	}
	return nil
}
