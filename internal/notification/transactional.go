package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// MailParams is the payload for one transactional-provider call.
type MailParams struct {
	Recipient     string   `json:"recipient"`
	RecipientName string   `json:"recipient_name"`
	CompanyName   string   `json:"company_name"`
	EmissionYear  int      `json:"emission_year"`
	Emissions     *float64 `json:"emissions,omitempty"`
}

// TransactionalClient is the provider surface: one method per notification
// type, mirroring the provider's template catalogue.
type TransactionalClient interface {
	SendAllocationSubmitted(p MailParams) error
	SendAllocationRequested(p MailParams) error
	SendAllocationApproved(p MailParams) error
	SendAllocationRejected(p MailParams) error
	SendAllocationUpdated(p MailParams) error
	SendAllocationDeleted(p MailParams) error
}

// HTTPTransactionalClient talks to the provider's REST API. Each template
// has its own endpoint under /v3/transactional/.
type HTTPTransactionalClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPTransactionalClient(baseURL, apiKey string) *HTTPTransactionalClient {
	return &HTTPTransactionalClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPTransactionalClient) send(templateName string, p MailParams) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v3/transactional/"+templateName, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("provider call %s failed: %w", templateName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("provider call %s returned status %d", templateName, resp.StatusCode)
	}
	return nil
}

func (c *HTTPTransactionalClient) SendAllocationSubmitted(p MailParams) error {
	return c.send("allocation-submitted", p)
}

func (c *HTTPTransactionalClient) SendAllocationRequested(p MailParams) error {
	return c.send("allocation-requested", p)
}

func (c *HTTPTransactionalClient) SendAllocationApproved(p MailParams) error {
	return c.send("allocation-approved", p)
}

func (c *HTTPTransactionalClient) SendAllocationRejected(p MailParams) error {
	return c.send("allocation-rejected", p)
}

func (c *HTTPTransactionalClient) SendAllocationUpdated(p MailParams) error {
	return c.send("allocation-updated", p)
}

func (c *HTTPTransactionalClient) SendAllocationDeleted(p MailParams) error {
	return c.send("allocation-deleted", p)
}
