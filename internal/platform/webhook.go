package platform

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"msd/internal/providers"
)

// WebhookDelivery posts artifacts to the route URL as JSON. The route learned
// from inbound requests is expected to be a webhook endpoint of the chat
// platform bridge.
type WebhookDelivery struct {
	client *http.Client
	logger providers.Logger
}

func NewWebhookDelivery(logger providers.Logger) *WebhookDelivery {
	return &WebhookDelivery{
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (d *WebhookDelivery) Send(route string, artifact *Artifact) error {
	payload, err := json.Marshal(artifact)
	if err != nil {
		return err
	}
	resp, err := d.client.Post(route, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delivery to %s returned status %d", route, resp.StatusCode)
	}
	return nil
}
