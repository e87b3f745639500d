package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
)

type webhookConfig struct {
	URL    string
	Secret string
}

var hookCfg webhookConfig

// ConfigureWebhookFromEnv loads webhook config from environment.
// Required: NOTIFY_WEBHOOK_URL; Optional: NOTIFY_WEBHOOK_SECRET
func ConfigureWebhookFromEnv() error {
	hookCfg = webhookConfig{
		URL:    os.Getenv("NOTIFY_WEBHOOK_URL"),
		Secret: os.Getenv("NOTIFY_WEBHOOK_SECRET"),
	}
	if hookCfg.URL == "" {
		return fmt.Errorf("webhook not configured: set NOTIFY_WEBHOOK_URL")
	}
	return nil
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Deliver posts the event to the configured webhook. With no webhook
// configured the event is logged and considered delivered.
func Deliver(event string, payload any) error {
	if hookCfg.URL == "" {
		if err := ConfigureWebhookFromEnv(); err != nil {
			log.Printf("[notify] %s (no webhook) payload=%+v", event, payload)
			return nil
		}
	}

	b, _ := json.Marshal(webhookBody{Event: event, Payload: payload})
	req, err := http.NewRequest("POST", hookCfg.URL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if hookCfg.Secret != "" {
		req.Header.Set("Authorization", "Bearer "+hookCfg.Secret)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMsg string
		if b, readErr := io.ReadAll(resp.Body); readErr == nil && len(b) > 0 {
			errMsg = string(b)
		}
		if errMsg != "" {
			return fmt.Errorf("webhook delivery failed: status=%d body=%s", resp.StatusCode, errMsg)
		}
		return fmt.Errorf("webhook delivery failed: status=%d", resp.StatusCode)
	}
	return nil
}
