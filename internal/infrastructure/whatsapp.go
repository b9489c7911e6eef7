package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"widgetbot/internal/interfaces"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// WhatsAppBusinessClient sends messages through the WhatsApp Business Cloud
// API, authenticated by a bearer token and addressed by a phone-number id.
type WhatsAppBusinessClient struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	client        *http.Client
}

func NewWhatsAppBusinessClient(accessToken, phoneNumberID string) interfaces.Messenger {
	return &WhatsAppBusinessClient{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       graphAPIBase,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WhatsAppBusinessClient) SendText(ctx context.Context, to, body string) error {
	return w.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": body,
		},
	})
}

// SendURLButton sends an interactive call-to-action message whose single
// button opens the given URL.
func (w *WhatsAppBusinessClient) SendURLButton(ctx context.Context, to, body, url, display string) error {
	return w.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "cta_url",
			"body": map[string]string{
				"text": body,
			},
			"action": map[string]any{
				"name": "cta_url",
				"parameters": map[string]string{
					"display_text": display,
					"url":          url,
				},
			},
		},
	})
}

func (w *WhatsAppBusinessClient) MarkRead(ctx context.Context, messageID string) error {
	return w.post(ctx, map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	})
}

func (w *WhatsAppBusinessClient) post(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp api error: %s body=%s", resp.Status, respBody)
	}
	return nil
}
