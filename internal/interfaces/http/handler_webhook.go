package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"widgetbot/internal/entities"
)

// webhookEnvelope mirrors the WhatsApp Cloud API delivery format. A request
// carries at most one message; status-only deliveries have an empty messages
// array.
type webhookEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Contacts []struct {
					Profile struct {
						Name string `json:"name"`
					} `json:"profile"`
					WaID string `json:"wa_id"`
				} `json:"contacts"`
				Messages []struct {
					From string `json:"from"`
					ID   string `json:"id"`
					Type string `json:"type"`
					Text struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// firstTextMessage extracts the single text message from a delivery, if any.
func (e *webhookEnvelope) firstTextMessage() (entities.InboundMessage, bool) {
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			v := change.Value
			for _, m := range v.Messages {
				if m.Type != "text" || m.Text.Body == "" {
					continue
				}
				msg := entities.InboundMessage{
					MessageID: m.ID,
					From:      m.From,
					Content:   m.Text.Body,
				}
				if len(v.Contacts) > 0 {
					msg.ProfileName = v.Contacts[0].Profile.Name
				}
				return msg, true
			}
		}
	}
	return entities.InboundMessage{}, false
}

// VerifyWebhook answers Meta's subscription handshake: echo the challenge only
// when the supplied verify token matches ours.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.cfg.WhatsAppVerifyToken != "" && token == h.cfg.WhatsAppVerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// ReceiveWebhook acknowledges the delivery immediately (Meta requires a fast
// 200 or it redelivers) and processes the message asynchronously.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var envelope webhookEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	msg, ok := envelope.firstTextMessage()
	if !ok {
		// Status updates and non-text messages are acked and ignored.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if h.webhook == nil {
		h.logger.Warn("webhook message received but pipeline not configured", "from", msg.From)
		c.JSON(http.StatusOK, gin.H{"status": "received"})
		return
	}

	// Detached context: processing outlives this request.
	go h.webhook.ProcessMessage(context.Background(), msg)
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
