package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widgetbot/internal/config"
	"widgetbot/internal/entities"
	"widgetbot/internal/usecases"
)

const verifyToken = "verify-me"

// waMessenger records sends for webhook pipeline assertions.
type waMessenger struct {
	mu    sync.Mutex
	texts []string
	reads []string
}

func (m *waMessenger) SendText(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, body)
	return nil
}

func (m *waMessenger) SendURLButton(ctx context.Context, to, body, url, display string) error {
	return nil
}

func (m *waMessenger) MarkRead(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, messageID)
	return nil
}

func (m *waMessenger) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.texts)
}

type waCustomerStore struct{}

func (s *waCustomerStore) Upsert(ctx context.Context, phone string, name *string) (*entities.Customer, bool, error) {
	return &entities.Customer{ID: 1, Phone: phone, Name: name, TotalInteractions: 1}, false, nil
}

type waConversationStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (s *waConversationStore) Append(ctx context.Context, e *entities.ConversationEntry) error {
	return nil
}

func (s *waConversationStore) Recent(ctx context.Context, phone string, limit int) ([]entities.ConversationEntry, error) {
	return nil, nil
}

func (s *waConversationStore) MarkProcessed(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[id] {
		return true, nil
	}
	s.seen[id] = true
	return false, nil
}

type waOrderStore struct{}

func (s *waOrderStore) Create(ctx context.Context, o *entities.Order) error { return nil }

func newWebhookEnv(t *testing.T) (*gin.Engine, *waMessenger) {
	t.Helper()
	cfg := &config.Config{WhatsAppVerifyToken: verifyToken, JWTSecret: testSecret}
	messenger := &waMessenger{}
	svc := usecases.NewWebhookService(
		&waCustomerStore{}, &waConversationStore{}, &waOrderStore{},
		&fakeAI{reply: "hello!"}, messenger,
		"https://order.example.com", 0, 0,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	h := NewHandler(cfg, nil, nil, svc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	SetupRoutes(r, h, NewMiddleware(testSecret))
	return r, messenger
}

func TestVerifyWebhookMatch(t *testing.T) {
	r, _ := newWebhookEnv(t)
	req := httptest.NewRequest(http.MethodGet,
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token="+verifyToken+"&hub.challenge=12345", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String(), "challenge echoed unchanged")
}

func TestVerifyWebhookMismatch(t *testing.T) {
	r, _ := newWebhookEnv(t)
	for name, query := range map[string]string{
		"wrong token":  "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345",
		"wrong mode":   "hub.mode=unsubscribe&hub.verify_token=" + verifyToken + "&hub.challenge=12345",
		"empty params": "",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/webhook/whatsapp?"+query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Empty(t, w.Body.String())
		})
	}
}

func inboundEnvelope(id, text string) string {
	return `{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"profile": {"name": "Budi"}, "wa_id": "628123"}],
					"messages": [{"from": "628123", "id": "` + id + `", "type": "text", "text": {"body": "` + text + `"}}]
				}
			}]
		}]
	}`
}

func postWebhook(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReceiveWebhookAcksAndProcesses(t *testing.T) {
	r, messenger := newWebhookEnv(t)

	w := postWebhook(r, inboundEnvelope("wamid.abc", "what time do you open"))
	assert.Equal(t, http.StatusOK, w.Code, "acked before processing completes")

	require.Eventually(t, func() bool { return messenger.sentCount() == 1 },
		2*time.Second, 10*time.Millisecond, "pipeline runs after ack")
}

func TestReceiveWebhookStatusOnlyDelivery(t *testing.T) {
	r, messenger := newWebhookEnv(t)

	w := postWebhook(r, `{"entry":[{"changes":[{"value":{"statuses":[{"id":"x"}]}}]}]}`)
	assert.Equal(t, http.StatusOK, w.Code)

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, messenger.sentCount(), "nothing to process")
}

func TestReceiveWebhookInvalidJSON(t *testing.T) {
	r, _ := newWebhookEnv(t)
	w := postWebhook(r, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiveWebhookUnconfiguredPipelineStillAcks(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	h := NewHandler(cfg, nil, nil, nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	SetupRoutes(r, h, NewMiddleware(testSecret))

	w := postWebhook(r, inboundEnvelope("wamid.def", "hello"))
	assert.Equal(t, http.StatusOK, w.Code)
}
