package usecases

import (
	"context"
	"errors"
	"sync"

	"widgetbot/internal/entities"
)

// stubBotStore serves a fixed set of bots and counts lookups.
type stubBotStore struct {
	bots     map[string]entities.Bot
	getCalls int
	err      error
}

func (s *stubBotStore) Create(ctx context.Context, bot *entities.Bot) error { return s.err }

func (s *stubBotStore) GetByID(ctx context.Context, id string) (*entities.Bot, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	if b, ok := s.bots[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (s *stubBotStore) List(ctx context.Context) ([]entities.Bot, error) { return nil, s.err }

func (s *stubBotStore) Update(ctx context.Context, id string, upd entities.BotUpdate) (*entities.Bot, error) {
	return nil, s.err
}

func (s *stubBotStore) Delete(ctx context.Context, id string) error { return s.err }

// stubAI records every prompt and returns a canned reply.
type stubAI struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	prompts []string
	inputs  []string
}

func (s *stubAI) GenerateReply(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, systemPrompt)
	s.inputs = append(s.inputs, userMessage)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// recordingMessenger captures every outbound send.
type recordingMessenger struct {
	mu        sync.Mutex
	texts     []sentText
	buttons   []sentButton
	readIDs   []string
	textErr   error
	buttonErr error
}

type sentText struct{ To, Body string }

type sentButton struct{ To, Body, URL, Display string }

func (m *recordingMessenger) SendText(ctx context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.textErr != nil {
		return m.textErr
	}
	m.texts = append(m.texts, sentText{to, body})
	return nil
}

func (m *recordingMessenger) SendURLButton(ctx context.Context, to, body, url, display string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buttonErr != nil {
		return m.buttonErr
	}
	m.buttons = append(m.buttons, sentButton{to, body, url, display})
	return nil
}

func (m *recordingMessenger) MarkRead(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readIDs = append(m.readIDs, messageID)
	return nil
}

// memoryCustomerStore upserts in memory, mirroring the SQL counter semantics.
type memoryCustomerStore struct {
	mu        sync.Mutex
	customers map[string]*entities.Customer
	err       error
}

func newMemoryCustomerStore() *memoryCustomerStore {
	return &memoryCustomerStore{customers: map[string]*entities.Customer{}}
}

func (s *memoryCustomerStore) Upsert(ctx context.Context, phone string, name *string) (*entities.Customer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, false, s.err
	}
	c, ok := s.customers[phone]
	if !ok {
		c = &entities.Customer{ID: len(s.customers) + 1, Phone: phone}
		s.customers[phone] = c
	}
	if name != nil {
		c.Name = name
	}
	c.TotalInteractions++
	out := *c
	return &out, ok, nil
}

// memoryConversationStore keeps an append-only log plus seen message ids.
type memoryConversationStore struct {
	mu      sync.Mutex
	entries []entities.ConversationEntry
	seen    map[string]bool
}

func newMemoryConversationStore() *memoryConversationStore {
	return &memoryConversationStore{seen: map[string]bool{}}
}

func (s *memoryConversationStore) Append(ctx context.Context, e *entities.ConversationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = len(s.entries) + 1
	s.entries = append(s.entries, *e)
	return nil
}

func (s *memoryConversationStore) Recent(ctx context.Context, phone string, limit int) ([]entities.ConversationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []entities.ConversationEntry
	for _, e := range s.entries {
		if e.Phone == phone {
			matched = append(matched, e)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (s *memoryConversationStore) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[messageID] {
		return true, nil
	}
	s.seen[messageID] = true
	return false, nil
}

// memoryOrderStore records order inserts.
type memoryOrderStore struct {
	mu     sync.Mutex
	orders []entities.Order
	err    error
}

func (s *memoryOrderStore) Create(ctx context.Context, o *entities.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	o.ID = len(s.orders) + 1
	s.orders = append(s.orders, *o)
	return nil
}

var errStub = errors.New("stub failure")
