package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"widgetbot/internal/entities"
)

func TestChatServiceReply(t *testing.T) {
	bots := &stubBotStore{bots: map[string]entities.Bot{
		"b1": {ID: "b1", Name: "Cafe Bot", Greeting: "Hi!", Context: "We sell coffee."},
	}}
	ai := &stubAI{reply: "We sell excellent coffee."}
	svc := NewChatService(bots, ai)

	reply, err := svc.Reply(context.Background(), "b1", "what do you sell?")
	require.NoError(t, err)
	assert.Equal(t, "We sell excellent coffee.", reply, "AI reply must be forwarded verbatim")

	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "We sell coffee.", "stored context must reach the prompt")
	assert.Contains(t, ai.prompts[0], "Cafe Bot")
	assert.Equal(t, "what do you sell?", ai.inputs[0])
}

func TestChatServiceReplyEmptyContext(t *testing.T) {
	bots := &stubBotStore{bots: map[string]entities.Bot{
		"b1": {ID: "b1", Name: "Empty Bot"},
	}}
	ai := &stubAI{reply: "Hello!"}
	svc := NewChatService(bots, ai)

	_, err := svc.Reply(context.Background(), "b1", "hi")
	require.NoError(t, err)
	assert.Contains(t, ai.prompts[0], "No business information has been provided yet")
}

func TestChatServiceReplyUnknownBot(t *testing.T) {
	bots := &stubBotStore{bots: map[string]entities.Bot{}}
	ai := &stubAI{reply: "nope"}
	svc := NewChatService(bots, ai)

	_, err := svc.Reply(context.Background(), "missing", "hi")
	assert.ErrorIs(t, err, ErrBotNotFound)
	assert.Zero(t, ai.calls, "no completion call for an unknown bot")
}

func TestChatServiceReplyStoreError(t *testing.T) {
	bots := &stubBotStore{err: errStub}
	ai := &stubAI{reply: "nope"}
	svc := NewChatService(bots, ai)

	_, err := svc.Reply(context.Background(), "b1", "hi")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBotNotFound)
	assert.Zero(t, ai.calls)
}
