package agent

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/config"
)

// scriptedModel replays canned responses and records the message
// batches it was called with.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     [][]llms.MessageContent
	err       error
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	batch := make([]llms.MessageContent, len(messages))
	copy(batch, messages)
	m.calls = append(m.calls, batch)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("scripted model exhausted after %d calls", len(m.calls))
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", fmt.Errorf("not implemented")
}

// recordingTool records queries and returns a fixed context block.
type recordingTool struct {
	queries []string
	output  string
	err     error
}

func (t *recordingTool) Name() string        { return "product_review_search" }
func (t *recordingTool) Description() string { return "search product reviews" }

func (t *recordingTool) Call(ctx context.Context, input string) (string, error) {
	t.queries = append(t.queries, input)
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: content}}}
}

func toolCallResponse(id, query string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		ToolCalls: []llms.ToolCall{{
			ID:   id,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "product_review_search",
				Arguments: fmt.Sprintf(`{"query": %q}`, query),
			},
		}},
	}}}
}

func testAgentConfig() config.AgentConfig {
	return config.AgentConfig{
		RetrievalK:     3,
		SummaryTrigger: 10,
		SummaryKeep:    4,
		MaxToolTurns:   5,
	}
}

func newTestAgent(t *testing.T, model *scriptedModel, tool *recordingTool, cfg config.AgentConfig) (*Agent, *MemorySaver) {
	t.Helper()
	saver := NewMemorySaver()
	ag, err := New(model, tool, saver, cfg, zap.NewNop())
	require.NoError(t, err)
	return ag, saver
}

func TestNew(t *testing.T) {
	model := &scriptedModel{}
	tool := &recordingTool{}

	t.Run("requires model", func(t *testing.T) {
		_, err := New(nil, tool, NewMemorySaver(), testAgentConfig(), zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("requires tool", func(t *testing.T) {
		_, err := New(model, nil, NewMemorySaver(), testAgentConfig(), zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("keep must be below trigger", func(t *testing.T) {
		cfg := testAgentConfig()
		cfg.SummaryKeep = cfg.SummaryTrigger
		_, err := New(model, tool, NewMemorySaver(), cfg, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestChatDirectAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("Hello! Ask me about products."),
	}}
	tool := &recordingTool{}
	ag, saver := newTestAgent(t, model, tool, testAgentConfig())

	reply, err := ag.Chat(context.Background(), "t1", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello! Ask me about products.", reply)
	assert.Empty(t, tool.queries)
	assert.Equal(t, 2, saver.Len("t1"))

	// The system prompt is prepended but not persisted.
	require.Len(t, model.calls, 1)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.calls[0][0].Role)
}

func TestChatToolRoundTrip(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "usb cable quality"),
		textResponse("Reviewers say the cable is sturdy."),
	}}
	tool := &recordingTool{output: "Product: USB Cable\nReview: sturdy\nRating: 5"}
	ag, _ := newTestAgent(t, model, tool, testAgentConfig())

	reply, err := ag.Chat(context.Background(), "t1", "how is the usb cable?")
	require.NoError(t, err)
	assert.Equal(t, "Reviewers say the cable is sturdy.", reply)
	assert.Equal(t, []string{"usb cable quality"}, tool.queries)

	// Second model call must carry the tool response.
	require.Len(t, model.calls, 2)
	last := model.calls[1][len(model.calls[1])-1]
	assert.Equal(t, llms.ChatMessageTypeTool, last.Role)
	resp, ok := last.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", resp.ToolCallID)
	assert.Contains(t, resp.Content, "sturdy")
}

func TestChatEmptyRetrievalPointsToSupport(t *testing.T) {
	// Nothing indexed: the search comes back empty and the model is
	// instructed to hand out the customer care contact instead.
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "smart watch battery"),
		textResponse("I don't know the answer to that. Please contact our customer care at +97 98652365."),
	}}
	tool := &recordingTool{output: ""}
	ag, _ := newTestAgent(t, model, tool, testAgentConfig())

	reply, err := ag.Chat(context.Background(), "t1", "how long does the smart watch battery last?")
	require.NoError(t, err)
	assert.Equal(t, []string{"smart watch battery"}, tool.queries)
	assert.Contains(t, reply, "+97 98652365")

	// The empty search result still flows back as a tool response.
	require.Len(t, model.calls, 2)
	last := model.calls[1][len(model.calls[1])-1]
	assert.Equal(t, llms.ChatMessageTypeTool, last.Role)
	resp, ok := last.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call-1", resp.ToolCallID)
	assert.Empty(t, resp.Content)
}

func TestChatEmptyReplyFallsBack(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{textResponse("  ")}}
	ag, _ := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	reply, err := ag.Chat(context.Background(), "t1", "hello?")
	require.NoError(t, err)
	assert.Equal(t, noAnswerFallback, reply)
}

func TestChatBlankMessageSkipsModel(t *testing.T) {
	model := &scriptedModel{}
	ag, saver := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	reply, err := ag.Chat(context.Background(), "t1", "   ")
	require.NoError(t, err)
	assert.Equal(t, noAnswerFallback, reply)
	assert.Empty(t, model.calls)
	assert.Equal(t, 0, saver.Len("t1"))
}

func TestChatToolLoopBound(t *testing.T) {
	// The model keeps asking for the tool and never answers.
	cfg := testAgentConfig()
	cfg.MaxToolTurns = 2
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "a"),
		toolCallResponse("call-2", "b"),
		toolCallResponse("call-3", "c"),
	}}
	tool := &recordingTool{output: "passage"}
	ag, _ := newTestAgent(t, model, tool, cfg)

	_, err := ag.Chat(context.Background(), "t1", "question")
	require.ErrorIs(t, err, ErrModel)
	assert.Len(t, model.calls, 2)
}

func TestChatModelError(t *testing.T) {
	model := &scriptedModel{err: fmt.Errorf("upstream 500")}
	ag, saver := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	_, err := ag.Chat(context.Background(), "t1", "question")
	require.ErrorIs(t, err, ErrModel)
	// Failed turns leave no partial history behind.
	assert.Equal(t, 0, saver.Len("t1"))
}

func TestChatToolError(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "q"),
	}}
	tool := &recordingTool{err: fmt.Errorf("index down")}
	ag, _ := newTestAgent(t, model, tool, testAgentConfig())

	_, err := ag.Chat(context.Background(), "t1", "question")
	assert.ErrorIs(t, err, ErrTool)
}

func TestChatUnknownToolRejected(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		{Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   "call-1",
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      "delete_everything",
					Arguments: `{}`,
				},
			}},
		}}},
	}}
	ag, _ := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	_, err := ag.Chat(context.Background(), "t1", "question")
	assert.ErrorIs(t, err, ErrTool)
}

func TestChatMemoryAcrossTurns(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("The tripod costs very little."),
		textResponse("You asked about the tripod."),
	}}
	ag, saver := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	_, err := ag.Chat(context.Background(), "t1", "tell me about the tripod")
	require.NoError(t, err)
	_, err = ag.Chat(context.Background(), "t1", "what did I just ask about?")
	require.NoError(t, err)

	assert.Equal(t, 4, saver.Len("t1"))

	// Second call sees the full prior exchange.
	require.Len(t, model.calls, 2)
	var sawFirstQuestion bool
	for _, msg := range model.calls[1] {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok && strings.Contains(text.Text, "tell me about the tripod") {
				sawFirstQuestion = true
			}
		}
	}
	assert.True(t, sawFirstQuestion)
}

func TestChatThreadsAreIsolated(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("answer one"),
		textResponse("answer two"),
	}}
	ag, saver := newTestAgent(t, model, &recordingTool{}, testAgentConfig())

	_, err := ag.Chat(context.Background(), "t1", "first thread")
	require.NoError(t, err)
	_, err = ag.Chat(context.Background(), "t2", "second thread")
	require.NoError(t, err)

	assert.Equal(t, 2, saver.Len("t1"))
	assert.Equal(t, 2, saver.Len("t2"))

	// The second thread must not see the first thread's history.
	require.Len(t, model.calls, 2)
	for _, msg := range model.calls[1] {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				assert.NotContains(t, text.Text, "first thread")
			}
		}
	}
}

func TestSummarization(t *testing.T) {
	cfg := testAgentConfig()
	cfg.SummaryTrigger = 4
	cfg.SummaryKeep = 2

	// First scripted response answers the summarization request, the
	// second answers the user.
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("The user compared two phone models."),
		textResponse("Based on the reviews, pick the second one."),
	}}
	ag, saver := newTestAgent(t, model, &recordingTool{}, cfg)

	// Preload a thread past the trigger.
	ctx := context.Background()
	var history []llms.MessageContent
	for i := 0; i < 4; i++ {
		role := llms.ChatMessageTypeHuman
		if i%2 == 1 {
			role = llms.ChatMessageTypeAI
		}
		history = append(history, llms.TextParts(role, fmt.Sprintf("message %d", i)))
	}
	require.NoError(t, saver.Put(ctx, "t1", history))

	reply, err := ag.Chat(ctx, "t1", "so which should I buy?")
	require.NoError(t, err)
	assert.Equal(t, "Based on the reviews, pick the second one.", reply)

	// Stored history: summary + kept 2 + assistant reply.
	stored, err := saver.Get(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, stored, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, stored[0].Role)
	summaryText, ok := stored[0].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(summaryText.Text, summaryPrefix))
	assert.Contains(t, summaryText.Text, "compared two phone models")

	// The answer call operated on the compacted history.
	require.Len(t, model.calls, 2)
	assert.LessOrEqual(t, len(model.calls[1]), cfg.SummaryKeep+2)
}

func TestSummarizationNotTriggeredBelowThreshold(t *testing.T) {
	cfg := testAgentConfig()
	cfg.SummaryTrigger = 10
	cfg.SummaryKeep = 4

	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("short answer"),
	}}
	ag, saver := newTestAgent(t, model, &recordingTool{}, cfg)

	_, err := ag.Chat(context.Background(), "t1", "quick question")
	require.NoError(t, err)
	assert.Len(t, model.calls, 1)
	assert.Equal(t, 2, saver.Len("t1"))
}
