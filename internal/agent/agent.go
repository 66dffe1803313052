// Package agent implements the conversational loop: per-thread memory,
// history compaction, and tool-calling against the review retriever.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/shopchat/internal/config"
)

var (
	// ErrModel indicates the chat model call failed.
	ErrModel = errors.New("model invocation failed")

	// ErrTool indicates a tool invocation failed.
	ErrTool = errors.New("tool invocation failed")
)

// Agent answers product questions over a review corpus. It is safe for
// concurrent use; turns on the same thread are serialized so history
// stays append-consistent.
type Agent struct {
	model       llms.Model
	tool        tools.Tool
	checkpoints CheckpointStore
	cfg         config.AgentConfig
	logger      *zap.Logger

	// threadLocks serializes turns per thread id.
	threadLocks sync.Map
}

// New creates an Agent.
func New(model llms.Model, tool tools.Tool, checkpoints CheckpointStore, cfg config.AgentConfig, logger *zap.Logger) (*Agent, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required")
	}
	if tool == nil {
		return nil, fmt.Errorf("tool is required")
	}
	if checkpoints == nil {
		return nil, fmt.Errorf("checkpoint store is required")
	}
	if cfg.MaxToolTurns <= 0 {
		return nil, fmt.Errorf("max tool turns must be positive")
	}
	if cfg.SummaryTrigger > 0 && cfg.SummaryKeep >= cfg.SummaryTrigger {
		return nil, fmt.Errorf("summary keep (%d) must be below summary trigger (%d)",
			cfg.SummaryKeep, cfg.SummaryTrigger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		model:       model,
		tool:        tool,
		checkpoints: checkpoints,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// lockThread acquires the per-thread mutex.
func (a *Agent) lockThread(threadID string) *sync.Mutex {
	mu, _ := a.threadLocks.LoadOrStore(threadID, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock
}

// Chat runs one turn on the given thread and returns the reply text.
// The thread's persisted history holds only user and assistant text
// messages; tool exchanges are transient within the turn.
func (a *Agent) Chat(ctx context.Context, threadID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return noAnswerFallback, nil
	}

	lock := a.lockThread(threadID)
	defer lock.Unlock()

	history, err := a.checkpoints.Get(ctx, threadID)
	if err != nil {
		return "", fmt.Errorf("loading thread %s: %w", threadID, err)
	}

	history = append(history, llms.TextParts(llms.ChatMessageTypeHuman, message))

	history, err = a.maybeSummarize(ctx, history)
	if err != nil {
		return "", err
	}

	reply, err := a.generate(ctx, history)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(reply) == "" {
		a.logger.Warn("model returned empty reply", zap.String("thread_id", threadID))
		reply = noAnswerFallback
	}

	history = append(history, llms.TextParts(llms.ChatMessageTypeAI, reply))
	if err := a.checkpoints.Put(ctx, threadID, history); err != nil {
		return "", fmt.Errorf("saving thread %s: %w", threadID, err)
	}

	return reply, nil
}

// generate runs the bounded tool-calling loop over the given history.
func (a *Agent) generate(ctx context.Context, history []llms.MessageContent) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	messages = append(messages, history...)

	toolDefs := []llms.Tool{{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        a.tool.Name(),
			Description: a.tool.Description(),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The product question to search reviews for.",
					},
				},
				"required": []string{"query"},
			},
		},
	}}

	for turn := 0; turn < a.cfg.MaxToolTurns; turn++ {
		resp, err := a.model.GenerateContent(ctx, messages, llms.WithTools(toolDefs))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrModel, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: no choices returned", ErrModel)
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			return choice.Content, nil
		}

		// Echo the tool calls back, then append one response per call.
		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, tc := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, tc)
		}
		messages = append(messages, assistant)

		for _, tc := range choice.ToolCalls {
			output, err := a.dispatch(ctx, tc)
			if err != nil {
				return "", err
			}
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    output,
				}},
			})
		}
	}

	return "", fmt.Errorf("%w: tool loop exceeded %d turns", ErrModel, a.cfg.MaxToolTurns)
}

// dispatch executes a single tool call requested by the model.
func (a *Agent) dispatch(ctx context.Context, tc llms.ToolCall) (string, error) {
	if tc.FunctionCall == nil {
		return "", fmt.Errorf("%w: tool call without function", ErrTool)
	}
	if tc.FunctionCall.Name != a.tool.Name() {
		return "", fmt.Errorf("%w: unknown tool %q", ErrTool, tc.FunctionCall.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		return "", fmt.Errorf("%w: parsing arguments for %s: %v", ErrTool, tc.FunctionCall.Name, err)
	}

	a.logger.Debug("tool call",
		zap.String("tool", tc.FunctionCall.Name),
		zap.String("query", args.Query),
	)

	output, err := a.tool.Call(ctx, args.Query)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTool, tc.FunctionCall.Name, err)
	}
	return output, nil
}

// maybeSummarize compacts history once it exceeds the configured
// trigger: everything but the most recent SummaryKeep messages is
// replaced by a model-written summary carried as a system message.
// A prior summary is folded into the new one.
func (a *Agent) maybeSummarize(ctx context.Context, history []llms.MessageContent) ([]llms.MessageContent, error) {
	if a.cfg.SummaryTrigger <= 0 || len(history) <= a.cfg.SummaryTrigger {
		return history, nil
	}

	keep := a.cfg.SummaryKeep
	older := history[:len(history)-keep]
	recent := history[len(history)-keep:]

	summary, err := a.summarize(ctx, older)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("compacted thread history",
		zap.Int("before", len(history)),
		zap.Int("after", keep+1),
	)

	compacted := make([]llms.MessageContent, 0, keep+1)
	compacted = append(compacted, llms.TextParts(llms.ChatMessageTypeSystem, summaryPrefix+summary))
	compacted = append(compacted, recent...)
	return compacted, nil
}

// summarize asks the model for a compact summary of the messages.
func (a *Agent) summarize(ctx context.Context, messages []llms.MessageContent) (string, error) {
	prompt := make([]llms.MessageContent, 0, len(messages)+2)
	prompt = append(prompt, llms.TextParts(llms.ChatMessageTypeSystem, summaryPrompt))
	prompt = append(prompt, messages...)
	prompt = append(prompt, llms.TextParts(llms.ChatMessageTypeHuman, "Summarize the conversation above."))

	resp, err := a.model.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: summarizing history: %v", ErrModel, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", fmt.Errorf("%w: empty summary", ErrModel)
	}
	return resp.Choices[0].Content, nil
}
