package retriever

import (
	"context"

	"github.com/tmc/langchaingo/tools"
)

// ToolName is the function name the model calls to search reviews.
const ToolName = "product_review_search"

const toolDescription = "Search the product review corpus and return the " +
	"passages most relevant to the query. Use this whenever the user asks " +
	"about products, their quality, or customer opinions."

// Tool adapts a Retriever to the langchaingo tool interface so the
// agent can invoke retrieval through function calling.
type Tool struct {
	retriever *Retriever
}

// NewTool wraps a Retriever as an agent tool.
func NewTool(r *Retriever) *Tool {
	return &Tool{retriever: r}
}

// Name implements tools.Tool.
func (t *Tool) Name() string {
	return ToolName
}

// Description implements tools.Tool.
func (t *Tool) Description() string {
	return toolDescription
}

// Call runs a similarity search with the raw input as the query. An
// empty result is returned as an empty string so the model can answer
// from the system prompt's fallback instructions.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	return t.retriever.Context(ctx, input)
}

var _ tools.Tool = (*Tool)(nil)
