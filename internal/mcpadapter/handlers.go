package mcpadapter

import (
	"context"

	"github.com/lukitun/Jahbreak/internal/executor"
	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EvaluateInput is the MCP tool input schema (matches HTTP API field names).
type EvaluateInput struct {
	EventID              string   `json:"event_id,omitempty" jsonschema:"unique event identifier"`
	Query                string   `json:"user_query" jsonschema:"natural-language request the prompt was generated for"`
	Text                 string   `json:"text" jsonschema:"generated prompt to evaluate"`
	Variant              string   `json:"variant" jsonschema:"variant kind: direct, interactive or unsafe (1-shot and 2-shot accepted)"`
	ExpectedKeywords     []string `json:"expected_keywords,omitempty" jsonschema:"keywords the prompt should contain"`
	ExpectedPersonaTerms []string `json:"expected_persona_terms,omitempty" jsonschema:"requested persona or role label"`
}

// CompareInput is the MCP tool input schema for variant comparison.
type CompareInput struct {
	EventID        string        `json:"event_id,omitempty" jsonschema:"unique event identifier"`
	First          EvaluateInput `json:"first" jsonschema:"first variant"`
	Second         EvaluateInput `json:"second" jsonschema:"second variant"`
	ExpectDistinct bool          `json:"expect_distinct,omitempty" jsonschema:"fail the pair when both variants produced identical text"`
}

func (in EvaluateInput) sample() models.Sample {
	return models.Sample{
		Query:                in.Query,
		Text:                 in.Text,
		Variant:              in.Variant,
		ExpectedKeywords:     in.ExpectedKeywords,
		ExpectedPersonaTerms: in.ExpectedPersonaTerms,
	}
}

// RegisterTools adds the evaluate_prompt and compare_prompts tools.
func RegisterTools(server *mcp.Server, exec *executor.Executor, compareExec *executor.CompareExecutor) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "evaluate_prompt",
		Description: "Score a generated prompt for structure, query relevance, coherence and variant-specific framing (interaction or safety)",
	}, NewEvaluateHandler(exec))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compare_prompts",
		Description: "Evaluate two prompt variants generated from the same query and report whether they are identical",
	}, NewCompareHandler(compareExec))
}

// NewEvaluateHandler returns a tool handler that uses the given executor.
// Pass the returned function to mcp.AddTool.
func NewEvaluateHandler(exec *executor.Executor) func(context.Context, *mcp.CallToolRequest, EvaluateInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
		return EvaluateResponse(ctx, exec, req, input)
	}
}

// EvaluateResponse runs the evaluation pipeline and returns the result.
func EvaluateResponse(
	ctx context.Context,
	exec *executor.Executor,
	req *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, models.EvaluationResult, error) {
	sample := input.sample()
	if err := models.ValidateStruct(sample); err != nil {
		return nil, models.EvaluationResult{}, err
	}

	result := exec.Execute(ctx, models.Normalize(input.EventID, sample))
	return nil, result, nil
}

// NewCompareHandler returns a tool handler for variant comparison.
// Pass the returned function to mcp.AddTool.
func NewCompareHandler(compareExec *executor.CompareExecutor) func(context.Context, *mcp.CallToolRequest, CompareInput) (*mcp.CallToolResult, models.PairResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input CompareInput) (*mcp.CallToolResult, models.PairResult, error) {
		return CompareResponse(ctx, compareExec, req, input)
	}
}

// CompareResponse evaluates both variants and compares them.
func CompareResponse(
	ctx context.Context,
	compareExec *executor.CompareExecutor,
	req *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, models.PairResult, error) {
	compareRequest := models.CompareRequest{
		EventID:        input.EventID,
		First:          input.First.sample(),
		Second:         input.Second.sample(),
		ExpectDistinct: input.ExpectDistinct,
	}
	if err := models.ValidateStruct(compareRequest); err != nil {
		return nil, models.PairResult{}, err
	}

	id, first, second := models.NormalizePair(compareRequest)
	pair := compareExec.Execute(ctx, id, first, second, input.ExpectDistinct)
	return nil, pair, nil
}
