package mcpadapter

import (
	"context"
	"testing"

	"github.com/lukitun/Jahbreak/internal/models"
	"github.com/lukitun/Jahbreak/internal/setup"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

const scenarioA = "You are a Software Engineer. Please provide a step-by-step guide. Context: the user wants to learn. Format your answer as a numbered list. For example: 1. Install the tool."

func newTestDeps(t *testing.T) *setup.Dependencies {
	t.Helper()
	t.Setenv("RUBRIC_CONFIG_PATH", "")

	logger := zerolog.Nop()
	deps, err := setup.Wire(context.Background(), setup.LoadConfig(), &logger)
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	return deps
}

func TestEvaluateHandler(t *testing.T) {
	handler := NewEvaluateHandler(newTestDeps(t).Executor)

	_, result, err := handler(context.Background(), &mcp.CallToolRequest{}, EvaluateInput{
		EventID: "mcp-1",
		Query:   "How to learn programming",
		Text:    scenarioA,
		Variant: "direct",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ID != "mcp-1" {
		t.Errorf("expected ID mcp-1, got %s", result.ID)
	}
	if !result.Passed {
		t.Errorf("expected scenario A to pass, issues: %v", result.Issues)
	}
}

func TestEvaluateHandler_InvalidInput(t *testing.T) {
	handler := NewEvaluateHandler(newTestDeps(t).Executor)

	_, _, err := handler(context.Background(), &mcp.CallToolRequest{}, EvaluateInput{
		Query:            "How to learn programming",
		Text:             scenarioA,
		Variant:          "direct",
		ExpectedKeywords: []string{"learn", ""},
	})
	if err == nil {
		t.Fatal("expected validation error for a blank keyword")
	}
}

func TestEvaluateHandler_MissingQueryAndVariant(t *testing.T) {
	handler := NewEvaluateHandler(newTestDeps(t).Executor)

	_, result, err := handler(context.Background(), &mcp.CallToolRequest{}, EvaluateInput{Text: scenarioA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Passed {
		t.Error("expected a failing verdict")
	}
	if !result.HasIssue(models.IssueQueryIrrelevant) || !result.HasIssue(models.IssueUnexpectedVariantKind) {
		t.Errorf("expected QueryIrrelevant and UnexpectedVariantKind, got %v", result.Issues)
	}
}

func TestCompareHandler(t *testing.T) {
	handler := NewCompareHandler(newTestDeps(t).CompareExecutor)

	variant := EvaluateInput{Query: "How to learn programming", Text: scenarioA}
	first, second := variant, variant
	first.Variant = "1-shot"
	second.Variant = "2-shot"

	_, pair, err := handler(context.Background(), &mcp.CallToolRequest{}, CompareInput{
		EventID:        "mcp-pair",
		First:          first,
		Second:         second,
		ExpectDistinct: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pair.VariantsIdentical {
		t.Error("expected identical variants to be flagged")
	}
	if pair.Passed {
		t.Error("expected pair to fail")
	}
	if pair.Second.Variant != models.VariantInteractive {
		t.Errorf("expected second variant interactive, got %s", pair.Second.Variant)
	}
}

func TestRegisterTools(t *testing.T) {
	deps := newTestDeps(t)
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)

	// AddTool panics on schema inference failures.
	RegisterTools(server, deps.Executor, deps.CompareExecutor)
}
