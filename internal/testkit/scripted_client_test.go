package testkit

import (
	"context"
	"testing"

	"gocausal/ports"
)

func TestScriptedClientRuleOrderAndSequence(t *testing.T) {
	client := NewScriptedClient().
		On("alpha", "first", "second").
		Default("fallback")

	ctx := context.Background()
	resp, err := client.Complete(ctx, ports.CompletionRequest{Prompt: "contains alpha here"})
	if err != nil || resp != "first" {
		t.Fatalf("expected first scripted response, got %q err=%v", resp, err)
	}
	resp, _ = client.Complete(ctx, ports.CompletionRequest{Prompt: "alpha again"})
	if resp != "second" {
		t.Errorf("expected second response, got %q", resp)
	}
	resp, _ = client.Complete(ctx, ports.CompletionRequest{Prompt: "alpha once more"})
	if resp != "second" {
		t.Errorf("last response should repeat, got %q", resp)
	}

	resp, err = client.Complete(ctx, ports.CompletionRequest{Prompt: "nothing matches"})
	if err != nil || resp != "fallback" {
		t.Errorf("expected fallback, got %q err=%v", resp, err)
	}
	if client.CallCount() != 4 {
		t.Errorf("expected 4 recorded calls, got %d", client.CallCount())
	}
}

func TestScriptedClientErrorsWithoutDefault(t *testing.T) {
	client := NewScriptedClient()
	if _, err := client.Complete(context.Background(), ports.CompletionRequest{Prompt: "anything"}); err == nil {
		t.Error("unmatched prompt with no default should error")
	}
}
