package testkit

import (
	"context"
	"strings"
	"sync"

	"gocausal/internal/errors"
	"gocausal/ports"
)

// ScriptedClient implements ports.CompletionClient with canned responses
// keyed by substrings of the prompt. The first rule whose substring matches
// wins; unmatched prompts return the default response or an error when no
// default is set. Safe for concurrent use.
type ScriptedClient struct {
	mu       sync.Mutex
	rules    []scriptRule
	fallback string
	hasDef   bool
	calls    []string
}

type scriptRule struct {
	substring string
	responses []string
	next      int
}

// NewScriptedClient creates an empty scripted client
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{}
}

// On registers responses for prompts containing substring. Multiple
// responses are served in order, the last one repeating; this lets a test
// vary individual self-consistency samples.
func (c *ScriptedClient) On(substring string, responses ...string) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = append(c.rules, scriptRule{substring: substring, responses: responses})
	return c
}

// Default sets the response for prompts no rule matches
func (c *ScriptedClient) Default(response string) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = response
	c.hasDef = true
	return c
}

// Complete serves the scripted response for the prompt
func (c *ScriptedClient) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, req.Prompt)

	for i := range c.rules {
		rule := &c.rules[i]
		if !strings.Contains(req.Prompt, rule.substring) {
			continue
		}
		if len(rule.responses) == 0 {
			return "", errors.ExternalServiceError("scripted", nil)
		}
		idx := rule.next
		if idx >= len(rule.responses) {
			idx = len(rule.responses) - 1
		}
		rule.next++
		return rule.responses[idx], nil
	}

	if c.hasDef {
		return c.fallback, nil
	}
	return "", errors.ExternalServiceError("scripted", errors.InternalError("no rule matches prompt"))
}

// Calls returns the prompts received so far
func (c *ScriptedClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many completions were requested
func (c *ScriptedClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
