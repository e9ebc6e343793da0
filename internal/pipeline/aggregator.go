package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/arialabs/aria/internal/llm"
	"github.com/arialabs/aria/internal/tools"
)

const (
	// maxToolRounds caps how many generate-dispatch cycles a single turn
	// may take before the model is forced to answer in plain text.
	maxToolRounds = 5

	// contextWindowTurns bounds the rolling context fed to the model.
	contextWindowTurns = 24
)

// toolLoopApology is spoken when the round cap cuts off a model that was
// still asking for tools and left no text to say.
const toolLoopApology = "I'm sorry, I'm having trouble working that out right now. Could we try a different question?"

// aggregator owns the rolling model context for one conversation. Tool
// exchanges are kept inside the turn that produced them; only user and
// assistant text survives into later turns, which keeps the context valid
// after trimming.
type aggregator struct {
	mu       sync.Mutex
	system   llm.Message
	messages []llm.Message
}

func newAggregator(systemPrompt string) *aggregator {
	return &aggregator{
		system: llm.Message{Role: "system", Content: systemPrompt},
	}
}

func (a *aggregator) addUser(text string) {
	a.append(llm.Message{Role: "user", Content: text})
}

func (a *aggregator) addAssistant(text string) {
	a.append(llm.Message{Role: "assistant", Content: text})
}

func (a *aggregator) append(msg llm.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, msg)
	if len(a.messages) > contextWindowTurns {
		a.messages = a.messages[len(a.messages)-contextWindowTurns:]
	}
}

// snapshot returns a copy of the current context, system prompt first.
func (a *aggregator) snapshot() []llm.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]llm.Message, 0, len(a.messages)+1)
	out = append(out, a.system)
	out = append(out, a.messages...)
	return out
}

// turnResult is what one completed assistant turn produced.
type turnResult struct {
	Text      string
	ToolsUsed []string
}

// completeTurn runs the generate-dispatch loop for one user utterance. Tool
// calls are resolved strictly one at a time, in the order the model emitted
// them; the next generation only starts after every result is appended.
func (p *Pipeline) completeTurn(ctx context.Context, agg *aggregator, userText string) (turnResult, error) {
	agg.addUser(userText)
	msgs := agg.snapshot()
	defs := p.router.Definitions()

	var used []string
	for round := 0; ; round++ {
		start := time.Now()
		resp, err := p.brain.Complete(ctx, llm.CompletionRequest{
			Messages: msgs,
			Tools:    defs,
		})
		p.metrics.ObserveLLMRoundTrip(time.Since(start))
		if err != nil {
			return turnResult{}, err
		}

		if len(resp.ToolCalls) == 0 || round >= maxToolRounds {
			text := resp.Content
			if text == "" && len(resp.ToolCalls) > 0 {
				text = toolLoopApology
			}
			agg.addAssistant(text)
			return turnResult{Text: text, ToolsUsed: used}, nil
		}

		msgs = append(msgs, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			result := p.dispatchToolCall(ctx, call)
			used = append(used, call.Name)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(`{"error":"` + tools.ErrUpstreamFailure + `","message":"internal result encoding failure"}`)
			}
			msgs = append(msgs, llm.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    string(payload),
			})
		}
	}
}

func (p *Pipeline) dispatchToolCall(ctx context.Context, call llm.ToolCall) tools.Result {
	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return tools.Errorf(tools.ErrInvalidInput, "arguments for %s were not a valid JSON object", call.Name)
		}
	}
	return p.router.Dispatch(ctx, call.Name, args)
}
