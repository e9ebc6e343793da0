package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/arialabs/aria/internal/convo"
	"github.com/arialabs/aria/internal/knowledge"
	"github.com/arialabs/aria/internal/llm"
	"github.com/arialabs/aria/internal/observability"
	"github.com/arialabs/aria/internal/protocol"
	"github.com/arialabs/aria/internal/session"
	"github.com/arialabs/aria/internal/tools"
	"github.com/arialabs/aria/internal/voice"
)

type fixture struct {
	pipeline *Pipeline
	sessions *session.Manager
	brain    *llm.MockProvider
	store    *convo.InMemoryStore
	sink     *convo.Sink
}

func newFixture(t *testing.T, responses ...llm.CompletionResponse) *fixture {
	t.Helper()
	metrics := observability.NewMetrics("pipeline_" + t.Name())
	store := convo.NewInMemoryStore()
	sink := convo.NewSink(store, metrics, 64)
	t.Cleanup(sink.Close)

	kb := knowledge.NewInMemoryStore()
	kb.Add(knowledge.Interpretation{
		NumberType: knowledge.TypeLifePath, NumberValue: 3,
		Category: "personality", Content: "Creative and expressive.",
	})
	router := tools.NewNumerologyRouter(kb, metrics)

	sessions := session.NewManager(time.Minute)
	brain := llm.NewMockProvider(responses...)
	mock := voice.NewMockProvider()

	p, err := New(sessions, brain, router, sink, mock, mock, metrics, Config{
		DefaultVoice:  "nova",
		DefaultModel:  "mock",
		VoiceProvider: "mock",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &fixture{pipeline: p, sessions: sessions, brain: brain, store: store, sink: sink}
}

func toolCallResponse(id, name, arguments string) llm.CompletionResponse {
	return llm.CompletionResponse{
		ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: arguments}},
	}
}

func TestNewRejectsMissingStages(t *testing.T) {
	metrics := observability.NewMetrics("pipeline_new_reject_test")
	if _, err := New(session.NewManager(time.Minute), nil, nil, nil, nil, nil, metrics, Config{}); err == nil {
		t.Fatalf("New() with missing stages should fail")
	}
}

func TestCompleteTurnSequentialToolLoop(t *testing.T) {
	f := newFixture(t,
		toolCallResponse("call_1", "calculate_life_path", `{"birth_date":"1990-05-15"}`),
		toolCallResponse("call_2", "get_numerology_interpretation", `{"number_type":"life_path","number_value":3}`),
		llm.CompletionResponse{Content: "Your Life Path number is 3, a creative soul."},
	)

	agg := newAggregator(personaPrompt("Mary Jones", "1990-05-15"))
	result, err := f.pipeline.completeTurn(context.Background(), agg, "What is my life path?")
	if err != nil {
		t.Fatalf("completeTurn() error = %v", err)
	}
	if result.Text != "Your Life Path number is 3, a creative soul." {
		t.Fatalf("result.Text = %q", result.Text)
	}
	if len(result.ToolsUsed) != 2 || result.ToolsUsed[0] != "calculate_life_path" || result.ToolsUsed[1] != "get_numerology_interpretation" {
		t.Fatalf("ToolsUsed = %v", result.ToolsUsed)
	}

	reqs := f.brain.Requests()
	if len(reqs) != 3 {
		t.Fatalf("model round trips = %d, want 3", len(reqs))
	}

	// The second generation must already carry the first tool result.
	second := reqs[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Fatalf("last message before second generation = %+v, want tool result for call_1", last)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(last.Content), &payload); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	if got, ok := payload["life_path_number"].(float64); !ok || int(got) != 3 {
		t.Fatalf("life_path_number = %v, want 3", payload["life_path_number"])
	}

	// The third generation sees both results, in dispatch order.
	third := reqs[2].Messages
	if third[len(third)-1].ToolCallID != "call_2" {
		t.Fatalf("last message before final generation answers %q, want call_2", third[len(third)-1].ToolCallID)
	}
}

func TestCompleteTurnFeedsToolErrorsBack(t *testing.T) {
	f := newFixture(t,
		toolCallResponse("call_1", "calculate_expression_number", `{"full_name":"   "}`),
		llm.CompletionResponse{Content: "Could you share your full birth name with me?"},
	)

	agg := newAggregator(personaPrompt("", ""))
	result, err := f.pipeline.completeTurn(context.Background(), agg, "What are my talents?")
	if err != nil {
		t.Fatalf("completeTurn() error = %v", err)
	}
	if !strings.Contains(result.Text, "full birth name") {
		t.Fatalf("result.Text = %q", result.Text)
	}

	reqs := f.brain.Requests()
	last := reqs[1].Messages[len(reqs[1].Messages)-1]
	var payload map[string]any
	if err := json.Unmarshal([]byte(last.Content), &payload); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	if payload["error"] != tools.ErrInvalidInput {
		t.Fatalf("error kind = %v, want %s", payload["error"], tools.ErrInvalidInput)
	}
}

func TestCompleteTurnUnknownFunctionKeepsGoing(t *testing.T) {
	f := newFixture(t,
		toolCallResponse("call_1", "read_tarot_cards", `{}`),
		llm.CompletionResponse{Content: "I work with numbers, not cards."},
	)

	agg := newAggregator(personaPrompt("", ""))
	result, err := f.pipeline.completeTurn(context.Background(), agg, "Read my cards")
	if err != nil {
		t.Fatalf("completeTurn() error = %v", err)
	}
	if result.Text == "" {
		t.Fatalf("expected a final answer after unknown function result")
	}

	last := f.brain.Requests()[1].Messages
	var payload map[string]any
	_ = json.Unmarshal([]byte(last[len(last)-1].Content), &payload)
	if payload["error"] != tools.ErrUnknownFunction {
		t.Fatalf("error kind = %v, want %s", payload["error"], tools.ErrUnknownFunction)
	}
}

func TestCompleteTurnStopsAtRoundCap(t *testing.T) {
	responses := make([]llm.CompletionResponse, 0, maxToolRounds+3)
	for i := 0; i < maxToolRounds+3; i++ {
		responses = append(responses, toolCallResponse("call_x", "calculate_birthday_number", `{"birth_date":"1990-05-15"}`))
	}
	f := newFixture(t, responses...)

	agg := newAggregator(personaPrompt("", ""))
	result, err := f.pipeline.completeTurn(context.Background(), agg, "loop forever")
	if err != nil {
		t.Fatalf("completeTurn() error = %v", err)
	}
	if len(result.ToolsUsed) != maxToolRounds {
		t.Fatalf("dispatched rounds = %d, want %d", len(result.ToolsUsed), maxToolRounds)
	}
	if result.Text != toolLoopApology {
		t.Fatalf("capped turn text = %q, want the apology reply", result.Text)
	}
}

func TestRunConnectionSpeaksAndPersists(t *testing.T) {
	f := newFixture(t,
		toolCallResponse("call_1", "calculate_life_path", `{"birth_date":"1990-05-15"}`),
		llm.CompletionResponse{Content: "Your Life Path number is 3."},
	)

	s := f.sessions.Create("Mary Jones", "1990-05-15", "")
	attached, err := f.sessions.Attach(s.ID, s.Token)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inbound := make(chan any, 16)
	outbound := make(chan any, 256)
	runErr := make(chan error, 1)
	go func() {
		runErr <- f.pipeline.RunConnection(ctx, attached, inbound, outbound)
	}()

	inbound <- protocol.ClientAudioChunk{
		Type:           protocol.TypeClientAudioChunk,
		ConversationID: s.ID,
		PCM16Base64:    "AQID",
		SampleRate:     16000,
	}
	inbound <- protocol.ClientControl{
		Type:           protocol.TypeClientControl,
		ConversationID: s.ID,
		Action:         protocol.ActionCommit,
	}

	var (
		sawCommitted bool
		sawText      bool
		sawAudio     bool
	)
	deadline := time.After(3 * time.Second)
collect:
	for {
		select {
		case msg := <-outbound:
			switch m := msg.(type) {
			case protocol.STTCommitted:
				sawCommitted = true
			case protocol.AssistantTextDelta:
				if !sawCommitted {
					t.Fatalf("assistant text before committed transcript")
				}
				sawText = true
				if m.TextDelta != "Your Life Path number is 3." {
					t.Fatalf("TextDelta = %q", m.TextDelta)
				}
			case protocol.AssistantAudioChunk:
				if !sawText {
					t.Fatalf("audio before assistant text")
				}
				sawAudio = true
			case protocol.AssistantTurnEnd:
				if !sawAudio {
					t.Fatalf("turn end with no audio, reason %q", m.Reason)
				}
				break collect
			}
		case <-deadline:
			t.Fatalf("no assistant turn end (committed=%v text=%v audio=%v)", sawCommitted, sawText, sawAudio)
		}
	}

	inbound <- protocol.ClientControl{
		Type:           protocol.TypeClientControl,
		ConversationID: s.ID,
		Action:         protocol.ActionEnd,
	}
	if err := <-runErr; err != nil {
		t.Fatalf("RunConnection() error = %v", err)
	}

	got, err := f.sessions.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != session.StatusEnded {
		t.Fatalf("status = %q, want %q", got.Status, session.StatusEnded)
	}

	// The sink writes asynchronously; give it a moment.
	var turns []convo.Turn
	for i := 0; i < 50; i++ {
		turns, err = f.store.ListTurns(context.Background(), s.ID, 1, 50)
		if err != nil {
			t.Fatalf("ListTurns() error = %v", err)
		}
		if len(turns) >= 2 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if len(turns) != 2 {
		t.Fatalf("persisted turns = %d, want 2", len(turns))
	}
	if turns[0].Role != convo.RoleUser || turns[1].Role != convo.RoleAssistant {
		t.Fatalf("turn roles = %s, %s", turns[0].Role, turns[1].Role)
	}
	if used, ok := turns[1].Metadata["tools_used"].([]string); !ok || len(used) != 1 || used[0] != "calculate_life_path" {
		t.Fatalf("assistant metadata = %v", turns[1].Metadata)
	}
}

func TestRunConnectionFailsSessionWhenSTTUnavailable(t *testing.T) {
	f := newFixture(t)

	// Swap in an STT provider that cannot start.
	f.pipeline.sttProvider = failingSTTProvider{}

	s := f.sessions.Create("Mary Jones", "", "")
	attached, err := f.sessions.Attach(s.ID, s.Token)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	outbound := make(chan any, 16)
	if err := f.pipeline.RunConnection(context.Background(), attached, make(chan any), outbound); err == nil {
		t.Fatalf("RunConnection() should fail when STT cannot start")
	}

	got, _ := f.sessions.Get(s.ID)
	if got.Status != session.StatusFailed {
		t.Fatalf("status = %q, want %q", got.Status, session.StatusFailed)
	}
}

func TestRunAssistantTurnClosesUnusedSpeechStream(t *testing.T) {
	f := newFixture(t)

	counting := &countingTTSProvider{inner: voice.NewMockProvider()}
	f.pipeline.ttsProvider = counting
	f.pipeline.brain = unavailableBrain{}

	s := f.sessions.Create("Mary Jones", "1990-05-15", "")
	agg := newAggregator(personaPrompt(s.ParticipantName, s.BirthDate))
	outbound := make(chan any, 16)

	err := f.pipeline.runAssistantTurn(context.Background(), *s, agg, "What is my life path?", "turn_1", time.Now(), outbound)
	if err == nil {
		t.Fatalf("runAssistantTurn() should surface the model failure")
	}

	// The synthesis stream opened ahead of the model call must still be
	// closed even though the turn never reached it.
	deadline := time.After(2 * time.Second)
	for counting.opened.Load() == 0 || counting.closed.Load() < counting.opened.Load() {
		select {
		case <-deadline:
			t.Fatalf("speech streams opened=%d closed=%d, want every opened stream closed", counting.opened.Load(), counting.closed.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

type countingTTSProvider struct {
	inner  voice.TTSProvider
	opened atomic.Int32
	closed atomic.Int32
}

func (p *countingTTSProvider) StartStream(ctx context.Context, voiceID, modelID string, settings voice.TTSSettings) (voice.TTSStream, error) {
	stream, err := p.inner.StartStream(ctx, voiceID, modelID, settings)
	if err != nil {
		return nil, err
	}
	p.opened.Add(1)
	return &countingTTSStream{TTSStream: stream, closed: &p.closed}, nil
}

type countingTTSStream struct {
	voice.TTSStream
	closed *atomic.Int32
	once   sync.Once
}

func (s *countingTTSStream) Close() error {
	s.once.Do(func() { s.closed.Add(1) })
	return s.TTSStream.Close()
}

type unavailableBrain struct{}

func (unavailableBrain) Complete(context.Context, llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return nil, errors.New("completion backend unavailable")
}

type failingSTTProvider struct{}

func (failingSTTProvider) StartSession(context.Context, string) (voice.STTSession, <-chan voice.STTEvent, error) {
	return nil, nil, context.DeadlineExceeded
}
