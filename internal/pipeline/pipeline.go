// Package pipeline drives one spoken conversation end to end: inbound audio
// through speech-to-text, the tool-calling language model, speech synthesis,
// and back out over the transport. It owns the session lifecycle and hands
// finished turns to the persistence sink without ever waiting on it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arialabs/aria/internal/convo"
	"github.com/arialabs/aria/internal/llm"
	"github.com/arialabs/aria/internal/observability"
	"github.com/arialabs/aria/internal/policy"
	"github.com/arialabs/aria/internal/protocol"
	"github.com/arialabs/aria/internal/session"
	"github.com/arialabs/aria/internal/tools"
	"github.com/arialabs/aria/internal/voice"
)

const ttsFinalizeTimeout = 10 * time.Second

type Config struct {
	DefaultVoice  string
	DefaultModel  string
	VoiceProvider string
	FirstAudioSLO time.Duration
}

type Pipeline struct {
	sessions    *session.Manager
	brain       llm.Provider
	router      *tools.Router
	sink        *convo.Sink
	sttProvider voice.STTProvider
	ttsProvider voice.TTSProvider
	metrics     *observability.Metrics

	defaultVoice  string
	defaultModel  string
	sttLabel      string
	ttsLabel      string
	firstAudioSLO time.Duration
}

// New wires the pipeline stages together. Every stage must be present; a
// missing one is a deployment mistake that should block startup, not
// surface mid-call.
func New(
	sessions *session.Manager,
	brain llm.Provider,
	router *tools.Router,
	sink *convo.Sink,
	sttProvider voice.STTProvider,
	ttsProvider voice.TTSProvider,
	metrics *observability.Metrics,
	cfg Config,
) (*Pipeline, error) {
	switch {
	case sessions == nil:
		return nil, errors.New("pipeline: session manager is required")
	case brain == nil:
		return nil, errors.New("pipeline: language model provider is required")
	case router == nil:
		return nil, errors.New("pipeline: tool router is required")
	case sink == nil:
		return nil, errors.New("pipeline: persistence sink is required")
	case sttProvider == nil:
		return nil, errors.New("pipeline: stt provider is required")
	case ttsProvider == nil:
		return nil, errors.New("pipeline: tts provider is required")
	case metrics == nil:
		return nil, errors.New("pipeline: metrics are required")
	}

	vp := strings.ToLower(strings.TrimSpace(cfg.VoiceProvider))
	if vp == "" {
		vp = "unknown"
	}
	return &Pipeline{
		sessions:      sessions,
		brain:         brain,
		router:        router,
		sink:          sink,
		sttProvider:   sttProvider,
		ttsProvider:   ttsProvider,
		metrics:       metrics,
		defaultVoice:  cfg.DefaultVoice,
		defaultModel:  cfg.DefaultModel,
		sttLabel:      vp + "_stt",
		ttsLabel:      vp + "_tts",
		firstAudioSLO: cfg.FirstAudioSLO,
	}, nil
}

// RunConnection drives one attached transport until the client disconnects,
// the conversation is ended, or an unrecoverable error occurs. inbound
// carries parsed client messages; outbound carries protocol messages for the
// websocket writer.
func (p *Pipeline) RunConnection(ctx context.Context, s *session.Session, inbound <-chan any, outbound chan<- any) error {
	sttSession, sttEvents, err := p.sttProvider.StartSession(ctx, s.ID)
	if err != nil {
		p.send(outbound, protocol.ErrorEvent{
			Type:           protocol.TypeErrorEvent,
			ConversationID: s.ID,
			Code:           "stt_connect_failed",
			Source:         p.sttLabel,
			Retryable:      true,
			Detail:         err.Error(),
		})
		if _, ferr := p.sessions.Fail(s.ID); ferr != nil {
			log.Printf("pipeline: mark failed %s: %v", s.ID, ferr)
		}
		return err
	}
	defer sttSession.Close()

	p.metrics.ActiveSessions.Set(float64(p.sessions.ActiveCount()))
	defer func() {
		p.metrics.ActiveSessions.Set(float64(p.sessions.ActiveCount()))
	}()
	p.metrics.SessionEvents.WithLabelValues("transport_attached").Inc()

	agg := newAggregator(personaPrompt(s.ParticipantName, s.BirthDate))

	var (
		turnMu     sync.Mutex
		turnCancel context.CancelFunc
		turnDone   chan struct{}
	)
	cancelActiveTurn := func() {
		turnMu.Lock()
		cancel := turnCancel
		done := turnDone
		turnCancel = nil
		turnDone = nil
		turnMu.Unlock()
		if cancel != nil {
			cancel()
		}
		if done != nil {
			<-done
		}
	}
	defer cancelActiveTurn()

	lastSampleRate := 16000

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw, ok := <-inbound:
			if !ok {
				return nil
			}
			switch msg := raw.(type) {
			case protocol.ClientAudioChunk:
				lastSampleRate = msg.SampleRate
				if err := sttSession.SendAudioChunk(ctx, msg.PCM16Base64, msg.SampleRate, false); err != nil {
					p.metrics.ProviderErrors.WithLabelValues(p.sttLabel, "send_audio").Inc()
					log.Printf("pipeline: forward audio %s: %v", s.ID, err)
				}
				if err := p.sessions.Touch(s.ID); err != nil {
					return err
				}
			case protocol.ClientControl:
				switch msg.Action {
				case protocol.ActionCommit:
					if err := sttSession.SendAudioChunk(ctx, "", lastSampleRate, true); err != nil {
						p.metrics.ProviderErrors.WithLabelValues(p.sttLabel, "commit").Inc()
					}
				case protocol.ActionEnd:
					if _, err := p.sessions.End(s.ID); err != nil {
						return err
					}
					p.metrics.SessionEvents.WithLabelValues("ended_by_client").Inc()
					return nil
				}
			}

		case evt, ok := <-sttEvents:
			if !ok {
				p.metrics.SessionEvents.WithLabelValues("stt_stream_closed").Inc()
				return nil
			}
			switch evt.Type {
			case voice.STTEventPartial:
				p.send(outbound, protocol.STTPartial{
					Type:           protocol.TypeSTTPartial,
					ConversationID: s.ID,
					Text:           evt.Text,
					Confidence:     evt.Confidence,
					TSMs:           evt.Timestamp,
				})
			case voice.STTEventCommitted:
				text := strings.TrimSpace(evt.Text)
				if text == "" {
					continue
				}
				p.send(outbound, protocol.STTCommitted{
					Type:           protocol.TypeSTTCommitted,
					ConversationID: s.ID,
					Text:           text,
					TSMs:           evt.Timestamp,
				})

				// Barge-in: a new committed utterance preempts the
				// assistant turn still speaking.
				cancelActiveTurn()

				turnID := uuid.NewString()
				if err := p.sessions.StartTurn(s.ID, turnID); err != nil {
					return err
				}
				turnCtx, cancel := context.WithCancel(ctx)
				done := make(chan struct{})
				turnMu.Lock()
				turnCancel = cancel
				turnDone = done
				turnMu.Unlock()
				go func(userText, turnID string, committedAt time.Time) {
					defer close(done)
					defer cancel()
					if err := p.runAssistantTurn(turnCtx, *s, agg, userText, turnID, committedAt, outbound); err != nil && !errors.Is(err, context.Canceled) {
						log.Printf("pipeline: assistant turn %s: %v", turnID, err)
					}
				}(text, turnID, time.Now())
			case voice.STTEventError:
				p.metrics.ProviderErrors.WithLabelValues(p.sttLabel, evt.Code).Inc()
				p.send(outbound, protocol.ErrorEvent{
					Type:           protocol.TypeErrorEvent,
					ConversationID: s.ID,
					Code:           evt.Code,
					Source:         p.sttLabel,
					Retryable:      evt.Retryable,
					Detail:         evt.Detail,
				})
			}
		}
	}
}

// runAssistantTurn resolves one user utterance into spoken assistant output.
// Both sides of the exchange are handed to the sink; a slow or failing store
// never holds up the audio path.
func (p *Pipeline) runAssistantTurn(
	ctx context.Context,
	s session.Session,
	agg *aggregator,
	userText, turnID string,
	committedAt time.Time,
	outbound chan<- any,
) error {
	redactedUser, _ := policy.RedactPII(userText)
	p.sink.Submit(convo.Turn{
		ID:             uuid.NewString(),
		ConversationID: s.ID,
		Role:           convo.RoleUser,
		Content:        redactedUser,
		Timestamp:      time.Now().UTC(),
	})

	voiceID := s.VoiceID
	if strings.TrimSpace(voiceID) == "" {
		voiceID = p.defaultVoice
	}

	// Open the synthesis stream while the model is thinking.
	type ttsPreflight struct {
		stream voice.TTSStream
		err    error
	}
	ttsCh := make(chan ttsPreflight, 1)
	go func() {
		stream, err := p.ttsProvider.StartStream(ctx, voiceID, p.defaultModel, voice.TTSSettings{})
		ttsCh <- ttsPreflight{stream: stream, err: err}
	}()
	ttsTaken := false
	defer func() {
		if ttsTaken {
			return
		}
		// The turn ended before synthesis was needed (model failure, empty
		// reply, barge-in). Reap the preflighted stream once the dial
		// finishes so it does not linger on the vendor side.
		go func() {
			if pf := <-ttsCh; pf.stream != nil {
				_ = pf.stream.Close()
			}
		}()
	}()

	result, err := p.completeTurn(ctx, agg, userText)
	if err != nil {
		p.metrics.ProviderErrors.WithLabelValues("llm", "complete").Inc()
		p.send(outbound, protocol.ErrorEvent{
			Type:           protocol.TypeErrorEvent,
			ConversationID: s.ID,
			Code:           "llm_complete_failed",
			Source:         "llm",
			Retryable:      true,
			Detail:         err.Error(),
		})
		return err
	}

	assistantText := strings.TrimSpace(result.Text)
	if assistantText != "" {
		p.send(outbound, protocol.AssistantTextDelta{
			Type:           protocol.TypeAssistantTextDelta,
			ConversationID: s.ID,
			TurnID:         turnID,
			TextDelta:      assistantText,
		})
	}

	var meta map[string]any
	if len(result.ToolsUsed) > 0 {
		meta = map[string]any{"tools_used": result.ToolsUsed}
	}
	p.sink.Submit(convo.Turn{
		ID:             uuid.NewString(),
		ConversationID: s.ID,
		Role:           convo.RoleAssistant,
		Content:        assistantText,
		Timestamp:      time.Now().UTC(),
		Metadata:       meta,
	})

	speech := voice.SanitizeSpeechText(assistantText)
	if speech == "" {
		p.send(outbound, protocol.AssistantTurnEnd{
			Type:           protocol.TypeAssistantTurnEnd,
			ConversationID: s.ID,
			TurnID:         turnID,
			Reason:         "no_speech",
		})
		return nil
	}

	tts := <-ttsCh
	ttsTaken = true
	if tts.err != nil {
		p.metrics.ProviderErrors.WithLabelValues(p.ttsLabel, "start_stream").Inc()
		p.send(outbound, protocol.ErrorEvent{
			Type:           protocol.TypeErrorEvent,
			ConversationID: s.ID,
			Code:           "tts_connect_failed",
			Source:         p.ttsLabel,
			Retryable:      true,
			Detail:         tts.err.Error(),
		})
		return tts.err
	}
	defer tts.stream.Close()

	// Feed the synthesizer sentence by sentence so audio starts before the
	// full reply is forwarded.
	sent := false
	for _, chunk := range voice.SplitSpeechChunks(assistantText) {
		piece := voice.SanitizeSpeechText(chunk)
		if piece == "" {
			continue
		}
		piece = voice.BridgeSpeechDelta(chunk, piece, sent)
		if err := tts.stream.SendText(ctx, piece, true); err != nil {
			return fmt.Errorf("send speech text: %w", err)
		}
		sent = true
	}
	if err := tts.stream.CloseInput(ctx); err != nil {
		return fmt.Errorf("finalize speech: %w", err)
	}

	seq := 0
	firstAudioSeen := false
	finalize := time.NewTimer(ttsFinalizeTimeout)
	defer finalize.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-finalize.C:
			p.metrics.ProviderErrors.WithLabelValues(p.ttsLabel, "finalize_timeout").Inc()
			p.send(outbound, protocol.AssistantTurnEnd{
				Type:           protocol.TypeAssistantTurnEnd,
				ConversationID: s.ID,
				TurnID:         turnID,
				Reason:         "tts_timeout",
			})
			return nil
		case evt, ok := <-tts.stream.Events():
			if !ok {
				p.send(outbound, protocol.AssistantTurnEnd{
					Type:           protocol.TypeAssistantTurnEnd,
					ConversationID: s.ID,
					TurnID:         turnID,
					Reason:         "stream_closed",
				})
				return nil
			}
			switch evt.Type {
			case voice.TTSEventAudio:
				if !firstAudioSeen {
					firstAudioSeen = true
					latency := time.Since(committedAt)
					p.metrics.ObserveFirstAudioLatency(latency)
					if p.firstAudioSLO > 0 && latency > p.firstAudioSLO {
						log.Printf("pipeline: first audio for turn %s took %s (target %s)", turnID, latency.Round(time.Millisecond), p.firstAudioSLO)
					}
				}
				p.send(outbound, protocol.AssistantAudioChunk{
					Type:           protocol.TypeAssistantAudio,
					ConversationID: s.ID,
					TurnID:         turnID,
					Seq:            seq,
					Format:         evt.Format,
					AudioBase64:    evt.AudioBase64,
				})
				seq++
			case voice.TTSEventFinal:
				p.send(outbound, protocol.AssistantTurnEnd{
					Type:           protocol.TypeAssistantTurnEnd,
					ConversationID: s.ID,
					TurnID:         turnID,
					Reason:         "completed",
				})
				return nil
			case voice.TTSEventError:
				p.metrics.ProviderErrors.WithLabelValues(p.ttsLabel, evt.Code).Inc()
				p.send(outbound, protocol.ErrorEvent{
					Type:           protocol.TypeErrorEvent,
					ConversationID: s.ID,
					Code:           evt.Code,
					Source:         p.ttsLabel,
					Retryable:      evt.Retryable,
					Detail:         evt.Detail,
				})
			}
		}
	}
}

// send never blocks the audio path: bursty low-priority messages are dropped
// when the writer cannot keep up.
func (p *Pipeline) send(outbound chan<- any, msg any) {
	msgType := "unknown"
	switch msg.(type) {
	case protocol.STTPartial:
		msgType = string(protocol.TypeSTTPartial)
	case protocol.STTCommitted:
		msgType = string(protocol.TypeSTTCommitted)
	case protocol.AssistantTextDelta:
		msgType = string(protocol.TypeAssistantTextDelta)
	case protocol.AssistantAudioChunk:
		msgType = string(protocol.TypeAssistantAudio)
	case protocol.AssistantTurnEnd:
		msgType = string(protocol.TypeAssistantTurnEnd)
	case protocol.SystemEvent:
		msgType = string(protocol.TypeSystemEvent)
	case protocol.ErrorEvent:
		msgType = string(protocol.TypeErrorEvent)
	}
	select {
	case outbound <- msg:
		p.metrics.WSMessages.WithLabelValues("out", msgType).Inc()
	default:
		p.metrics.WSMessages.WithLabelValues("out_dropped", msgType).Inc()
		p.metrics.SessionEvents.WithLabelValues("outbound_drop").Inc()
	}
}
