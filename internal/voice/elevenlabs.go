package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arialabs/aria/internal/reliability"
)

// ElevenLabsConfig configures the realtime speech backend. The output format
// must be a PCM variant the client can play back directly; the pipeline never
// decodes audio in-process.
type ElevenLabsConfig struct {
	APIKey       string
	WSBaseURL    string
	STTModelID   string
	TTSVoiceID   string
	OutputFormat string
}

// ElevenLabsProvider speaks both halves of the realtime API: scribe
// speech-to-text sessions and stream-input speech synthesis.
type ElevenLabsProvider struct {
	cfg ElevenLabsConfig
}

func NewElevenLabsProvider(cfg ElevenLabsConfig) *ElevenLabsProvider {
	if strings.TrimSpace(cfg.WSBaseURL) == "" {
		cfg.WSBaseURL = "wss://api.elevenlabs.io"
	}
	if strings.TrimSpace(cfg.STTModelID) == "" {
		cfg.STTModelID = "scribe_v2_realtime"
	}
	if strings.TrimSpace(cfg.OutputFormat) == "" {
		cfg.OutputFormat = "pcm_16000"
	}
	return &ElevenLabsProvider{cfg: cfg}
}

func (p *ElevenLabsProvider) StartSession(ctx context.Context, _ string) (STTSession, <-chan STTEvent, error) {
	u, err := url.Parse(strings.TrimRight(p.cfg.WSBaseURL, "/") + "/v1/speech-to-text/realtime")
	if err != nil {
		return nil, nil, err
	}
	q := u.Query()
	q.Set("model_id", p.cfg.STTModelID)
	q.Set("commit_strategy", "vad")
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("xi-api-key", p.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		return nil, nil, fmt.Errorf("dial elevenlabs stt: %w", err)
	}

	events := make(chan STTEvent, 256)
	s := &scribeSession{conn: conn, events: events}
	go s.readLoop()
	return s, events, nil
}

func (p *ElevenLabsProvider) StartStream(ctx context.Context, voiceID, modelID string, settings TTSSettings) (TTSStream, error) {
	if strings.TrimSpace(voiceID) == "" {
		voiceID = p.cfg.TTSVoiceID
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, fmt.Errorf("voice_id is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "eleven_multilingual_v2"
	}

	u, err := url.Parse(strings.TrimRight(p.cfg.WSBaseURL, "/") + "/v1/text-to-speech/" + url.PathEscape(voiceID) + "/stream-input")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("model_id", modelID)
	q.Set("output_format", p.cfg.OutputFormat)
	q.Set("auto_mode", "true")
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("xi-api-key", p.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		return nil, fmt.Errorf("dial elevenlabs tts: %w", err)
	}

	s := &streamInput{conn: conn, format: p.cfg.OutputFormat, events: make(chan TTSEvent, 512)}
	go s.readLoop()
	// The first frame carries voice settings and primes generation.
	_ = s.writeJSON(map[string]any{
		"text": " ",
		"voice_settings": map[string]any{
			"stability":        clampSetting(settings.Stability, 0.42, 0, 1),
			"similarity_boost": clampSetting(settings.SimilarityBoost, 0.85, 0, 1),
			"speed":            clampSetting(settings.Speed, 1.0, 0.7, 1.2),
		},
	})
	return s, nil
}

// clampSetting substitutes def for an unset value and bounds the rest to what
// the synthesis API accepts.
func clampSetting(v, def, lo, hi float64) float64 {
	if v <= 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

type scribeMessage struct {
	MessageType string `json:"message_type"`
	Text        string `json:"text"`
	Error       string `json:"error"`
}

type scribeSession struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	events    chan STTEvent
}

func (s *scribeSession) SendAudioChunk(_ context.Context, audioBase64 string, sampleRate int, commit bool) error {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	payload := map[string]any{
		"message_type":  "input_audio_chunk",
		"audio_base_64": audioBase64,
		"commit":        commit,
		"sample_rate":   sampleRate,
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(payload)
}

func (s *scribeSession) readLoop() {
	defer s.safeClose()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg scribeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		switch msg.MessageType {
		case "partial_transcript":
			s.events <- STTEvent{Type: STTEventPartial, Text: msg.Text, Timestamp: time.Now().UnixMilli()}
		case "committed_transcript", "committed_transcript_with_timestamps":
			s.events <- STTEvent{Type: STTEventCommitted, Text: msg.Text, Source: "vad_commit", Timestamp: time.Now().UnixMilli()}
		case "", "session_started", "input_audio_chunk":
			// control traffic
		default:
			s.events <- STTEvent{
				Type:      STTEventError,
				Code:      msg.MessageType,
				Detail:    msg.Error,
				Retryable: reliability.IsRetryableRealtimeMessageType(msg.MessageType),
				Timestamp: time.Now().UnixMilli(),
			}
		}
	}
}

func (s *scribeSession) Close() error {
	var retErr error
	s.closeOnce.Do(func() {
		retErr = s.conn.Close()
		close(s.events)
	})
	return retErr
}

func (s *scribeSession) safeClose() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.events)
	})
}

type streamInputMessage struct {
	Audio       string `json:"audio"`
	IsFinal     bool   `json:"isFinal"`
	Error       string `json:"error"`
	MessageType string `json:"message_type"`
}

type streamInput struct {
	conn      *websocket.Conn
	format    string
	writeMu   sync.Mutex
	closeOnce sync.Once
	events    chan TTSEvent
}

func (s *streamInput) SendText(_ context.Context, text string, tryTrigger bool) error {
	return s.writeJSON(map[string]any{
		"text":                   text,
		"try_trigger_generation": tryTrigger,
	})
}

// CloseInput sends the empty-text sentinel that flushes generation.
func (s *streamInput) CloseInput(_ context.Context) error {
	return s.writeJSON(map[string]any{"text": ""})
}

func (s *streamInput) Events() <-chan TTSEvent { return s.events }

func (s *streamInput) Close() error {
	var retErr error
	s.closeOnce.Do(func() {
		retErr = s.conn.Close()
		close(s.events)
	})
	return retErr
}

func (s *streamInput) writeJSON(payload map[string]any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(payload)
}

func (s *streamInput) readLoop() {
	defer s.safeClose()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg streamInputMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Audio != "" {
			s.events <- TTSEvent{Type: TTSEventAudio, AudioBase64: msg.Audio, Format: s.format}
		}
		if msg.IsFinal {
			s.events <- TTSEvent{Type: TTSEventFinal}
		}
		if msg.Error != "" {
			s.events <- TTSEvent{Type: TTSEventError, Code: msg.MessageType, Detail: msg.Error, Retryable: reliability.IsRetryableRealtimeMessageType(msg.MessageType)}
		}
	}
}

func (s *streamInput) safeClose() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.events)
	})
}
