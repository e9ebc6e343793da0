package voice

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type DeepgramConfig struct {
	APIKey    string
	WSBaseURL string
	Model     string
	Language  string
}

// DeepgramProvider streams audio to Deepgram's live transcription API.
type DeepgramProvider struct {
	cfg DeepgramConfig
}

func NewDeepgramProvider(cfg DeepgramConfig) *DeepgramProvider {
	if strings.TrimSpace(cfg.WSBaseURL) == "" {
		cfg.WSBaseURL = "wss://api.deepgram.com"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "nova-2"
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en-US"
	}
	return &DeepgramProvider{cfg: cfg}
}

func (p *DeepgramProvider) StartSession(ctx context.Context, _ string) (STTSession, <-chan STTEvent, error) {
	u, err := url.Parse(strings.TrimRight(p.cfg.WSBaseURL, "/") + "/v1/listen")
	if err != nil {
		return nil, nil, err
	}
	q := u.Query()
	q.Set("model", p.cfg.Model)
	q.Set("language", p.cfg.Language)
	q.Set("encoding", "linear16")
	q.Set("interim_results", "true")
	q.Set("smart_format", "true")
	q.Set("vad_events", "true")
	q.Set("endpointing", "300")
	u.RawQuery = q.Encode()

	headers := http.Header{}
	headers.Set("Authorization", "Token "+p.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), headers)
	if err != nil {
		return nil, nil, fmt.Errorf("dial stt websocket: %w", err)
	}

	events := make(chan STTEvent, 256)
	s := &deepgramSTTSession{conn: conn, events: events, closed: make(chan struct{})}
	go s.readLoop()
	go s.keepAlive()
	return s, events, nil
}

type deepgramSTTSession struct {
	conn      *websocket.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
	events    chan STTEvent
}

// SendAudioChunk forwards decoded audio as a binary frame. Deepgram keys the
// sample rate off the stream parameters, so the argument is advisory here.
func (s *deepgramSTTSession) SendAudioChunk(_ context.Context, audioBase64 string, _ int, commit bool) error {
	if audioBase64 != "" {
		audio, err := base64.StdEncoding.DecodeString(audioBase64)
		if err != nil {
			return fmt.Errorf("decode audio chunk: %w", err)
		}
		s.writeMu.Lock()
		err = s.conn.WriteMessage(websocket.BinaryMessage, audio)
		s.writeMu.Unlock()
		if err != nil {
			return err
		}
	}
	if commit {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		return s.conn.WriteJSON(map[string]any{"type": "Finalize"})
	}
	return nil
}

func (s *deepgramSTTSession) keepAlive() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.closed:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteJSON(map[string]any{"type": "KeepAlive"})
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (s *deepgramSTTSession) readLoop() {
	defer s.safeClose()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var raw deepgramMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			continue
		}
		switch raw.Type {
		case "Results":
			text := raw.transcript()
			if text == "" {
				continue
			}
			evt := STTEvent{
				Type:       STTEventPartial,
				Text:       text,
				Confidence: raw.confidence(),
				Timestamp:  time.Now().UnixMilli(),
			}
			if raw.IsFinal && raw.SpeechFinal {
				evt.Type = STTEventCommitted
				evt.Source = "speech_final"
			} else if raw.IsFinal {
				evt.Type = STTEventCommitted
				evt.Source = "is_final"
			}
			s.events <- evt
		case "Error":
			s.events <- STTEvent{
				Type:      STTEventError,
				Code:      raw.ErrCode,
				Detail:    raw.Description,
				Retryable: true,
				Timestamp: time.Now().UnixMilli(),
			}
		case "Metadata", "SpeechStarted", "UtteranceEnd":
			// control events
		}
	}
}

func (s *deepgramSTTSession) Close() error {
	var retErr error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteJSON(map[string]any{"type": "CloseStream"})
		s.writeMu.Unlock()
		retErr = s.conn.Close()
		close(s.closed)
		close(s.events)
	})
	return retErr
}

func (s *deepgramSTTSession) safeClose() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
		close(s.closed)
		close(s.events)
	})
}

type deepgramMessage struct {
	Type        string `json:"type"`
	IsFinal     bool   `json:"is_final"`
	SpeechFinal bool   `json:"speech_final"`
	ErrCode     string `json:"err_code"`
	Description string `json:"description"`
	Channel     struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

func (m deepgramMessage) transcript() string {
	if len(m.Channel.Alternatives) == 0 {
		return ""
	}
	return strings.TrimSpace(m.Channel.Alternatives[0].Transcript)
}

func (m deepgramMessage) confidence() float64 {
	if len(m.Channel.Alternatives) == 0 {
		return 0
	}
	return m.Channel.Alternatives[0].Confidence
}
