// Package voice abstracts the realtime speech vendors behind small streaming
// interfaces so the conversation pipeline never dials a vendor directly.
package voice

import "context"

type STTEventType string

const (
	// STTEventPartial is an interim hypothesis; the text may still change.
	STTEventPartial STTEventType = "partial"
	// STTEventCommitted is a finalized utterance. Committed text is what
	// starts an assistant turn.
	STTEventCommitted STTEventType = "committed"
	STTEventError     STTEventType = "error"
)

// STTEvent is one message from a live transcription session. Source names
// the vendor signal that finalized a committed transcript (endpointing,
// explicit commit, VAD).
type STTEvent struct {
	Type       STTEventType
	Text       string
	Confidence float64
	Source     string
	Code       string
	Detail     string
	Retryable  bool
	Timestamp  int64
}

// STTSession is one live transcription stream. SendAudioChunk forwards
// base64 PCM16; commit asks the vendor to finalize the pending utterance.
type STTSession interface {
	SendAudioChunk(ctx context.Context, audioBase64 string, sampleRate int, commit bool) error
	Close() error
}

type STTProvider interface {
	StartSession(ctx context.Context, sessionID string) (STTSession, <-chan STTEvent, error)
}

type TTSEventType string

const (
	TTSEventAudio TTSEventType = "audio"
	// TTSEventFinal marks the end of synthesized audio for the submitted text.
	TTSEventFinal TTSEventType = "final"
	TTSEventError TTSEventType = "error"
)

// TTSEvent is one message from a synthesis stream. Format echoes the
// negotiated output format so the transport can label audio chunks.
type TTSEvent struct {
	Type        TTSEventType
	AudioBase64 string
	Format      string
	Code        string
	Detail      string
	Retryable   bool
}

// TTSSettings tunes delivery. Zero values mean vendor defaults.
type TTSSettings struct {
	Stability       float64
	SimilarityBoost float64
	Speed           float64
}

// TTSStream accepts incremental text for one assistant turn. CloseInput
// signals no more text is coming; the stream then drains remaining audio
// events and finishes with TTSEventFinal.
type TTSStream interface {
	SendText(ctx context.Context, text string, tryTrigger bool) error
	CloseInput(ctx context.Context) error
	Events() <-chan TTSEvent
	Close() error
}

type TTSProvider interface {
	StartStream(ctx context.Context, voiceID, modelID string, settings TTSSettings) (TTSStream, error)
}
