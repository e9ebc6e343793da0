package voice

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// SpeechBackends names the two vendors a failover pair switches between.
// FallbackVoiceID and FallbackModelID replace the caller's identifiers when
// the fallback vendor is speaking, since voice names do not carry across
// vendors.
type SpeechBackends struct {
	PrimarySTT      STTProvider
	PrimaryTTS      TTSProvider
	FallbackSTT     STTProvider
	FallbackTTS     TTSProvider
	FallbackVoiceID string
	FallbackModelID string
}

// NewFailoverSpeech returns STT and TTS providers that start on the primary
// vendor and move to the fallback when primary session startup fails. The
// pair shares one switch: once either half is on fallback, both stay there
// until a fallback startup fails, at which point primary is retried.
func NewFailoverSpeech(b SpeechBackends) (STTProvider, TTSProvider) {
	sw := &vendorSwitch{}
	stt := &failoverSTT{sw: sw, primary: b.PrimarySTT, fallback: b.FallbackSTT}
	tts := &failoverTTS{
		sw:       sw,
		primary:  b.PrimaryTTS,
		fallback: b.FallbackTTS,
		voiceID:  strings.TrimSpace(b.FallbackVoiceID),
		modelID:  strings.TrimSpace(b.FallbackModelID),
	}
	return stt, tts
}

type vendorSwitch struct {
	onFallback atomic.Bool
}

func (sw *vendorSwitch) toFallback() {
	if sw.onFallback.CompareAndSwap(false, true) {
		log.Printf("voice: primary vendor unavailable, switching to fallback")
	}
}

func (sw *vendorSwitch) toPrimary() {
	if sw.onFallback.CompareAndSwap(true, false) {
		log.Printf("voice: primary vendor recovered")
	}
}

type failoverSTT struct {
	sw       *vendorSwitch
	primary  STTProvider
	fallback STTProvider
}

func (p *failoverSTT) StartSession(ctx context.Context, sessionID string) (STTSession, <-chan STTEvent, error) {
	first, second := p.primary, p.fallback
	if p.sw.onFallback.Load() {
		first, second = p.fallback, p.primary
	}

	session, events, firstErr := first.StartSession(ctx, sessionID)
	if firstErr == nil {
		return session, events, nil
	}
	session, events, secondErr := second.StartSession(ctx, sessionID)
	if secondErr != nil {
		return nil, nil, fmt.Errorf("stt unavailable on both vendors: %v; %w", firstErr, secondErr)
	}

	if second == p.fallback {
		p.sw.toFallback()
	} else {
		p.sw.toPrimary()
	}
	return session, events, nil
}

type failoverTTS struct {
	sw       *vendorSwitch
	primary  TTSProvider
	fallback TTSProvider
	voiceID  string
	modelID  string
}

func (p *failoverTTS) StartStream(ctx context.Context, voiceID, modelID string, settings TTSSettings) (TTSStream, error) {
	if p.sw.onFallback.Load() {
		stream, fbErr := p.startFallback(ctx, voiceID, modelID, settings)
		if fbErr == nil {
			return stream, nil
		}
		stream, prErr := p.primary.StartStream(ctx, voiceID, modelID, settings)
		if prErr != nil {
			return nil, fmt.Errorf("tts unavailable on both vendors: %v; %w", fbErr, prErr)
		}
		p.sw.toPrimary()
		return stream, nil
	}

	stream, prErr := p.primary.StartStream(ctx, voiceID, modelID, settings)
	if prErr == nil {
		return stream, nil
	}
	stream, fbErr := p.startFallback(ctx, voiceID, modelID, settings)
	if fbErr != nil {
		return nil, fmt.Errorf("tts unavailable on both vendors: %v; %w", prErr, fbErr)
	}
	p.sw.toFallback()
	return stream, nil
}

func (p *failoverTTS) startFallback(ctx context.Context, voiceID, modelID string, settings TTSSettings) (TTSStream, error) {
	if p.voiceID != "" {
		voiceID = p.voiceID
	}
	if p.modelID != "" {
		modelID = p.modelID
	}
	return p.fallback.StartStream(ctx, voiceID, modelID, settings)
}
