package app

import (
	"fmt"
	"strings"

	"github.com/arialabs/aria/internal/config"
	"github.com/arialabs/aria/internal/voice"
)

type voiceSetup struct {
	sttProvider      voice.STTProvider
	ttsProvider      voice.TTSProvider
	resolvedProvider string
	defaultVoiceID   string
	defaultModelID   string
	detail           string
}

// resolveVoiceProviders picks the speech backends for the configured mode.
// Missing credentials in an explicit mode are a startup failure, never a
// silent downgrade.
func resolveVoiceProviders(cfg config.Config) (voiceSetup, error) {
	voiceMode := strings.ToLower(strings.TrimSpace(cfg.VoiceProvider))
	if voiceMode == "" {
		voiceMode = "auto"
	}

	hasDeepgram := strings.TrimSpace(cfg.DeepgramAPIKey) != ""
	hasElevenLabs := strings.TrimSpace(cfg.ElevenLabsAPIKey) != ""

	live := func() voiceSetup {
		eleven := voice.NewElevenLabsProvider(voice.ElevenLabsConfig{
			APIKey:       cfg.ElevenLabsAPIKey,
			WSBaseURL:    cfg.ElevenLabsWSBaseURL,
			STTModelID:   cfg.ElevenLabsSTTModel,
			TTSVoiceID:   cfg.ElevenLabsTTSVoice,
			OutputFormat: cfg.ElevenLabsTTSOutputFormat,
		})
		setup := voiceSetup{
			ttsProvider:      eleven,
			resolvedProvider: "live",
			defaultVoiceID:   cfg.ElevenLabsTTSVoice,
			defaultModelID:   cfg.ElevenLabsTTSModel,
		}
		if hasDeepgram {
			deepgram := voice.NewDeepgramProvider(voice.DeepgramConfig{
				APIKey:    cfg.DeepgramAPIKey,
				WSBaseURL: cfg.DeepgramWSBaseURL,
				Model:     cfg.DeepgramModel,
				Language:  cfg.DeepgramLanguage,
			})
			// ElevenLabs realtime STT backs up Deepgram so one vendor
			// outage does not mute the service.
			stt, tts := voice.NewFailoverSpeech(voice.SpeechBackends{
				PrimarySTT:      deepgram,
				PrimaryTTS:      eleven,
				FallbackSTT:     eleven,
				FallbackTTS:     eleven,
				FallbackVoiceID: cfg.ElevenLabsTTSVoice,
				FallbackModelID: cfg.ElevenLabsTTSModel,
			})
			setup.sttProvider = stt
			setup.ttsProvider = tts
			setup.detail = "deepgram stt + elevenlabs tts (elevenlabs stt fallback)"
			return setup
		}
		setup.sttProvider = eleven
		setup.detail = "elevenlabs realtime"
		return setup
	}

	switch voiceMode {
	case "live":
		if !hasElevenLabs {
			return voiceSetup{}, fmt.Errorf("VOICE_PROVIDER=live requires ELEVENLABS_API_KEY")
		}
		return live(), nil
	case "mock":
		p := voice.NewMockProvider()
		return voiceSetup{
			sttProvider:      p,
			ttsProvider:      p,
			resolvedProvider: "mock",
			detail:           "mock",
		}, nil
	case "auto":
		if hasElevenLabs {
			return live(), nil
		}
		p := voice.NewMockProvider()
		return voiceSetup{
			sttProvider:      p,
			ttsProvider:      p,
			resolvedProvider: "mock",
			detail:           "mock (no speech credentials configured)",
		}, nil
	default:
		return voiceSetup{}, fmt.Errorf("invalid VOICE_PROVIDER: %q (expected auto|live|mock)", cfg.VoiceProvider)
	}
}
