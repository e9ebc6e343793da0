package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_BIND_ADDR", ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":9090" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":9090")
	}
	if cfg.MetricsNamespace != "aria" {
		t.Fatalf("MetricsNamespace = %q, want %q", cfg.MetricsNamespace, "aria")
	}
	if cfg.OpenAIModel != "gpt-4o" {
		t.Fatalf("OpenAIModel = %q, want default", cfg.OpenAIModel)
	}
	if cfg.DeepgramModel != "nova-2" || cfg.DeepgramLanguage != "en-US" {
		t.Fatalf("unexpected Deepgram defaults: %q %q", cfg.DeepgramModel, cfg.DeepgramLanguage)
	}
	if cfg.SinkQueueSize != 256 {
		t.Fatalf("SinkQueueSize = %d, want 256", cfg.SinkQueueSize)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Fatalf("LLMTimeout = %v, want 30s", cfg.LLMTimeout)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("OPENAI_TIMEOUT", "12s")
	t.Setenv("APP_SINK_QUEUE_SIZE", "32")
	t.Setenv("APP_ALLOW_ANY_ORIGIN", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLMTimeout != 12*time.Second {
		t.Fatalf("LLMTimeout = %v, want 12s", cfg.LLMTimeout)
	}
	if cfg.SinkQueueSize != 32 {
		t.Fatalf("SinkQueueSize = %d, want 32", cfg.SinkQueueSize)
	}
	if !cfg.AllowAnyOrigin {
		t.Fatalf("AllowAnyOrigin = false, want true")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("APP_SESSION_INACTIVITY_TIMEOUT", "1s")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject sub-5s inactivity timeout")
	}

	setCoreEnvEmpty(t)
	t.Setenv("APP_SINK_QUEUE_SIZE", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject non-numeric queue size")
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_FIRST_AUDIO_SLO",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"APP_SINK_QUEUE_SIZE",
		"VOICE_PROVIDER",
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"OPENAI_MODEL",
		"OPENAI_TIMEOUT",
		"DEEPGRAM_API_KEY",
		"DEEPGRAM_WS_BASE_URL",
		"DEEPGRAM_MODEL",
		"DEEPGRAM_LANGUAGE",
		"ELEVENLABS_API_KEY",
		"ELEVENLABS_WS_BASE_URL",
		"ELEVENLABS_TTS_VOICE_ID",
		"ELEVENLABS_TTS_MODEL_ID",
		"ELEVENLABS_STT_MODEL_ID",
		"ELEVENLABS_TTS_OUTPUT_FORMAT",
		"DATABASE_URL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
