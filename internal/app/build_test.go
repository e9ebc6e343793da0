package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/arialabs/aria/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		BindAddr:                 "127.0.0.1:0",
		MetricsNamespace:         "app_" + t.Name(),
		SessionInactivityTimeout: time.Minute,
		SinkQueueSize:            8,
		VoiceProvider:            "mock",
	}
}

func TestBuildWiresMockStack(t *testing.T) {
	result, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer result.Cleanup()

	if result.API == nil || result.Pipeline == nil || result.Sessions == nil {
		t.Fatalf("Build() left components nil: %+v", result)
	}
	if result.Voice.Provider != "mock" {
		t.Fatalf("Voice.Provider = %q, want %q", result.Voice.Provider, "mock")
	}
	if result.Config.VoiceProvider != "mock" {
		t.Fatalf("resolved VoiceProvider = %q, want %q", result.Config.VoiceProvider, "mock")
	}
}

func TestResolveVoiceProvidersLiveRequiresCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.VoiceProvider = "live"
	if _, err := resolveVoiceProviders(cfg); err == nil {
		t.Fatalf("resolveVoiceProviders() should fail without an ElevenLabs key")
	}
}

func TestResolveVoiceProvidersRejectsUnknownMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.VoiceProvider = "carrier-pigeon"
	_, err := resolveVoiceProviders(cfg)
	if err == nil || !strings.Contains(err.Error(), "invalid VOICE_PROVIDER") {
		t.Fatalf("resolveVoiceProviders() error = %v", err)
	}
}

func TestResolveVoiceProvidersAutoFallsBackToMock(t *testing.T) {
	cfg := testConfig(t)
	cfg.VoiceProvider = ""
	setup, err := resolveVoiceProviders(cfg)
	if err != nil {
		t.Fatalf("resolveVoiceProviders() error = %v", err)
	}
	if setup.resolvedProvider != "mock" {
		t.Fatalf("resolvedProvider = %q, want %q", setup.resolvedProvider, "mock")
	}
}
