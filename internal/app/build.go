// Package app assembles the service from configuration: stores, providers,
// tool router, pipeline, and HTTP surface. Both binaries and integration
// tests build through here so wiring mistakes fail in one place.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/arialabs/aria/internal/config"
	"github.com/arialabs/aria/internal/convo"
	"github.com/arialabs/aria/internal/httpapi"
	"github.com/arialabs/aria/internal/knowledge"
	"github.com/arialabs/aria/internal/llm"
	"github.com/arialabs/aria/internal/observability"
	"github.com/arialabs/aria/internal/pipeline"
	"github.com/arialabs/aria/internal/session"
	"github.com/arialabs/aria/internal/tools"
)

type VoiceInfo struct {
	Provider       string
	Detail         string
	DefaultVoiceID string
	DefaultModelID string
}

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Sessions *session.Manager
	Pipeline *pipeline.Pipeline
	Metrics  *observability.Metrics
	Voice    VoiceInfo

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	turnStore, err := convo.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("turn store init failed: %w", err)
	}

	knowledgeStore, err := knowledge.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		turnStore.Close()
		return nil, fmt.Errorf("knowledge store init failed: %w", err)
	}

	var brain llm.Provider
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		brain, err = llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			turnStore.Close()
			knowledgeStore.Close()
			return nil, fmt.Errorf("language model init failed: %w", err)
		}
	} else {
		brain = llm.NewMockProvider()
	}

	voiceSetup, err := resolveVoiceProviders(cfg)
	if err != nil {
		turnStore.Close()
		knowledgeStore.Close()
		return nil, err
	}
	cfg.VoiceProvider = voiceSetup.resolvedProvider
	if voiceSetup.defaultVoiceID != "" {
		cfg.ElevenLabsTTSVoice = voiceSetup.defaultVoiceID
	}

	router := tools.NewNumerologyRouter(knowledgeStore, metrics)
	sink := convo.NewSink(turnStore, metrics, cfg.SinkQueueSize)

	sessions := session.NewManager(cfg.SessionInactivityTimeout)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	pipe, err := pipeline.New(
		sessions,
		brain,
		router,
		sink,
		voiceSetup.sttProvider,
		voiceSetup.ttsProvider,
		metrics,
		pipeline.Config{
			DefaultVoice:  voiceSetup.defaultVoiceID,
			DefaultModel:  voiceSetup.defaultModelID,
			VoiceProvider: cfg.VoiceProvider,
			FirstAudioSLO: cfg.FirstAudioSLO,
		},
	)
	if err != nil {
		sink.Close()
		turnStore.Close()
		knowledgeStore.Close()
		return nil, fmt.Errorf("pipeline init failed: %w", err)
	}

	api := httpapi.New(cfg, sessions, pipe, turnStore, metrics)

	cleanup := func() error {
		sink.Close()
		turnStore.Close()
		knowledgeStore.Close()
		return nil
	}

	return &BuildResult{
		Config:   cfg,
		API:      api,
		Sessions: sessions,
		Pipeline: pipe,
		Metrics:  metrics,
		Voice: VoiceInfo{
			Provider:       cfg.VoiceProvider,
			Detail:         voiceSetup.detail,
			DefaultVoiceID: voiceSetup.defaultVoiceID,
			DefaultModelID: voiceSetup.defaultModelID,
		},
		Cleanup: cleanup,
	}, nil
}
