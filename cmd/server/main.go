// Command server starts the AI recruit engine HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/gemini"
	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/offline"
	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/ai/openaicompat"
	httpserver "github.com/fairyhunter13/ai-recruit-engine/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-recruit-engine/internal/adapter/observability"
	"github.com/fairyhunter13/ai-recruit-engine/internal/app"
	"github.com/fairyhunter13/ai-recruit-engine/internal/config"
	"github.com/fairyhunter13/ai-recruit-engine/internal/domain"
	"github.com/fairyhunter13/ai-recruit-engine/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	// Offline engine seeds
	vocab, err := offline.LoadVocabulary(cfg.SkillVocabPath)
	if err != nil {
		slog.Error("load skill vocabulary failed", slog.Any("error", err))
		os.Exit(1)
	}
	bank, err := offline.LoadQuestionBank(cfg.QuestionBankPath)
	if err != nil {
		slog.Error("load question bank failed", slog.Any("error", err))
		os.Exit(1)
	}

	matcher := usecase.NewMatcher(cfg)
	offlineEngine := offline.New(vocab, bank, cfg.QuestionTargetCount, matcher)

	remotes := []domain.Provider{
		gemini.New(gemini.Options{
			BaseURL:     cfg.GoogleAIBaseURL,
			APIKey:      cfg.GoogleAIAPIKey,
			Model:       cfg.GoogleAIModel,
			TokenBudget: cfg.PromptTokenBudget,
		}),
		openaicompat.New(openaicompat.Options{
			ProviderID:  "deepseek",
			BaseURL:     cfg.DeepSeekBaseURL,
			APIKey:      cfg.DeepSeekAPIKey,
			Model:       cfg.DeepSeekModel,
			TokenBudget: cfg.PromptTokenBudget,
		}),
		openaicompat.New(openaicompat.Options{
			ProviderID:  "openai",
			BaseURL:     cfg.OpenAIBaseURL,
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			TokenBudget: cfg.PromptTokenBudget,
		}),
	}

	orch, err := usecase.NewOrchestrator(cfg.ProviderPriority, remotes, offlineEngine, cfg.CredentialFor, cfg.ProviderTimeout)
	if err != nil {
		slog.Error("provider chain build failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("provider chain resolved", slog.Any("providers", orch.Providers()))

	analysis := usecase.NewAnalysisService(orch, matcher)
	srv := httpserver.NewServer(cfg, analysis)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
