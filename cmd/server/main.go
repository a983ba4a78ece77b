package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PitchGuard/internal/api"
	"PitchGuard/internal/config"
	"PitchGuard/internal/delivery"
	"PitchGuard/internal/generator"
	"PitchGuard/internal/metrics"
	"PitchGuard/internal/safety"
	"PitchGuard/internal/workflow"
	"PitchGuard/internal/writer"
)

func main() {

	// ------------------------------------------------
	// Logger
	// ------------------------------------------------
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ------------------------------------------------
	// Config
	// ------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ------------------------------------------------
	// Root Context + Shutdown
	// ------------------------------------------------
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	// ------------------------------------------------
	// Metrics
	// ------------------------------------------------
	metrics.Init()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Writer Strategies
	// ------------------------------------------------
	client := writer.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey)
	strategies := writer.Personas(client, cfg.ProfessionalLLM, cfg.HumorousLLM, cfg.ConciseLLM, logger)

	// ------------------------------------------------
	// Guardrails
	// ------------------------------------------------
	input := &safety.InputEvaluator{
		PIIThreshold:        cfg.PIIBlockThreshold,
		InjectionBlockCount: cfg.InjectionBlockCount,
		Log:                 logger,
	}
	if cfg.UseSafetyOpinion {
		input.Opinion = &writer.SafetyOpinion{Model: cfg.SafetyLLM, Client: client}
		logger.Info("secondary safety opinion enabled", zap.String("model", cfg.SafetyLLM))
	}
	output := &safety.OutputEvaluator{Log: logger}

	// ------------------------------------------------
	// Candidate Generator
	// ------------------------------------------------
	gen := &generator.Generator{
		Strategies: strategies,
		Timeout:    cfg.StrategyTimeout,
		Log:        logger,
	}

	// ------------------------------------------------
	// Delivery
	// ------------------------------------------------
	transport := &delivery.SMTPTransport{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		Retries:  cfg.RetryAttempts,
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)

	deliverer := &delivery.Deliverer{
		Transport: transport,
		Limiter:   limiter,
		Log:       logger,
	}

	// ------------------------------------------------
	// Approval Workflow
	// ------------------------------------------------
	flow := workflow.New(input, output, gen, deliverer, cfg.RoundTimeout, logger)

	// ------------------------------------------------
	// HTTP API Server
	// ------------------------------------------------
	apiHandler := &api.Handler{
		Flow: flow,
		Log:  logger,
	}

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /submit", apiHandler.Submit)
	apiMux.HandleFunc("POST /approve", apiHandler.Approve)
	apiMux.HandleFunc("POST /reject", apiHandler.Reject)
	apiMux.HandleFunc("POST /clear", apiHandler.Clear)
	apiMux.HandleFunc("GET /status", apiHandler.Status)

	apiServer := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: apiMux,
	}

	go func() {
		logger.Info("api server started", zap.String("port", cfg.APIPort))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("api server error", zap.Error(err))
		}
	}()

	// ------------------------------------------------
	// Wait for shutdown
	// ------------------------------------------------
	<-ctx.Done()

	logger.Info("shutting down services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", zap.Error(err))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", zap.Error(err))
	}

	logger.Info("application shutdown complete")
}
