package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convoagent/agent"
	"convoagent/complete"
	"convoagent/config"
	"convoagent/executor"
	"convoagent/extract"
	"convoagent/intent"
	"convoagent/llm"
	"convoagent/media"
	"convoagent/server"
	"convoagent/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	chatModel, err := llm.New(ctx, llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		return err
	}

	var recordStore store.Store
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer pg.Close()
		recordStore = pg
		logger.Info("using postgres store")
	} else {
		recordStore = store.NewMemory()
		logger.Warn("DATABASE_URL not set, records will not survive restarts")
	}

	var uploader media.Uploader
	if cfg.S3Endpoint != "" {
		uploader, err = media.NewS3Uploader(media.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return err
		}
	} else {
		uploader = media.NewMemoryUploader()
		logger.Warn("S3_ENDPOINT not set, uploads are held in memory only")
	}

	detector, err := intent.NewModelChangeDetector(chatModel, logger)
	if err != nil {
		return err
	}

	sessions, err := agent.NewSessions(cfg.SessionCapacity)
	if err != nil {
		return err
	}

	assistant, err := agent.New(agent.Config{
		Classifier: intent.NewModelClassifier(chatModel, logger),
		Detector:   detector,
		Extractor:  extract.NewModelExtractor(chatModel, time.Now, cfg.Timezone, logger),
		Completer:  complete.NewCompleter(complete.NewModelToneRewriter(chatModel), time.Now, logger),
		Executors:  executor.NewSet(recordStore, chatModel, time.Now, logger),
		Uploader:   uploader,
		Sessions:   sessions,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(assistant, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr, "provider", cfg.Provider, "model", cfg.Model)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
