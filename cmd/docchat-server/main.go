package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"docchat/internal/blob"
	"docchat/internal/config"
	"docchat/internal/embed"
	"docchat/internal/llm"
	"docchat/internal/logger"
	"docchat/internal/rag"
	"docchat/internal/search"
	"docchat/internal/server"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config YAML (default: ./config.yaml, then ~/.config/docchat/config.yaml)")
	flag.Parse()

	_ = godotenv.Load()

	var cfg *config.AppConfig
	var err error
	if *cfgPath != "" {
		cfg, err = config.Load(*cfgPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.LogFile)
	defer log.Sync()

	embedder, err := embed.NewClient(embed.Config{
		Endpoint:   cfg.Embedding.Endpoint,
		Deployment: cfg.Embedding.Deployment,
		APIKeyEnv:  cfg.Embedding.APIKeyEnv,
		APIVersion: cfg.Embedding.APIVersion,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal("embedding client", zap.Error(err))
	}

	index, err := search.NewClient(search.Config{
		Endpoint:       cfg.Search.Endpoint,
		Index:          cfg.Search.Index,
		APIKeyEnv:      cfg.Search.APIKeyEnv,
		SemanticConfig: cfg.Search.SemanticConfig,
		APIVersion:     cfg.Search.APIVersion,
		Timeout:        time.Duration(cfg.Search.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal("search client", zap.Error(err))
	}

	completer, err := llm.NewClient(llm.Config{
		Endpoint:    cfg.Chat.Endpoint,
		Deployment:  cfg.Chat.Deployment,
		APIKeyEnv:   cfg.Chat.APIKeyEnv,
		APIVersion:  cfg.Chat.APIVersion,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Timeout:     time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal("chat client", zap.Error(err))
	}

	blobs, err := blob.NewClient(blob.Config{
		AccountURL: cfg.Blob.AccountURL,
		Container:  cfg.Blob.Container,
		Prefix:     cfg.Blob.Prefix,
		SASEnv:     cfg.Blob.SASEnv,
		Timeout:    time.Duration(cfg.Blob.TimeoutSecs) * time.Second,
	})
	if err != nil {
		log.Fatal("blob client", zap.Error(err))
	}

	svc := rag.New(embedder, index, completer, blobs, log)
	srv := server.New(cfg.Server, svc, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}
}
