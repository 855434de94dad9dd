package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"docchat/internal/api"
	"docchat/internal/config"
	"docchat/internal/docs"
	"docchat/internal/tui"
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

	// The terminal owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Client.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})

	backend := api.NewClient(cfg.Client.BaseURL,
		api.WithTimeout(time.Duration(cfg.Client.TimeoutSecs)*time.Second),
		api.WithLogger(logger),
	)

	var inventory docs.Source
	switch cfg.Client.Inventory.Type {
	case "static", "":
		inventory = docs.NewStatic(cfg.Client.Inventory.Static)
	case "live":
		inventory = docs.NewLive(backend)
	default:
		fmt.Fprintf(os.Stderr, "unknown inventory type: %s\n", cfg.Client.Inventory.Type)
		os.Exit(1)
	}

	m := tui.New(backend, inventory, logger)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "docchat: %v\n", err)
		os.Exit(1)
	}
}
