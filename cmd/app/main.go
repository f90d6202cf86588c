package main

import (
	"flag"
	"log"
	"os"

	"github.com/CryptoZapCommunity/crypto-zap-dash/internal/di"
	"github.com/CryptoZapCommunity/crypto-zap-dash/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s port=%d export=%v", cfg.Environment, cfg.Server.Port, cfg.Export.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
