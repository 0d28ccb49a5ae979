package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lussekatt/internal/app"
	"github.com/shrimpsizemoose/lussekatt/internal/export"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	if !service.Config.GSheet.Enabled {
		logger.Error.Fatalf("Sheet mirror is disabled in config, nothing to do")
	}

	mirror, err := export.NewSheetMirror(service.Config, service.Store)
	if err != nil {
		logger.Error.Fatalf("Failed to initialize sheet mirror: %v", err)
	}
	defer mirror.Stop()

	logger.Info.Println("Mirror worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info.Println("Mirror worker stopped")
}
