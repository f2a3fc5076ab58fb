package main

import (
	"fmt"
	"os"

	"github.com/kennyp2233/autrack-go/internal/config"
	"github.com/kennyp2233/autrack-go/internal/devserver"
	"github.com/kennyp2233/autrack-go/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()

	db, err := devserver.Open(cfg.DevDBPath)
	if err != nil {
		logger.Get().Fatalw("failed to open database", "path", cfg.DevDBPath, "error", err)
	}

	server := devserver.New(db, cfg.JWTSecret, cfg.JWTExpirationDur)
	router := server.Router()

	logger.Get().Infow("dev server listening", "port", cfg.Port, "db", cfg.DevDBPath)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Get().Fatalw("server stopped", "error", err)
	}
}
