package main

import (
	"fmt"
	"os"

	"github.com/getfive/trackboard/internal/config"
	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/logger"
	"github.com/getfive/trackboard/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	logConfig := logger.Config{
		Level:      logger.ParseLevel(cfg.LogLevel),
		FilePath:   cfg.LogFile,
		MaxSize:    10 * 1024 * 1024,
		MaxAge:     7,
		MaxBackups: 5,
		Console:    true,
	}
	if err := logger.Init(logConfig); err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Close()

	target := cfg.DatabaseURL
	if target == "" {
		path, err := db.DefaultPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		target = path
	}

	database, err := db.Open(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to open database:", err)
		os.Exit(1)
	}

	s := server.New(database)
	defer s.Close()

	logger.Info("Server starting", logger.F("addr", cfg.ListenAddr))
	fmt.Printf("Trackboard API listening on %s\n", cfg.ListenAddr)
	if err := s.Start(cfg.ListenAddr); err != nil {
		logger.Error("Server stopped", logger.F("error", err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
