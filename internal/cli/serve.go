package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getfive/trackboard/internal/config"
	"github.com/getfive/trackboard/internal/logger"
	"github.com/getfive/trackboard/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}

		database, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		s := server.New(database)
		defer s.Close()

		logger.Info("Server listening", logger.F("addr", addr))
		fmt.Printf("Trackboard API listening on %s\n", addr)
		return s.Start(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
}
