package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/getfive/trackboard/internal/config"
	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/logger"
	"github.com/getfive/trackboard/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	dbTarget   string
	asEmail    string
)

var rootCmd = &cobra.Command{
	Use:   "trackboard",
	Short: "Trackboard - weekly project tracker dashboard",
	Long: `Trackboard tracks template-driven project plans week by week: task
boards, member scorecards, and aggregate reports.

Run 'trackboard' without arguments to launch the interactive dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
		}
		if !cmd.Flags().Changed("db") {
			dbTarget = cfg.DatabaseURL
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024,
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}
		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Info("Trackboard started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			logger.Error("Failed to open database", logger.F("error", err))
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = database.Close()
			logger.Info("Database closed")
		}()

		logger.Info("Launching dashboard", logger.F("as", asEmail))
		m, err := tui.NewModel(database, asEmail)
		if err != nil {
			return err
		}
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("Dashboard error", logger.F("error", err))
			return fmt.Errorf("failed to run dashboard: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Info("Trackboard exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// openDatabase opens the configured store, or the default local file
func openDatabase() (*db.DB, error) {
	if dbTarget != "" {
		return db.Open(dbTarget)
	}
	return db.OpenDefault()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&dbTarget, "db", "", "Database (postgres:// URL or SQLite path)")
	rootCmd.Flags().StringVar(&asEmail, "as", "", "View the dashboard as this directory email")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(reportCmd)
}
