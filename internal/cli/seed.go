package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getfive/trackboard/internal/db"
	"github.com/getfive/trackboard/internal/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed <template.yaml>",
	Short: "Load the master task template from a YAML file",
	Long: `Load the master task template from a YAML file. The template is a
list of entries with name, phase, target_week, and assignee_role; new
projects get a private copy of it as real tasks.

Replacing the template does not touch tasks already instantiated into
existing projects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read template file: %w", err)
		}

		var templates []db.Template
		if err := yaml.Unmarshal(data, &templates); err != nil {
			return fmt.Errorf("failed to parse template file: %w", err)
		}
		for i := range templates {
			if templates[i].Position == 0 {
				templates[i].Position = i + 1
			}
			if templates[i].TargetWeek < 1 {
				templates[i].TargetWeek = 1
			}
		}

		database, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		if err := database.ReplaceTemplates(context.Background(), templates); err != nil {
			return err
		}

		logger.Info("Template replaced", logger.F("entries", len(templates)))
		fmt.Printf("✅ Loaded %d template entries\n", len(templates))
		return nil
	},
}
