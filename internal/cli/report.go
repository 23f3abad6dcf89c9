package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/getfive/trackboard/internal/report"
	"github.com/getfive/trackboard/internal/team"
	"github.com/getfive/trackboard/internal/week"
)

var reportFilter string

var reportCmd = &cobra.Command{
	Use:   "report <project-id>",
	Short: "Print a project's overview and employee rollup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		ctx := context.Background()
		p, err := database.GetProject(ctx, args[0])
		if err != nil {
			return fmt.Errorf("project %s not found", args[0])
		}
		tasks, err := database.ListTasks(ctx, p.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		roster := team.Resolve(p, database)
		ov := report.GenerateProjectOverview(tasks, roster, now)

		fmt.Printf("%s — %s (week %d, %s)\n\n", p.ID, p.Name, week.Current(p.StartDate, now), p.Status)
		fmt.Printf("Tasks: %d total, %d completed, %d in progress, %d pending, %d on hold (%d%% done)\n",
			ov.Total, ov.Completed, ov.InProgress, ov.Pending, ov.OnHold, ov.ProgressPercent)
		fmt.Printf("On time: %d (%s), with remarks: %d\n\n", ov.OnTimeCount, ov.OnTimeRate, ov.WithRemarks)

		if len(ov.Phases) > 0 {
			fmt.Println("Phases:")
			for _, ph := range ov.Phases {
				fmt.Printf("  %-30s %3d/%-3d (%d%%)\n", ph.Phase, ph.Completed, ph.Total, ph.Percent)
			}
			fmt.Println()
		}

		startDates := map[string]time.Time{}
		if p.StartDate != nil {
			startDates[p.ID] = *p.StartDate
		}
		stats := report.GenerateEmployeeReport(tasks, roster, report.TimeFilter(reportFilter), now, startDates)
		if len(stats) == 0 {
			return nil
		}

		fmt.Println("Members:")
		for _, s := range stats {
			fmt.Printf("  %-22s %-10s %3d tasks, %3d done, on time %s",
				s.Name, s.Role, s.Total, s.Completed, s.OnTimeRate)
			if s.OverduePending > 0 {
				fmt.Printf(", %d overdue (avg %dd)", s.OverduePending, s.AvgOverdueDays)
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportFilter, "filter", "all", "Time filter: all, this-week, last-week")
}
