package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/leveling"
)

func newStatusCmd(app *App) *cobra.Command {
	var project string
	var target int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show bid coverage and project health",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			data, err := app.Leveling.GetProjectBidMatrix(ctx, projectID)
			if err != nil {
				return err
			}

			m := leveling.BuildMatrix(data.Trades, data.ProjectSubs, data.Bids)
			report := leveling.ComputeCoverageReport(data.Trades, m.RawBidsByTradeID(), target)
			health := leveling.ComputeProjectHealth(report.CoveragePct, data.Project.DueDate, time.Now())

			fmt.Printf("%s\n", formatter.FormatCoverage(data.Project, report, health))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().IntVar(&target, "target", 0, "Target bids per trade (default 3)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
