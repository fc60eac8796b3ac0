package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/session"
)

func newMatrixCmd(app *App) *cobra.Command {
	var project, snapshotRef string

	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Show the leveling matrix (live, or a historical snapshot)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			sess := session.New(app.Leveling, projectID)
			if err := sess.Load(ctx); err != nil {
				return err
			}

			if snapshotRef != "" {
				snap, err := findSnapshot(sess.Matrix().Snapshots, snapshotRef)
				if err != nil {
					return err
				}
				if err := sess.SelectSnapshot(ctx, snap.ID); err != nil {
					return err
				}
			}

			m := sess.EffectiveMatrix()
			budgets := sess.Matrix().BudgetByTradeID()
			fmt.Printf("%s\n", formatter.FormatMatrixView(m, budgets, sess.SelectedSnapshot()))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&snapshotRef, "snapshot", "", "Snapshot ID or title to view instead of live state")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
