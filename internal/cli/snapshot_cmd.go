package cli

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/session"
)

func newSnapshotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Freeze and inspect leveling snapshots",
	}

	cmd.AddCommand(
		newSnapshotCreateCmd(app),
		newSnapshotListCmd(app),
		newSnapshotViewCmd(app),
	)

	return cmd
}

func currentUserName() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}

func newSnapshotCreateCmd(app *App) *cobra.Command {
	var project, title, note string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Freeze the current matrix as a named snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			if title == "" && app.interactive() {
				if err := snapshotForm(&title, &note).Run(); err != nil {
					return err
				}
			}
			if title == "" {
				return fmt.Errorf("snapshot title is required")
			}

			snap, err := app.Leveling.CreateSnapshot(ctx, projectID, title, note, currentUserName())
			if err != nil {
				return err
			}

			fmt.Printf("Created snapshot %q [%s]\n", snap.Title, snap.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&title, "title", "", "Snapshot title (prompted when omitted)")
	cmd.Flags().StringVar(&note, "note", "", "Snapshot note")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSnapshotListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's snapshots, newest first",
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
			if len(data.Snapshots) == 0 {
				fmt.Println("No snapshots yet.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatSnapshotList(data.Snapshots))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newSnapshotViewCmd(app *App) *cobra.Command {
	var project, snapshotRef string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the matrix as it stood in a snapshot",
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

			snap, err := findSnapshot(sess.Matrix().Snapshots, snapshotRef)
			if err != nil {
				return err
			}
			if err := sess.SelectSnapshot(ctx, snap.ID); err != nil {
				return err
			}

			m := sess.EffectiveMatrix()
			budgets := sess.Matrix().BudgetByTradeID()
			fmt.Printf("%s\n", formatter.FormatMatrixView(m, budgets, snap))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&snapshotRef, "id", "", "Snapshot ID or title")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
