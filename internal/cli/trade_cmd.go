package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/domain"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Manage trades within a project",
	}

	cmd.AddCommand(
		newTradeAddCmd(app),
		newTradeListCmd(app),
	)

	return cmd
}

func newTradeAddCmd(app *App) *cobra.Command {
	var project, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a trade to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			t := &domain.Trade{
				ProjectID: projectID,
				Name:      name,
			}
			if err := app.Trades.Create(ctx, t); err != nil {
				return err
			}

			fmt.Printf("Added trade %s (#%d)\n", t.Name, t.SortOrder)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&name, "name", "", "Trade name, e.g. Electrical")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTradeListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}

			trades, err := app.Trades.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				fmt.Println("No trades yet.")
				return nil
			}

			headers := []string{"#", "ID", "NAME"}
			rows := make([][]string, 0, len(trades))
			for _, t := range trades {
				rows = append(rows, []string{
					fmt.Sprintf("%d", t.SortOrder),
					formatter.TruncID(t.ID),
					formatter.Bold(t.Name),
				})
			}
			fmt.Printf("%s\n", formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
