package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/session"
)

func newBudgetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage trade budgets",
	}

	cmd.AddCommand(newBudgetSetCmd(app))

	return cmd
}

func newBudgetSetCmd(app *App) *cobra.Command {
	var project, trade, amountStr, notes string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the budget for a trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			tradeID, err := resolveTradeID(ctx, app, projectID, trade)
			if err != nil {
				return err
			}

			var amount *decimal.Decimal
			if amountStr != "" {
				parsed, err := decimal.NewFromString(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				amount = &parsed
			}

			sess := session.New(app.Leveling, projectID)
			if err := sess.Load(ctx); err != nil {
				return err
			}
			if err := sess.SetBudget(tradeID, amount, notes); err != nil {
				return err
			}
			if err := sess.Save(ctx); err != nil {
				return err
			}

			fmt.Printf("Budget set: %s\n", formatter.Money(amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&trade, "trade", "", "Trade ID or name")
	cmd.Flags().StringVar(&amountStr, "amount", "", "Budget amount, e.g. 200000 (omit to clear)")
	cmd.Flags().StringVar(&notes, "notes", "", "Budget notes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("trade")

	return cmd
}
