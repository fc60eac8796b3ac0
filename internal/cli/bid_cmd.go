package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/domain"
	"github.com/colemturner/bidlevel/internal/session"
)

func newBidCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bid",
		Short: "Record and remove bids",
	}

	cmd.AddCommand(
		newBidRecordCmd(app),
		newBidRemoveCmd(app),
	)

	return cmd
}

// parseLineItem parses a repeated --item flag value of the form
// "description:amount".
func parseLineItem(raw string, order int) (domain.BidLineItem, error) {
	idx := strings.LastIndex(raw, ":")
	if idx <= 0 || idx == len(raw)-1 {
		return domain.BidLineItem{}, fmt.Errorf("invalid line item %q, expected \"description:amount\"", raw)
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(raw[idx+1:]))
	if err != nil {
		return domain.BidLineItem{}, fmt.Errorf("invalid line item amount in %q: %w", raw, err)
	}
	return domain.BidLineItem{
		Description: strings.TrimSpace(raw[:idx]),
		Amount:      amount,
		SortOrder:   order,
	}, nil
}

func newBidRecordCmd(app *App) *cobra.Command {
	var project, trade, sub, amountStr, status, notes, received string
	var items []string

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record or update a bid for a (trade, sub) cell",
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
			subID, err := resolveSubID(ctx, app, projectID, sub)
			if err != nil {
				return err
			}

			if status != "" && !domain.ValidBidStatuses[status] {
				return fmt.Errorf("invalid status %q", status)
			}

			var amount *decimal.Decimal
			if amountStr != "" {
				parsed, err := decimal.NewFromString(amountStr)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", amountStr, err)
				}
				amount = &parsed
			}
			var receivedAt *time.Time
			if received != "" {
				t, err := time.Parse("2006-01-02", received)
				if err != nil {
					return fmt.Errorf("invalid received date %q: %w", received, err)
				}
				receivedAt = &t
			}
			var lineItems []domain.BidLineItem
			for i, raw := range items {
				item, err := parseLineItem(raw, i+1)
				if err != nil {
					return err
				}
				lineItems = append(lineItems, item)
			}

			sess := session.New(app.Leveling, projectID)
			if err := sess.Load(ctx); err != nil {
				return err
			}
			if _, err := sess.OpenBid(ctx, tradeID, subID); err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				// No bid exists for this cell yet; create the empty invited
				// bid and open it.
				seed := &domain.Bid{ProjectID: projectID, TradeID: tradeID, SubID: subID}
				if err := app.Leveling.UpsertBid(ctx, seed); err != nil {
					return err
				}
				if _, err := sess.OpenBid(ctx, tradeID, subID); err != nil {
					return err
				}
			}

			err = sess.UpdateDraft(func(d *session.BidDraft) {
				if status != "" {
					d.Status = domain.BidStatus(status)
				}
				if notes != "" {
					d.Notes = notes
				}
				if amount != nil {
					d.BaseBid = amount
				}
				if receivedAt != nil {
					d.ReceivedAt = receivedAt
				}
				if len(lineItems) > 0 {
					d.LineItems = lineItems
				}
			})
			if err != nil {
				return err
			}

			if err := sess.Save(ctx); err != nil {
				return err
			}

			bid, err := app.Leveling.GetBid(ctx, tradeID, subID)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s %s\n", formatter.BidStatusPill(bid.Status), formatter.Money(bid.BaseBidAmount))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&trade, "trade", "", "Trade ID or name")
	cmd.Flags().StringVar(&sub, "sub", "", "Invited sub ID or company name")
	cmd.Flags().StringVar(&amountStr, "amount", "", "Base bid amount, e.g. 125000")
	cmd.Flags().StringVar(&status, "status", "", "Bid status (invited|bidding|submitted|declined|no_response)")
	cmd.Flags().StringVar(&notes, "notes", "", "Bid notes")
	cmd.Flags().StringVar(&received, "received", "", "Date received (YYYY-MM-DD)")
	cmd.Flags().StringArrayVar(&items, "item", nil, "Breakdown line item \"description:amount\" (repeatable; total overrides --amount)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("trade")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}

func newBidRemoveCmd(app *App) *cobra.Command {
	var project, trade, sub string
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a bid (with a short undo grace when interactive)",
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
			subID, err := resolveSubID(ctx, app, projectID, sub)
			if err != nil {
				return err
			}

			sess := session.New(app.Leveling, projectID)
			if err := sess.Load(ctx); err != nil {
				return err
			}
			if err := sess.RemoveBid(ctx, tradeID, subID); err != nil {
				return err
			}

			if yes || !app.interactive() {
				fmt.Println("Bid removed.")
				return nil
			}

			// Offer the undo while the grace window is still open.
			var undo bool
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewConfirm().
						Title("Bid removed. Undo?").
						Affirmative("Undo").
						Negative("Keep removed").
						Value(&undo),
				),
			).WithTheme(bidlevelHuhTheme()).WithShowHelp(false)
			if err := form.Run(); err != nil {
				return err
			}

			if !undo {
				fmt.Println("Bid removed.")
				return nil
			}
			if err := sess.Undo(ctx); err != nil {
				return err
			}
			fmt.Println("Removal undone.")
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&trade, "trade", "", "Trade ID or name")
	cmd.Flags().StringVar(&sub, "sub", "", "Invited sub ID or company name")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the undo prompt")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("trade")
	_ = cmd.MarkFlagRequired("sub")

	return cmd
}
