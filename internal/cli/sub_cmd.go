package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/domain"
)

func newSubCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage the subcontractor directory and project invitations",
	}

	cmd.AddCommand(
		newSubAddCmd(app),
		newSubInviteCmd(app),
		newSubListCmd(app),
	)

	return cmd
}

func newSubAddCmd(app *App) *cobra.Command {
	var company, contact string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subcontractor to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Subcontractor{
				CompanyName: company,
				Contact:     contact,
			}
			if err := app.Subs.CreateSubcontractor(context.Background(), s); err != nil {
				return err
			}
			fmt.Printf("Added %s to the directory\n", s.CompanyName)
			return nil
		},
	}

	cmd.Flags().StringVar(&company, "company", "", "Company name")
	cmd.Flags().StringVar(&contact, "contact", "", "Contact name or email")
	_ = cmd.MarkFlagRequired("company")

	return cmd
}

// resolveSubcontractorID matches a directory subcontractor by ID, ID prefix
// or exact company name.
func resolveSubcontractorID(ctx context.Context, app *App, input string) (string, error) {
	subs, err := app.Subs.ListSubcontractors(ctx)
	if err != nil {
		return "", err
	}

	for _, s := range subs {
		if s.ID == input {
			return s.ID, nil
		}
	}
	for _, s := range subs {
		if strings.EqualFold(s.CompanyName, input) {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range subs {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("subcontractor not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("subcontractor ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newSubInviteCmd(app *App) *cobra.Command {
	var project, sub, trade string

	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite a subcontractor to bid a trade on a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			subID, err := resolveSubcontractorID(ctx, app, sub)
			if err != nil {
				return err
			}
			tradeID, err := resolveTradeID(ctx, app, projectID, trade)
			if err != nil {
				return err
			}

			ps, err := app.Subs.Invite(ctx, projectID, subID, tradeID)
			if err != nil {
				return err
			}

			fmt.Printf("Invited %s\n", ps.CompanyName)
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name")
	cmd.Flags().StringVar(&sub, "sub", "", "Subcontractor ID or company name")
	cmd.Flags().StringVar(&trade, "trade", "", "Trade ID or name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("sub")
	_ = cmd.MarkFlagRequired("trade")

	return cmd
}

func newSubListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subcontractors (directory, or a project's invitations)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if project == "" {
				subs, err := app.Subs.ListSubcontractors(ctx)
				if err != nil {
					return err
				}
				if len(subs) == 0 {
					fmt.Println("Directory is empty.")
					return nil
				}
				headers := []string{"ID", "COMPANY", "CONTACT"}
				rows := make([][]string, 0, len(subs))
				for _, s := range subs {
					contact := formatter.Dim("--")
					if s.Contact != "" {
						contact = s.Contact
					}
					rows = append(rows, []string{
						formatter.TruncID(s.ID),
						formatter.Bold(s.CompanyName),
						contact,
					})
				}
				fmt.Printf("%s\n", formatter.RenderTable(headers, rows))
				return nil
			}

			projectID, err := resolveProjectID(ctx, app, project)
			if err != nil {
				return err
			}
			subs, err := app.Subs.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(subs) == 0 {
				fmt.Println("No subs invited yet.")
				return nil
			}

			headers := []string{"ID", "COMPANY", "INVITED"}
			rows := make([][]string, 0, len(subs))
			for _, s := range subs {
				rows = append(rows, []string{
					formatter.TruncID(s.ID),
					formatter.Bold(s.CompanyName),
					formatter.HumanDate(s.InvitedAt),
				})
			}
			fmt.Printf("%s\n", formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID or name (omit for the directory)")

	return cmd
}
