package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/cli/formatter"
	"github.com/colemturner/bidlevel/internal/domain"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectCreateCmd(app),
		newProjectListCmd(app),
	)

	return cmd
}

func newProjectCreateCmd(app *App) *cobra.Command {
	var name, due string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				ID:        uuid.New().String(),
				Name:      name,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}

			if due != "" {
				dueDate, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q: %w", due, err)
				}
				p.DueDate = &dueDate
			}

			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Created project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&due, "due", "", "Bid due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}

			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}
}
