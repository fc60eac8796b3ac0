package cli

import (
	"github.com/spf13/cobra"

	"github.com/colemturner/bidlevel/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Trades   service.TradeService
	Subs     service.SubService
	Leveling service.LevelingService

	// IsInteractive reports whether stdin is a terminal; interactive-only
	// flows (forms, undo grace prompts) are skipped when it returns false.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "bidlevel" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "bidlevel",
		Short: "Bid coverage and leveling for construction estimating",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTradeCmd(app),
		newSubCmd(app),
		newBidCmd(app),
		newBudgetCmd(app),
		newMatrixCmd(app),
		newStatusCmd(app),
		newSnapshotCmd(app),
	)

	return root
}
