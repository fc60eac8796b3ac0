package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/colemturner/bidlevel/internal/cli"
	"github.com/colemturner/bidlevel/internal/db"
	"github.com/colemturner/bidlevel/internal/repository"
	"github.com/colemturner/bidlevel/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.bidlevel/bidlevel.db
	dbPath := os.Getenv("BIDLEVEL_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".bidlevel", "bidlevel.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	tradeRepo := repository.NewSQLiteTradeRepo(database)
	subRepo := repository.NewSQLiteSubRepo(database)
	bidRepo := repository.NewSQLiteBidRepo(database)
	budgetRepo := repository.NewSQLiteBudgetRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)

	// Unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo),
		Trades:   service.NewTradeService(tradeRepo),
		Subs:     service.NewSubService(subRepo, bidRepo),
		Leveling: service.NewLevelingService(projectRepo, tradeRepo, subRepo, bidRepo, budgetRepo, snapshotRepo, uow),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
