package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/mlfs/internal/api"
	"github.com/alexanderramin/mlfs/internal/cli"
	"github.com/alexanderramin/mlfs/internal/config"
	"github.com/alexanderramin/mlfs/internal/db"
	"github.com/alexanderramin/mlfs/internal/repository"
	"github.com/alexanderramin/mlfs/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Open the local cache
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire API client and observers
	var (
		callObserver api.Observer            = api.NoopObserver{}
		useCases     service.UseCaseObserver = service.NoopUseCaseObserver{}
	)
	if cfg.LogCalls {
		callObserver = api.NewLogObserver(os.Stderr, cfg.SlogLevel())
		useCases = service.NewLogUseCaseObserver(os.Stderr, cfg.SlogLevel())
	}
	client := api.NewClient(api.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout(),
	}, callObserver)

	// Wire repositories and services
	uow := db.NewSQLiteUnitOfWork(database)
	fieldCache := repository.NewSQLiteFieldCacheRepo(database)
	profiles := repository.NewSQLiteSessionProfileRepo(database)
	drafts := repository.NewSQLiteDraftRepo(database)

	app := &cli.App{
		Records:  client,
		Catalog:  service.NewFieldCatalog(client, fieldCache, cfg.FieldCacheTTL(), useCases),
		Profile:  service.NewSessionProfileService(client, profiles, cfg.APIBaseURL, useCases),
		Drafts:   service.NewDraftService(uow, drafts, useCases),
		Observer: useCases,
		Theme:    cfg.Theme,
	}

	// Forms, prompts and the record view need a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
