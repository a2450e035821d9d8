package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/hiroki-koketsu/taskcore/internal/cli"
	"github.com/hiroki-koketsu/taskcore/internal/config"
	"github.com/hiroki-koketsu/taskcore/internal/repository"
	"github.com/hiroki-koketsu/taskcore/internal/store"
)

func main() {
	root := cli.NewRootCommand(openStore)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openStore loads configuration the same way the server does, so both share
// one storage backend.
func openStore(ctx context.Context, logger *slog.Logger) (*store.Store, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	repo, err := repository.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(ctx, repo, logger, store.WithSampleData(cfg.Storage.SeedSampleData))
	return st, repo.Close, nil
}
