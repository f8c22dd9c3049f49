package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wealthflow/wealthflow/internal/config"
	"github.com/wealthflow/wealthflow/internal/ledger"
	"github.com/wealthflow/wealthflow/internal/migrate"
	"github.com/wealthflow/wealthflow/internal/storage"
	"github.com/wealthflow/wealthflow/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	if err := storage.RunMigrations(cfg.Database.Path, "internal/storage/migrations"); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	migrator := migrate.New()
	backend := &storage.Backend{
		DB:         db,
		Migrator:   migrator,
		LegacyPath: cfg.Database.LegacyPath,
	}

	p := tea.NewProgram(
		tui.New(ctx, cfg, backend, migrator, ledger.UUIDSource{}),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
