package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/raja1702/computer-storage-solutions/internal/app"
	"github.com/raja1702/computer-storage-solutions/internal/data/db"
	"github.com/raja1702/computer-storage-solutions/internal/data/fixtures"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

func main() {
	var path string
	var dryRun bool
	var batchSize int
	flag.StringVar(&path, "fixture", "scripts/seed/storefront.yaml", "YAML ledger fixture to load")
	flag.BoolVar(&dryRun, "dry-run", false, "validate the fixture and print counts without writing")
	flag.IntVar(&batchSize, "batch-size", 200, "rows per insert statement")
	flag.Parse()

	log, err := logger.New(envOr("LOG_MODE", "development"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	set, err := fixtures.LoadFile(path)
	if err != nil {
		fmt.Printf("load fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("fixture %s: users=%d products=%d orders=%d lines=%d\n",
		path, len(set.Users), len(set.Products), len(set.Orders), len(set.Lines))
	if dryRun {
		return
	}

	cfg, err := app.LoadConfig(log)
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	theDB, err := app.OpenDB(log, cfg)
	if err != nil {
		fmt.Printf("open db: %v\n", err)
		os.Exit(1)
	}
	if err := db.AutoMigrateAll(theDB); err != nil {
		fmt.Printf("automigrate: %v\n", err)
		os.Exit(1)
	}
	if err := set.Apply(context.Background(), theDB, fixtures.ApplyOptions{BatchSize: batchSize}); err != nil {
		fmt.Printf("apply fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("seeded")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
