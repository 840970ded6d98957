package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/ironlog/internal/importer"
)

func main() {
	dir := flag.String("path", "", "directory of session export files (required)")
	serverURL := flag.String("server", "http://localhost:8080", "IronLog server URL")
	apiKey := flag.String("api-key", os.Getenv("IRONLOG_API_KEY"), "API key (defaults to IRONLOG_API_KEY)")
	stateDir := flag.String("state-dir", defaultStateDir(), "directory for the import state database")
	userID := flag.Int("user", 1, "user ID to import sessions under")
	dryRun := flag.Bool("dry-run", false, "report what would be imported without sending anything")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *dir == "" {
		fmt.Fprintf(os.Stderr, "Usage: ironlog-import -path /path/to/exports [-server url] [-api-key key] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*dir)
	if err != nil || !info.IsDir() {
		log.Error("export path does not exist or is not a directory", "path", *dir)
		os.Exit(1)
	}

	if !*dryRun && *apiKey == "" {
		log.Error("API key required (use -api-key or IRONLOG_API_KEY)")
		os.Exit(1)
	}

	state, err := importer.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — nothing will be sent to the server")
	}

	client := importer.NewClient(*serverURL, *apiKey)
	im := importer.New(client, state, *dir, *userID, *dryRun, log)

	stats, err := im.Run()
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}

	log.Info("import complete",
		"files", stats.FilesTotal,
		"imported", stats.FilesImported,
		"skipped", stats.FilesSkipped,
		"errored", stats.FilesErrored,
		"sets", stats.SetsImported,
		"exercises_created", stats.ExercisesCreated,
	)
	if stats.FilesErrored > 0 {
		os.Exit(1)
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ironlog-import"
	}
	return home + "/.ironlog-import"
}
