package importer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesTotal       int
	FilesImported    int
	FilesSkipped     int
	FilesErrored     int
	SetsImported     int
	ExercisesCreated int
}

// Importer walks a directory of session export files, converts them to
// sessions, and POSTs them to the IronLog server. Files already recorded in
// the state database are skipped.
type Importer struct {
	client  *Client
	state   *StateDB
	dir     string
	userID  int
	dryRun  bool
	log     *slog.Logger
	stats   Stats
	catalog map[string]models.ExerciseDefinition
}

// New creates a new Importer.
func New(client *Client, state *StateDB, dir string, userID int, dryRun bool, log *slog.Logger) *Importer {
	return &Importer{
		client: client,
		state:  state,
		dir:    dir,
		userID: userID,
		dryRun: dryRun,
		log:    log,
	}
}

// Run executes the import pipeline.
func (im *Importer) Run() (*Stats, error) {
	// Fetch the catalog so exercise names resolve to existing IDs
	// (skip in dry-run — every exercise resolves to a throwaway ID)
	im.catalog = make(map[string]models.ExerciseDefinition)
	if !im.dryRun {
		exercises, err := im.client.FetchExercises()
		if err != nil {
			return &im.stats, fmt.Errorf("fetching catalog: %w", err)
		}
		for _, ex := range exercises {
			im.catalog[strings.ToLower(ex.Name)] = ex
		}
		im.log.Info("fetched exercise catalog", "exercises", len(exercises))
	}

	entries, err := os.ReadDir(im.dir)
	if err != nil {
		return &im.stats, fmt.Errorf("reading %s: %w", im.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		im.stats.FilesTotal++
		if err := im.processFile(name); err != nil {
			im.stats.FilesErrored++
			im.log.Error("import failed", "file", name, "error", err)
		}
	}

	return &im.stats, nil
}

func (im *Importer) processFile(name string) error {
	path := filepath.Join(im.dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	hash, err := HashFile(path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	imported, err := im.state.IsImported(name, info.Size(), hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if imported {
		im.stats.FilesSkipped++
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}

	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	session, err := convert(file, im.userID, im.resolveExercise)
	if err != nil {
		return err
	}

	sets := 0
	for _, ex := range session.Exercises {
		sets += len(ex.Sets)
	}

	if im.dryRun {
		im.log.Info("would import", "file", name, "start", session.Start, "sets", sets)
		im.stats.FilesImported++
		im.stats.SetsImported += sets
		return nil
	}

	if err := im.client.ImportSession(session); err != nil {
		return err
	}
	if err := im.state.MarkImported(name, info.Size(), hash); err != nil {
		return fmt.Errorf("recording state: %w", err)
	}

	im.stats.FilesImported++
	im.stats.SetsImported += sets
	im.log.Info("imported", "file", name, "start", session.Start, "sets", sets)
	return nil
}

// resolveExercise finds an exercise by name, creating it on the server when
// the catalog has no match.
func (im *Importer) resolveExercise(name, muscleGroup string, kind models.MeasurementKind) (uuid.UUID, error) {
	if ex, ok := im.catalog[strings.ToLower(name)]; ok {
		return ex.ID, nil
	}

	ex := models.ExerciseDefinition{
		ID:          uuid.New(),
		Name:        name,
		MuscleGroup: models.MuscleGroup(muscleGroup),
		Measurement: kind,
	}
	if ex.MuscleGroup == "" {
		ex.MuscleGroup = models.MuscleOther
	}

	if !im.dryRun {
		if err := im.client.CreateExercise(ex); err != nil {
			return uuid.Nil, err
		}
		im.log.Info("created exercise", "name", name, "kind", kind)
	}

	im.catalog[strings.ToLower(name)] = ex
	im.stats.ExercisesCreated++
	return ex.ID, nil
}
